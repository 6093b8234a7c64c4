package builtins

import (
	"testing"

	"github.com/relogic/plang/pkg/exec"
	"github.com/relogic/plang/pkg/pdb"
	"github.com/relogic/plang/pkg/perr"
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/trail"
	"github.com/relogic/plang/pkg/unify"
)

func newFixture() (*term.Arena, *unify.Unifier, *pdb.Database, *exec.Executor) {
	arena := term.NewArena()
	tr := trail.New()
	u := unify.New(arena, tr, unify.NewGlobals())
	errs := perr.New(arena, u)
	db := pdb.NewDatabase()
	Register(db, u, errs)
	ex := exec.New(u, db, errs, nil, exec.ExistenceFails)
	return arena, u, db, ex
}

func mustRun(t *testing.T, ex *exec.Executor, goal *term.Term) {
	t.Helper()
	res, errTerm, _ := ex.ExecuteGoal(goal)
	if res != exec.ResultTrue {
		t.Fatalf("expected true, got %v (%v)", res, errTerm)
	}
}

func mustFail(t *testing.T, ex *exec.Executor, goal *term.Term) {
	t.Helper()
	res, _, _ := ex.ExecuteGoal(goal)
	if res != exec.ResultFail {
		t.Fatalf("expected fail, got %v", res)
	}
}

func TestIsArithmetic(t *testing.T) {
	t.Run("addition", func(t *testing.T) {
		arena, _, _, ex := newFixture()
		x := arena.CreateVariable()
		expr := arena.CreateFunctorWithArgs(arena.CreateAtom("+"), arena.CreateInteger(2), arena.CreateInteger(3))
		goal := arena.CreateFunctorWithArgs(arena.CreateAtom("is"), x, expr)
		mustRun(t, ex, goal)
		if x.Value().IntegerValue() != 5 {
			t.Errorf("expected 5, got %v", x.Value())
		}
	})

	t.Run("division by zero raises evaluation_error", func(t *testing.T) {
		arena, _, _, ex := newFixture()
		x := arena.CreateVariable()
		expr := arena.CreateFunctorWithArgs(arena.CreateAtom("/"), arena.CreateInteger(1), arena.CreateInteger(0))
		goal := arena.CreateFunctorWithArgs(arena.CreateAtom("is"), x, expr)
		res, errTerm, _ := ex.ExecuteGoal(goal)
		if res != exec.ResultError {
			t.Fatalf("expected error, got %v", res)
		}
		if errTerm.Arg(0).FunctorName().AtomName() != "evaluation_error" {
			t.Errorf("expected evaluation_error, got %v", errTerm)
		}
	})

	t.Run("inexact integer division produces a real", func(t *testing.T) {
		arena, _, _, ex := newFixture()
		x := arena.CreateVariable()
		expr := arena.CreateFunctorWithArgs(arena.CreateAtom("/"), arena.CreateInteger(1), arena.CreateInteger(3))
		goal := arena.CreateFunctorWithArgs(arena.CreateAtom("is"), x, expr)
		mustRun(t, ex, goal)
		if x.Value().Kind != term.KindReal {
			t.Errorf("expected a real result for 1/3, got %v", x.Value().Kind)
		}
	})
}

func TestArithmeticComparisons(t *testing.T) {
	arena, _, _, ex := newFixture()
	goal := arena.CreateFunctorWithArgs(arena.CreateAtom("<"), arena.CreateInteger(2), arena.CreateInteger(3))
	mustRun(t, ex, goal)

	arena2, _, _, ex2 := newFixture()
	goal2 := arena2.CreateFunctorWithArgs(arena2.CreateAtom(">"), arena2.CreateInteger(2), arena2.CreateInteger(3))
	mustFail(t, ex2, goal2)
}

func TestTypeChecks(t *testing.T) {
	arena, _, _, ex := newFixture()
	mustRun(t, ex, arena.CreateFunctorWithArgs(arena.CreateAtom("atom"), arena.CreateAtom("foo")))
	mustFail(t, ex, arena.CreateFunctorWithArgs(arena.CreateAtom("atom"), arena.CreateInteger(1)))
	mustRun(t, ex, arena.CreateFunctorWithArgs(arena.CreateAtom("var"), arena.CreateVariable()))
	mustRun(t, ex, arena.CreateFunctorWithArgs(arena.CreateAtom("is_list"),
		arena.CreateListFromSlice([]*term.Term{arena.CreateInteger(1), arena.CreateInteger(2)})))
}

func TestCompareAndOrdering(t *testing.T) {
	arena, _, _, ex := newFixture()
	order := arena.CreateVariable()
	goal := arena.CreateFunctorWithArgs(arena.CreateAtom("compare"), order, arena.CreateInteger(1), arena.CreateInteger(2))
	mustRun(t, ex, goal)
	if order.Value().AtomName() != "<" {
		t.Errorf("expected <, got %v", order.Value())
	}
}

func TestFunctorDecomposeAndConstruct(t *testing.T) {
	t.Run("decompose", func(t *testing.T) {
		arena, _, _, ex := newFixture()
		name := arena.CreateVariable()
		arity := arena.CreateVariable()
		f := arena.CreateFunctorWithArgs(arena.CreateAtom("point"), arena.CreateInteger(1), arena.CreateInteger(2))
		goal := arena.CreateFunctorWithArgs(arena.CreateAtom("functor"), f, name, arity)
		mustRun(t, ex, goal)
		if name.Value().AtomName() != "point" || arity.Value().IntegerValue() != 2 {
			t.Errorf("expected point/2, got %v/%v", name.Value(), arity.Value())
		}
	})

	t.Run("construct", func(t *testing.T) {
		arena, _, _, ex := newFixture()
		built := arena.CreateVariable()
		goal := arena.CreateFunctorWithArgs(arena.CreateAtom("functor"), built, arena.CreateAtom("point"), arena.CreateInteger(2))
		mustRun(t, ex, goal)
		if built.Value().FunctorName().AtomName() != "point" || built.Value().Arity() != 2 {
			t.Errorf("expected a fresh point/2, got %v", built.Value())
		}
	})
}

func TestLengthBuiltin(t *testing.T) {
	t.Run("known list", func(t *testing.T) {
		arena, _, _, ex := newFixture()
		n := arena.CreateVariable()
		lst := arena.CreateListFromSlice([]*term.Term{arena.CreateInteger(1), arena.CreateInteger(2), arena.CreateInteger(3)})
		goal := arena.CreateFunctorWithArgs(arena.CreateAtom("length"), lst, n)
		mustRun(t, ex, goal)
		if n.Value().IntegerValue() != 3 {
			t.Errorf("expected 3, got %v", n.Value())
		}
	})

	t.Run("generate a list of unbound variables for a given length", func(t *testing.T) {
		arena, _, _, ex := newFixture()
		lst := arena.CreateVariable()
		goal := arena.CreateFunctorWithArgs(arena.CreateAtom("length"), lst, arena.CreateInteger(2))
		mustRun(t, ex, goal)
		if lst.Value().Kind != term.KindList || lst.Value().Tail().Tail() != arena.Nil {
			t.Errorf("expected a 2-element list, got %v", lst.Value())
		}
	})
}

func TestAssertRetractAbolish(t *testing.T) {
	arena, _, db, ex := newFixture()
	p := arena.CreateAtom("p")

	mustRun(t, ex, arena.CreateFunctorWithArgs(arena.CreateAtom("assertz"),
		arena.CreateFunctorWithArgs(p, arena.CreateAtom("a"))))
	mustRun(t, ex, arena.CreateFunctorWithArgs(arena.CreateAtom("asserta"),
		arena.CreateFunctorWithArgs(p, arena.CreateAtom("z"))))

	pred := db.LookupPredicate(p, 1)
	if pred.Count() != 2 {
		t.Fatalf("expected 2 clauses, got %d", pred.Count())
	}
	if pred.Clauses()[0].Head.Arg(0).AtomName() != "z" {
		t.Errorf("expected asserta to prepend, got %v", pred.Clauses()[0].Head)
	}

	mustRun(t, ex, arena.CreateFunctorWithArgs(arena.CreateAtom("retract"),
		arena.CreateFunctorWithArgs(p, arena.CreateAtom("z"))))
	if pred.Count() != 1 {
		t.Fatalf("expected 1 clause after retract, got %d", pred.Count())
	}

	mustRun(t, ex, arena.CreateFunctorWithArgs(arena.CreateAtom("abolish"), p, arena.CreateInteger(1)))
	if pred.Count() != 0 {
		t.Errorf("expected 0 clauses after abolish, got %d", pred.Count())
	}
}

func TestFindallCollectsEverySolutionWithoutLeakingBindings(t *testing.T) {
	arena, u, db, ex := newFixture()
	p := arena.CreateAtom("p")
	for _, v := range []string{"a", "b", "c"} {
		db.AssertZ(p, 1, arena.CreateFunctorWithArgs(p, arena.CreateAtom(v)), arena.True)
	}

	x := arena.CreateVariable()
	bag := arena.CreateVariable()
	goal := arena.CreateFunctorWithArgs(arena.CreateAtom("findall"), x,
		arena.CreateFunctorWithArgs(p, x), bag)
	mustRun(t, ex, goal)

	if x.Value() != nil {
		t.Errorf("expected findall's template variable to remain unbound, got %v", x.Value())
	}

	result := u.Dereference(bag, unify.Default)
	var got []string
	for result.Kind == term.KindList {
		got = append(got, result.Head().AtomName())
		result = u.Dereference(result.Tail(), unify.Default)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("expected [a,b,c], got %v", got)
	}
}
