// Package builtins implements the reference set of deterministic native
// predicates SPEC_FULL.md §1 calls for: unification and term-ordering
// comparisons, type-checking, a small built-in arithmetic evaluator for
// is/2 and the arithmetic comparisons, and assert/retract wired onto
// pkg/pdb. This is deliberately not a full numeric tower or a full ISO
// builtin library. Every predicate here is installed in the database's
// builtin-dispatcher slot; the evaluator does not look up functions
// registered in the arithmetic-function slot.
package builtins

import (
	"github.com/relogic/plang/pkg/exec"
	"github.com/relogic/plang/pkg/pdb"
	"github.com/relogic/plang/pkg/perr"
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/unify"
)

// Register installs every builtin in this package into db, building error
// terms through errs and operating on terms through u.
func Register(db *pdb.Database, u *unify.Unifier, errs *perr.Builder) {
	arena := u.Arena
	reg := func(name string, arity int, fn exec.BuiltinFunc) {
		db.RegisterBuiltin(arena.CreateAtom(name), arity, fn)
	}

	reg("=", 2, unifyBuiltin(u))
	reg("\\=", 2, notUnifyBuiltin(u))
	reg("==", 2, equalBuiltin(u))
	reg("\\==", 2, notEqualBuiltin(u))
	reg("@<", 2, orderBuiltin(u, func(c int) bool { return c < 0 }))
	reg("@>", 2, orderBuiltin(u, func(c int) bool { return c > 0 }))
	reg("@=<", 2, orderBuiltin(u, func(c int) bool { return c <= 0 }))
	reg("@>=", 2, orderBuiltin(u, func(c int) bool { return c >= 0 }))
	reg("compare", 3, compareBuiltin(u))

	reg("var", 1, typeCheckBuiltin(u, func(t *term.Term) bool {
		return t.Kind == term.KindVariable || t.Kind == term.KindMemberVariable
	}))
	reg("nonvar", 1, typeCheckBuiltin(u, func(t *term.Term) bool {
		return t.Kind != term.KindVariable && t.Kind != term.KindMemberVariable
	}))
	reg("atom", 1, typeCheckBuiltin(u, func(t *term.Term) bool { return t.Kind == term.KindAtom }))
	reg("number", 1, typeCheckBuiltin(u, func(t *term.Term) bool {
		return t.Kind == term.KindInteger || t.Kind == term.KindReal
	}))
	reg("integer", 1, typeCheckBuiltin(u, func(t *term.Term) bool { return t.Kind == term.KindInteger }))
	reg("float", 1, typeCheckBuiltin(u, func(t *term.Term) bool { return t.Kind == term.KindReal }))
	reg("atomic", 1, typeCheckBuiltin(u, func(t *term.Term) bool {
		switch t.Kind {
		case term.KindAtom, term.KindString, term.KindInteger, term.KindReal:
			return true
		default:
			return false
		}
	}))
	reg("compound", 1, typeCheckBuiltin(u, func(t *term.Term) bool {
		return t.Kind == term.KindFunctor || t.Kind == term.KindList
	}))
	reg("callable", 1, typeCheckBuiltin(u, func(t *term.Term) bool {
		return t.Kind == term.KindAtom || t.Kind == term.KindFunctor
	}))
	reg("is_list", 1, typeCheckBuiltin(u, isProperList(u)))

	is2 := isBuiltin(u, errs)
	reg("is", 2, is2)
	for _, cmp := range []struct {
		name string
		ok   func(c int) bool
	}{
		{"=:=", func(c int) bool { return c == 0 }},
		{"=\\=", func(c int) bool { return c != 0 }},
		{"<", func(c int) bool { return c < 0 }},
		{">", func(c int) bool { return c > 0 }},
		{"=<", func(c int) bool { return c <= 0 }},
		{">=", func(c int) bool { return c >= 0 }},
	} {
		reg(cmp.name, 2, arithCompareBuiltin(u, errs, cmp.ok))
	}

	reg("functor", 3, functorBuiltin(u, errs))
	reg("arg", 3, argBuiltin(u, errs))
	reg("length", 2, lengthBuiltin(u, errs))

	reg("findall", 3, findallBuiltin(u))

	reg("asserta", 1, assertBuiltin(u, errs, db.AssertA))
	reg("assertz", 1, assertBuiltin(u, errs, db.AssertZ))
	reg("assert", 1, assertBuiltin(u, errs, db.AssertZ))
	reg("retract", 1, retractBuiltin(u, errs, db))
	reg("abolish", 2, abolishBuiltin(u, errs, db))
}

func unifyBuiltin(u *unify.Unifier) exec.BuiltinFunc {
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		if u.Unify(args[0], args[1], unify.Default) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

func notUnifyBuiltin(u *unify.Unifier) exec.BuiltinFunc {
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		mark := u.Trail.Mark()
		ok := u.Unify(args[0], args[1], unify.Default)
		u.Trail.Backtrack(mark)
		if ok {
			return exec.ResultFail, nil
		}
		return exec.ResultTrue, nil
	}
}

func equalBuiltin(u *unify.Unifier) exec.BuiltinFunc {
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		if u.Unify(args[0], args[1], unify.EqualityOnly) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

func notEqualBuiltin(u *unify.Unifier) exec.BuiltinFunc {
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		if u.Unify(args[0], args[1], unify.EqualityOnly) {
			return exec.ResultFail, nil
		}
		return exec.ResultTrue, nil
	}
}

func orderBuiltin(u *unify.Unifier, ok func(c int) bool) exec.BuiltinFunc {
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		if ok(u.Precedes(args[0], args[1])) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

func compareBuiltin(u *unify.Unifier) exec.BuiltinFunc {
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		c := u.Precedes(args[1], args[2])
		var sym string
		switch {
		case c < 0:
			sym = "<"
		case c > 0:
			sym = ">"
		default:
			sym = "="
		}
		if u.Unify(args[0], u.Arena.CreateAtom(sym), unify.Default) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

func typeCheckBuiltin(u *unify.Unifier, pred func(*term.Term) bool) exec.BuiltinFunc {
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		t := u.Dereference(args[0], unify.Default)
		if pred(t) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

// findallBuiltin implements findall/3 (§4 "Clause iteration / first-
// solution re-entry", generalized to all solutions): collects every
// instance of Template the Goal sub-solve produces into a list, binding
// none of Goal's own variables visibly to the caller.
func findallBuiltin(u *unify.Unifier) exec.BuiltinFunc {
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		instances, err := ex.FindAll(args[1], args[0])
		if err != nil {
			return exec.ResultError, err
		}
		if u.Unify(args[2], u.Arena.CreateListFromSlice(instances), unify.Default) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

func isProperList(u *unify.Unifier) func(*term.Term) bool {
	return func(t *term.Term) bool {
		for {
			t = u.Dereference(t, unify.Default)
			if t == u.Arena.Nil {
				return true
			}
			if t.Kind != term.KindList {
				return false
			}
			t = t.Tail()
		}
	}
}
