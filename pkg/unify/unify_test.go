package unify

import (
	"testing"

	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/trail"
)

func newFixture() (*term.Arena, *trail.Trail, *Unifier) {
	arena := term.NewArena()
	tr := trail.New()
	u := New(arena, tr, NewGlobals())
	return arena, tr, u
}

func TestUnify(t *testing.T) {
	t.Run("atoms unify iff reference-equal", func(t *testing.T) {
		arena, _, u := newFixture()
		a1 := arena.CreateAtom("foo")
		a2 := arena.CreateAtom("foo")
		b := arena.CreateAtom("bar")

		if !u.Unify(a1, a2, Default) {
			t.Error("identical atom names should unify (interning)")
		}
		if u.Unify(a1, b, Default) {
			t.Error("different atoms should not unify")
		}
	})

	t.Run("unbound variable binds to a term and is visible via dereference", func(t *testing.T) {
		arena, _, u := newFixture()
		v := arena.CreateVariable()
		val := arena.CreateAtom("hello")

		if !u.Unify(v, val, Default) {
			t.Fatal("expected unify to succeed")
		}
		if u.Dereference(v, Default) != val {
			t.Error("expected variable to dereference to bound value")
		}
	})

	t.Run("unifying a variable with itself succeeds without recording", func(t *testing.T) {
		arena, tr, u := newFixture()
		v := arena.CreateVariable()
		before := tr.Len()

		if !u.Unify(v, v, Default) {
			t.Fatal("expected self-unification to succeed")
		}
		if tr.Len() != before {
			t.Errorf("expected no trail growth, got %d new entries", tr.Len()-before)
		}
	})

	t.Run("occurs check rejects binding a variable to a term containing it", func(t *testing.T) {
		arena, _, u := newFixture()
		v := arena.CreateVariable()
		list := arena.CreateList(arena.CreateAtom("a"), v)
		listWrapped := arena.CreateList(v, arena.Nil)
		_ = listWrapped

		if u.Unify(v, list, Default) {
			t.Error("expected occurs check to reject v = [a|v]")
		}
	})

	t.Run("no-occurs-check flag permits a cyclic binding", func(t *testing.T) {
		arena, _, u := newFixture()
		v := arena.CreateVariable()
		list := arena.CreateList(arena.CreateAtom("a"), v)

		if !u.Unify(v, list, NoOccursCheck) {
			t.Error("expected NoOccursCheck to permit the binding")
		}
	})

	t.Run("failed unification leaves the trail at its pre-call position", func(t *testing.T) {
		arena, tr, u := newFixture()
		v := arena.CreateVariable()
		f1 := arena.CreateFunctorWithArgs(arena.CreateAtom("f"), v, arena.CreateAtom("x"))
		f2 := arena.CreateFunctorWithArgs(arena.CreateAtom("f"), arena.CreateAtom("y"), arena.CreateAtom("z"))

		mark := tr.Mark()
		if u.Unify(f1, f2, Default) {
			t.Fatal("expected unification to fail (x != z)")
		}
		if tr.Mark() != mark {
			t.Error("trail moved despite unification failure")
		}
	})

	t.Run("lists unify element-wise and tail-recurse", func(t *testing.T) {
		arena, _, u := newFixture()
		l1 := arena.CreateListFromSlice([]*term.Term{arena.CreateInteger(1), arena.CreateInteger(2), arena.CreateInteger(3)})
		l2 := arena.CreateListFromSlice([]*term.Term{arena.CreateInteger(1), arena.CreateInteger(2), arena.CreateInteger(3)})

		if !u.Unify(l1, l2, Default) {
			t.Error("expected equal lists to unify")
		}
	})

	t.Run("equality-only mode never binds", func(t *testing.T) {
		arena, tr, u := newFixture()
		v := arena.CreateVariable()
		val := arena.CreateAtom("x")
		mark := tr.Mark()

		if u.Unify(v, val, EqualityOnly) {
			t.Error("expected equality-only unify of unbound var against a term to fail")
		}
		if tr.Mark() != mark {
			t.Error("equality-only mode must never write to the trail")
		}
	})

	t.Run("one-way flag refuses to bind a variable in the second term", func(t *testing.T) {
		arena, _, u := newFixture()
		a := arena.CreateAtom("x")
		v := arena.CreateVariable()

		if u.Unify(a, v, OneWay) {
			t.Error("expected one-way unify to fail when only the second term has the variable")
		}
		if !u.Unify(v, a, OneWay) {
			t.Error("expected one-way unify to succeed when the first term has the variable")
		}
	})

	t.Run("empty list unifies with empty list", func(t *testing.T) {
		arena, _, u := newFixture()
		if !u.Unify(arena.Nil, arena.Nil, Default) {
			t.Error("[] should unify with []")
		}
	})

	t.Run("member variable resolves against a global object with auto-create", func(t *testing.T) {
		arena, _, u := newFixture()
		objName := arena.CreateAtom("counter")
		obj := arena.CreateObject(nil)
		u.Globals.Set(objName, obj)

		mv := arena.CreateMemberVariable(objName, arena.CreateAtom("value"), true)
		val := arena.CreateInteger(42)

		if !u.Unify(mv, val, Default) {
			t.Fatal("expected member-variable unify with auto-create to succeed")
		}

		prop := term.LookupProperty(arena, obj, arena.CreateAtom("value"))
		if prop == nil {
			t.Fatal("expected property to have been created")
		}
		if u.Dereference(prop, Default) != val {
			t.Error("expected property to be bound to 42 after unification")
		}
	})

	t.Run("member variable resolution fails without auto-create when absent", func(t *testing.T) {
		arena, _, u := newFixture()
		objName := arena.CreateAtom("thing")
		obj := arena.CreateObject(nil)
		u.Globals.Set(objName, obj)

		mv := arena.CreateMemberVariable(objName, arena.CreateAtom("missing"), false)
		if u.Unify(mv, arena.CreateInteger(1), Default) {
			t.Error("expected unify to fail: no such property and auto-create is off")
		}
	})

	t.Run("property lookup walks the prototype chain", func(t *testing.T) {
		arena, _, _ := newFixture()
		parent := arena.CreateObject(nil)
		arena.AddProperty(parent, arena.CreateAtom("species"), arena.CreateAtom("cat"))
		child := arena.CreateObject(parent)

		got := term.LookupProperty(arena, child, arena.CreateAtom("species"))
		if got != arena.CreateAtom("cat") {
			t.Error("expected inherited property via prototype chain")
		}
	})
}

func TestClone(t *testing.T) {
	t.Run("clone of a ground term is structurally identical", func(t *testing.T) {
		arena, _, u := newFixture()
		f := arena.CreateFunctorWithArgs(arena.CreateAtom("f"), arena.CreateAtom("a"), arena.CreateInteger(1))
		c := u.Clone(f)

		if !u.Unify(f, c, Default) {
			t.Error("expected ground clone to unify with original")
		}
	})

	t.Run("clone shares no variable cell with the source", func(t *testing.T) {
		arena, _, u := newFixture()
		v := arena.CreateVariable()
		f := arena.CreateFunctorWithArgs(arena.CreateAtom("f"), v, v)

		c := u.Clone(f)

		if c.Arg(0) == v || c.Arg(1) == v {
			t.Error("clone must not reuse the source variable")
		}
	})

	t.Run("clone preserves sharing of repeated variable occurrences", func(t *testing.T) {
		arena, _, u := newFixture()
		v := arena.CreateVariable()
		f := arena.CreateFunctorWithArgs(arena.CreateAtom("f"), v, v)

		c := u.Clone(f)

		if c.Arg(0) != c.Arg(1) {
			t.Error("expected both occurrences of the shared source variable to clone to the same fresh variable")
		}
	})

	t.Run("source variables return to unbound after clone", func(t *testing.T) {
		arena, tr, u := newFixture()
		v := arena.CreateVariable()
		mark := tr.Mark()

		u.Clone(v)

		if !v.IsUnbound() {
			t.Error("expected source variable to be unbound again after Clone returns")
		}
		if tr.Mark() != mark {
			t.Error("expected Clone to leave the trail exactly where it found it")
		}
	})

	t.Run("clone of a variable bound straight to another unbound variable shares no cell with either", func(t *testing.T) {
		arena, tr, u := newFixture()
		x := arena.CreateVariable()
		y := arena.CreateVariable()
		mark := tr.Mark()
		u.Bind(x, y, true, Default)

		f := arena.CreateFunctorWithArgs(arena.CreateAtom("f"), x, y)
		c := u.Clone(f)

		if c.Arg(0) == x || c.Arg(0) == y || c.Arg(1) == x || c.Arg(1) == y {
			t.Error("clone must not reuse a cell from either side of the alias")
		}
		if c.Arg(0) != c.Arg(1) {
			t.Error("expected both sides of the alias to clone to the same fresh variable")
		}

		tr.Backtrack(mark)
	})

	t.Run("clone of the alias target visited before the alias source still shares one fresh variable", func(t *testing.T) {
		arena, tr, u := newFixture()
		x := arena.CreateVariable()
		y := arena.CreateVariable()
		mark := tr.Mark()
		u.Bind(x, y, true, Default)

		// y (the alias target) appears first this time, reversing visit order.
		f := arena.CreateFunctorWithArgs(arena.CreateAtom("f"), y, x)
		c := u.Clone(f)

		if c.Arg(0) == x || c.Arg(0) == y || c.Arg(1) == x || c.Arg(1) == y {
			t.Error("clone must not reuse a cell from either side of the alias")
		}
		if c.Arg(0) != c.Arg(1) {
			t.Error("expected both sides of the alias to clone to the same fresh variable regardless of visit order")
		}

		tr.Backtrack(mark)
	})

	t.Run("clone of a long list does not share structure and stays in order", func(t *testing.T) {
		arena, _, u := newFixture()
		items := make([]*term.Term, 0, 500)
		for i := 0; i < 500; i++ {
			items = append(items, arena.CreateInteger(int64(i)))
		}
		list := arena.CreateListFromSlice(items)
		c := u.Clone(list)

		if !u.Unify(list, c, Default) {
			t.Error("expected cloned list to unify with source list")
		}
	})
}

func TestPrecedes(t *testing.T) {
	t.Run("precedes(a, a) == 0", func(t *testing.T) {
		arena, _, u := newFixture()
		a := arena.CreateAtom("x")
		if u.Precedes(a, a) != 0 {
			t.Error("expected precedes(a, a) == 0")
		}
	})

	t.Run("precedes is antisymmetric", func(t *testing.T) {
		arena, _, u := newFixture()
		a := arena.CreateAtom("alpha")
		b := arena.CreateAtom("beta")

		if u.Precedes(a, b) != -u.Precedes(b, a) {
			t.Error("expected precedes(a,b) == -precedes(b,a)")
		}
	})

	t.Run("integers order numerically", func(t *testing.T) {
		arena, _, u := newFixture()
		if u.Precedes(arena.CreateInteger(1), arena.CreateInteger(2)) >= 0 {
			t.Error("expected 1 to precede 2")
		}
	})
}

func TestGround(t *testing.T) {
	t.Run("ground term with no variables", func(t *testing.T) {
		arena, _, _ := newFixture()
		f := arena.CreateFunctorWithArgs(arena.CreateAtom("f"), arena.CreateAtom("a"))
		if !term.IsGround(f) {
			t.Error("expected f(a) to be ground")
		}
	})

	t.Run("term containing an unbound variable is not ground", func(t *testing.T) {
		arena, _, _ := newFixture()
		v := arena.CreateVariable()
		f := arena.CreateFunctorWithArgs(arena.CreateAtom("f"), v)
		if term.IsGround(f) {
			t.Error("expected f(V) to be non-ground")
		}
	})

	t.Run("objects are ground regardless of property values", func(t *testing.T) {
		arena, _, _ := newFixture()
		obj := arena.CreateObject(nil)
		arena.AddProperty(obj, arena.CreateAtom("x"), arena.CreateVariable())
		if !term.IsGround(obj) {
			t.Error("expected objects to be treated as ground (reference-identity terms)")
		}
	})
}
