package perr

import (
	"testing"

	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/trail"
	"github.com/relogic/plang/pkg/unify"
)

func newFixture() (*term.Arena, *unify.Unifier, *Builder) {
	arena := term.NewArena()
	u := unify.New(arena, trail.New(), unify.NewGlobals())
	return arena, u, New(arena, u)
}

func TestErrorShape(t *testing.T) {
	arena, _, b := newFixture()
	name := arena.CreateAtom("foo")

	cases := []struct {
		label     string
		build     func() *term.Term
		innerName string
		innerAr   int
	}{
		{"instantiation", func() *term.Term { return b.Instantiation(name, 2) }, "instantiation_error", 0},
		{"type", func() *term.Term { return b.Type("integer", arena.CreateAtom("x"), name, 1) }, "type_error", 2},
		{"domain", func() *term.Term { return b.Domain("positive_integer", arena.CreateInteger(-1), name, 1) }, "domain_error", 2},
		{"existence", func() *term.Term { return b.Existence("procedure", arena.CreateAtom("bar/2"), name, 0) }, "existence_error", 2},
		{"permission", func() *term.Term { return b.Permission("modify", "static_procedure", arena.CreateAtom("p"), name, 1) }, "permission_error", 3},
		{"representation", func() *term.Term { return b.Representation("max_integer", name, 1) }, "representation_error", 1},
		{"evaluation", func() *term.Term { return b.Evaluation("zero_divisor", name, 2) }, "evaluation_error", 1},
		{"resource", func() *term.Term { return b.Resource(arena.CreateAtom("memory"), name, 0) }, "resource_error", 1},
		{"syntax", func() *term.Term { return b.Syntax(arena.CreateAtom("unexpected_token"), name, 0) }, "syntax_error", 1},
		{"system", func() *term.Term { return b.System(name, 0) }, "system_error", 0},
	}

	for _, c := range cases {
		t.Run(c.label, func(t *testing.T) {
			errTerm := c.build()
			if !b.IsError(errTerm) {
				t.Fatalf("expected error(_, _) shape, got %v", errTerm)
			}
			inner := Inner(errTerm)
			if c.innerAr == 0 {
				if inner.Kind != term.KindAtom || inner.AtomName() != c.innerName {
					t.Errorf("expected inner atom %s, got %v", c.innerName, inner)
				}
			} else {
				if inner.Kind != term.KindFunctor || inner.FunctorName().AtomName() != c.innerName || inner.Arity() != c.innerAr {
					t.Errorf("expected inner functor %s/%d, got %v", c.innerName, c.innerAr, inner)
				}
			}
		})
	}
}

func TestErrorContext(t *testing.T) {
	arena, _, b := newFixture()
	name := arena.CreateAtom("p")
	errTerm := b.Instantiation(name, 3)

	ctx := Context(errTerm)
	if ctx.Kind != term.KindFunctor || ctx.FunctorName() != arena.Slash || ctx.Arity() != 2 {
		t.Fatalf("expected Name/Arity context functor, got %v", ctx)
	}
	if ctx.Arg(0) != name {
		t.Error("expected context's first argument to be the raising predicate's name")
	}
	if ctx.Arg(1).IntegerValue() != 3 {
		t.Error("expected context's second argument to be the raising predicate's arity")
	}
}

func TestCulpritIsClonedNotShared(t *testing.T) {
	arena, u, b := newFixture()
	name := arena.CreateAtom("p")
	v := arena.CreateVariable()

	errTerm := b.Type("atom", v, name, 1)
	culprit := Inner(errTerm).Arg(1)

	if culprit == v {
		t.Fatal("expected the culprit embedded in the error term to be a clone, not the original variable")
	}

	// Binding the original after the error was raised must not affect the
	// culprit captured inside the error term (§7 "Clone on raise").
	u.Unify(v, arena.CreateAtom("bound"), unify.Default)
	if !culprit.IsUnbound() {
		t.Error("expected the cloned culprit to remain unbound after the original was bound")
	}
}
