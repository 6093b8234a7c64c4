package trail

import (
	"testing"

	"github.com/relogic/plang/pkg/term"
)

func TestTrail(t *testing.T) {
	t.Run("mark and backtrack is a no-op when nothing changed", func(t *testing.T) {
		tr := New()
		m := tr.Mark()
		tr.Backtrack(m)
		if tr.Len() != 0 {
			t.Errorf("expected empty trail, got %d entries", tr.Len())
		}
	})

	t.Run("unbind record resets a variable cell on rollback", func(t *testing.T) {
		arena := term.NewArena()
		tr := New()

		v := arena.CreateVariable()
		m := tr.Mark()

		v.SetValue(arena.CreateAtom("bound"))
		tr.RecordUnbind(v)

		if v.IsUnbound() {
			t.Fatal("expected variable to be bound before rollback")
		}

		tr.Backtrack(m)

		if !v.IsUnbound() {
			t.Fatal("expected variable to be unbound after rollback")
		}
	})

	t.Run("restore record runs an arbitrary undo closure", func(t *testing.T) {
		tr := New()
		m := tr.Mark()

		x := 1
		tr.RecordRestore(func() { x = 0 })
		x = 2

		tr.Backtrack(m)

		if x != 0 {
			t.Errorf("expected undo closure to run, got x=%d", x)
		}
	})

	t.Run("markers nested across multiple blocks roll back correctly", func(t *testing.T) {
		arena := term.NewArena()
		tr := New()

		outer := tr.Mark()
		vars := make([]*term.Term, 0, 3000)
		for i := 0; i < 3000; i++ {
			v := arena.CreateVariable()
			v.SetValue(arena.CreateAtom("x"))
			tr.RecordUnbind(v)
			vars = append(vars, v)
		}

		if tr.Len() != 3000 {
			t.Fatalf("expected 3000 trail entries spanning multiple blocks, got %d", tr.Len())
		}

		tr.Backtrack(outer)

		for i, v := range vars {
			if !v.IsUnbound() {
				t.Fatalf("variable %d not unbound after rollback", i)
			}
		}
		if tr.Len() != 0 {
			t.Errorf("expected trail empty after full rollback, got %d", tr.Len())
		}
	})

	t.Run("idempotent mark round-trip", func(t *testing.T) {
		arena := term.NewArena()
		tr := New()

		v := arena.CreateVariable()
		v.SetValue(arena.CreateAtom("x"))
		tr.RecordUnbind(v)

		m1 := tr.Mark()
		v2 := arena.CreateVariable()
		v2.SetValue(arena.CreateAtom("y"))
		tr.RecordUnbind(v2)

		tr.Backtrack(m1)
		if got := tr.Mark(); got != m1 {
			t.Errorf("mark after backtrack(m1) should equal m1")
		}
	})
}
