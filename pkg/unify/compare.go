package unify

import (
	"strings"

	"github.com/relogic/plang/pkg/term"
)

// Precedes implements the standard-order-of-terms comparison (§8 testable
// property 8: antisymmetric, zero on identical terms). Kind order is
// term.Kind's declaration order; within a kind, atoms and strings compare
// by byte content, numbers by value, variables/objects by creation id,
// and functors/lists structurally, element by element.
func (u *Unifier) Precedes(a, b *term.Term) int {
	a = u.Dereference(a, Default)
	b = u.Dereference(b, Default)

	if a == b {
		return 0
	}
	if a.Kind != b.Kind {
		return cmpInt(int(a.Kind), int(b.Kind))
	}

	switch a.Kind {
	case term.KindVariable, term.KindMemberVariable, term.KindObject:
		return cmpUint(a.ID(), b.ID())
	case term.KindAtom:
		return strings.Compare(a.AtomName(), b.AtomName())
	case term.KindString:
		return StrCmp(a, b)
	case term.KindInteger:
		return cmpInt64(a.IntegerValue(), b.IntegerValue())
	case term.KindReal:
		return cmpFloat(a.RealValue(), b.RealValue())
	case term.KindFunctor:
		if a.Arity() != b.Arity() {
			return cmpInt(a.Arity(), b.Arity())
		}
		if c := strings.Compare(a.FunctorName().AtomName(), b.FunctorName().AtomName()); c != 0 {
			return c
		}
		for i := 0; i < a.Arity(); i++ {
			if c := u.Precedes(a.Arg(i), b.Arg(i)); c != 0 {
				return c
			}
		}
		return 0
	case term.KindList:
		for {
			if c := u.Precedes(a.Head(), b.Head()); c != 0 {
				return c
			}
			at := u.Dereference(a.Tail(), Default)
			bt := u.Dereference(b.Tail(), Default)
			if at.Kind == term.KindList && bt.Kind == term.KindList {
				a, b = at, bt
				continue
			}
			return u.Precedes(at, bt)
		}
	default:
		return 0
	}
}

// StrCmp compares two string terms by raw byte content (NUL-safe, since
// Go's string comparison is a byte-wise compare regardless of embedded
// NUL bytes).
func StrCmp(a, b *term.Term) int {
	return strings.Compare(a.StringValue(), b.StringValue())
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
