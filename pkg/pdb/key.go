package pdb

import (
	"fmt"
	"math"

	"github.com/relogic/plang/pkg/term"
)

// clauseKey is the canonical, totally-ordered encoding of a §3.3
// first-argument key: type tag, arity-or-size, then discriminant. It is
// encoded into one comparable string so the index can be backed by an
// ordered tree keyed on plain strings rather than a bespoke tagged
// union comparator.
type clauseKey string

// computeClauseKey derives the indexing key for a dereferenced term, or
// reports ok=false for a variable (or member variable before it has been
// resolved), which must go on the always-tried variable-head list
// instead of the tree.
func computeClauseKey(t *term.Term) (clauseKey, bool) {
	switch t.Kind {
	case term.KindVariable, term.KindMemberVariable:
		return "", false
	case term.KindAtom:
		return clauseKey("A:" + t.AtomName()), true
	case term.KindString:
		return clauseKey("S:" + t.StringValue()), true
	case term.KindInteger:
		// %020d on the raw value would order negative integers
		// lexicographically backwards (numeric order needs the sign bit
		// flipped, not a decimal minus sign compared as a byte). Bias
		// into unsigned space by flipping the sign bit: this maps the
		// full int64 range onto uint64 0..2^64-1 while preserving
		// numeric order end to end, so %020d on the biased value sorts
		// the same way Precedes does (§4.5 "numeric order"). Only exact
		// Get lookups use this key today, but a future range scan needs
		// the ordering to already hold.
		biased := uint64(t.IntegerValue()) ^ (1 << 63)
		return clauseKey(fmt.Sprintf("I:%020d", biased)), true
	case term.KindReal:
		return clauseKey(fmt.Sprintf("R:%016x", math.Float64bits(t.RealValue()))), true
	case term.KindFunctor:
		return clauseKey(fmt.Sprintf("F:%04d:%s", t.Arity(), t.FunctorName().AtomName())), true
	case term.KindList:
		// §3.3: lists whose head is a non-list, non-variable concrete
		// term get a second-level key so [a|_] and [b|_] index
		// distinctly; otherwise all lists share one key.
		head := term.Deref(t.Head())
		if head.Kind != term.KindList && head.Kind != term.KindVariable && head.Kind != term.KindMemberVariable {
			if sub, ok := computeClauseKey(head); ok {
				return clauseKey("L:" + string(sub)), true
			}
		}
		return clauseKey("L:"), true
	case term.KindObject:
		return clauseKey(fmt.Sprintf("O:%020d", t.ID())), true
	default:
		return "", false
	}
}
