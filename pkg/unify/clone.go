package unify

import "github.com/relogic/plang/pkg/term"

// Clone performs fresh-variable renaming (§4.3): every unbound variable
// reachable from t is replaced by a freshly allocated one, preserving
// sharing so repeated occurrences of the same source variable map to the
// same fresh variable. Atoms, numbers, strings and objects clone as
// themselves.
//
// Renames are tracked in an explicit map from source variable to fresh
// replacement, keyed on the unbound terminal of each variable's own
// binding chain rather than on whichever variable a caller happens to
// reach first: two variables aliased to each other (X bound straight to
// an unbound Y) must clone to the same fresh variable regardless of
// which of X or Y is visited first, and neither visit may hand back a
// cell from the original term (§8 invariant 6).
func (u *Unifier) Clone(t *term.Term) *term.Term {
	renamed := make(map[*term.Term]*term.Term)
	return u.cloneWalk(t, renamed)
}

func (u *Unifier) cloneWalk(t *term.Term, renamed map[*term.Term]*term.Term) *term.Term {
	switch t.Kind {
	case term.KindVariable:
		// Follow t's own binding chain to its terminal: either a bound
		// non-variable value (delegate cloning to it directly) or the
		// unbound variable the whole chain is ultimately aliased to. That
		// terminal, not t itself, is the rename key, so every alias along
		// the chain converges on one fresh variable.
		root := t
		for {
			v := root.Value()
			if v == nil {
				break
			}
			if v.Kind != term.KindVariable {
				return u.cloneWalk(v, renamed)
			}
			root = v
		}
		if fresh, ok := renamed[root]; ok {
			return fresh
		}
		fresh := u.Arena.CreateVariable()
		renamed[root] = fresh
		return fresh
	case term.KindMemberVariable:
		owner := u.cloneWalk(t.MemberOwner(), renamed)
		return u.Arena.CreateMemberVariable(owner, t.MemberName(), t.AutoCreate())
	case term.KindFunctor:
		args := make([]*term.Term, t.Arity())
		for i := range args {
			args[i] = u.cloneWalk(t.Arg(i), renamed)
		}
		return u.Arena.CreateFunctorWithArgs(t.FunctorName(), args...)
	case term.KindList:
		var headClone, lastNode *term.Term
		cur := t
		for cur.Kind == term.KindList {
			h := u.cloneWalk(cur.Head(), renamed)
			node := u.Arena.CreateList(h, nil)
			if headClone == nil {
				headClone = node
			} else {
				lastNode.SetTail(node)
			}
			lastNode = node
			cur = cur.Tail()
		}
		lastNode.SetTail(u.cloneWalk(cur, renamed))
		return headClone
	default:
		// Atoms, strings, integers, reals and objects clone as themselves.
		return t
	}
}
