package exec

import (
	"github.com/relogic/plang/pkg/pdb"
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/unify"
)

// goalNameArity returns the predicate-indicator name atom and arity a
// callable goal term dispatches under: the atom itself for arity 0, or a
// functor's name and argument count. ok is false for anything not
// callable (numbers, strings, lists, variables, objects).
func goalNameArity(goal *term.Term) (name *term.Term, arity int, ok bool) {
	switch goal.Kind {
	case term.KindAtom:
		return goal, 0, true
	case term.KindFunctor:
		return goal.FunctorName(), goal.Arity(), true
	default:
		return nil, 0, false
	}
}

// goalArgs collects a callable goal's arguments as a slice, nil for
// arity 0.
func goalArgs(goal *term.Term) []*term.Term {
	if goal.Kind != term.KindFunctor {
		return nil
	}
	args := make([]*term.Term, goal.Arity())
	for i := range args {
		args[i] = goal.Arg(i)
	}
	return args
}

// tryClauseCandidates attempts candidates[idx:] against goal in order
// (§4.5): each candidate's head and body are cloned together (as one pair
// term, so a variable shared between them renames identically on both
// sides, the same fix Retract needed), the head is unified against
// goal, and on the first match a choice point recording the remaining
// candidates is pushed (unless none remain) before the cloned body
// becomes the new current goal. Returns false, leaving the trail
// untouched, if no candidate from idx onward unifies.
func (ex *Executor) tryClauseCandidates(candidates []*pdb.Clause, idx int, goal *term.Term, cont *frame) bool {
	mark := ex.u.Trail.Mark()
	for ; idx < len(candidates); idx++ {
		c := candidates[idx]
		pair := ex.u.Arena.CreateFunctorWithArgs(ex.u.Arena.Neck, c.Head, c.Body)
		clonedPair := ex.u.Clone(pair)
		if ex.u.Unify(goal, clonedPair.Arg(0), unify.Default) {
			next := idx + 1
			barrier := len(ex.choices)
			if next < len(candidates) {
				ex.choices = append(ex.choices, &choicePoint{
					mark:       mark,
					confidence: ex.confidence,
					catchDepth: len(ex.catches),
					retry: func(ex *Executor) bool {
						return ex.tryClauseCandidates(candidates, next, goal, cont)
					},
				})
			}
			ex.current = &frame{kind: frameGoal, goal: clonedPair.Arg(1), cutBarrier: barrier, next: cont}
			return true
		}
		ex.u.Trail.Backtrack(mark)
	}
	return false
}
