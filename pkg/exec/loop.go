package exec

import (
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/unify"
)

// ExecuteGoal installs goal as a fresh top-level execution and runs it to
// its first solution (§6.1 "execute_goal").
func (ex *Executor) ExecuteGoal(goal *term.Term) (Result, *term.Term, int) {
	ex.topMark = ex.u.Trail.Mark()
	ex.choices = nil
	ex.catches = nil
	ex.confidence = 1.0
	ex.current = &frame{kind: frameGoal, goal: goal, cutBarrier: 0}
	return ex.finish(ex.runLoop())
}

// ReexecuteGoal forces backtracking into the most recent ExecuteGoal (or
// ReexecuteGoal) for the next solution (§6.1 "reexecute_goal").
func (ex *Executor) ReexecuteGoal() (Result, *term.Term, int) {
	_, _, _, ok := ex.backtrack()
	if !ok {
		return ex.finish(ResultFail, nil, 0)
	}
	return ex.finish(ex.continueLoop())
}

// AbandonGoal rolls the trail back to the marker taken at the last
// top-level execute_goal call and discards every outstanding choice
// point and catch frame (§6.1 "abandon_goal").
func (ex *Executor) AbandonGoal() {
	ex.u.Trail.Backtrack(ex.topMark)
	ex.choices = nil
	ex.catches = nil
	ex.current = nil
	ex.confidence = 0
}

// finish applies §7's "confidence is zero after fail/error/halt" rule at
// the top-level API boundary.
func (ex *Executor) finish(res Result, errTerm *term.Term, halt int) (Result, *term.Term, int) {
	if res != ResultTrue {
		ex.confidence = 0
	}
	return res, errTerm, halt
}

// runLoop drives the outer loop (§4.4) until it reaches true, fail,
// error, or halt.
func (ex *Executor) runLoop() (Result, *term.Term, int) {
	return ex.continueLoop()
}

// continueLoop is runLoop's body, split out so ReexecuteGoal can resume
// from an already-backtracked state (ex.current already points at the
// next alternative's goal) without re-deriving it.
func (ex *Executor) continueLoop() (Result, *term.Term, int) {
	for {
		if ex.current == nil {
			return ResultTrue, nil, 0
		}
		switch ex.current.kind {
		case framePopCatch:
			if ex.current.popTo < len(ex.catches) {
				ex.catches = ex.catches[:ex.current.popTo]
			}
			ex.current = ex.current.next
			continue
		case frameCutChoices:
			if ex.current.popTo < len(ex.choices) {
				ex.choices = ex.choices[:ex.current.popTo]
			}
			ex.current = ex.current.next
			continue
		}

		res, errTerm, halt, treeChange := ex.step()
		if treeChange {
			continue
		}
		switch res {
		case ResultTrue:
			ex.current = ex.current.next
			continue
		case ResultFail:
			if _, _, _, ok := ex.backtrack(); ok {
				continue
			}
			return ResultFail, nil, 0
		case ResultError:
			if _, _, _, ok := ex.raise(errTerm); ok {
				continue
			}
			return ResultError, errTerm, 0
		case ResultHalt:
			return ResultHalt, nil, halt
		}
	}
}

// backtrack pops choice points, restoring trail/confidence/catch depth,
// until one yields a new current goal or none remain. Each choice point
// is popped before its retry runs: retry is responsible for pushing
// whatever replacement choice point its own alternative still leaves
// (tryClauseCandidates does this for the remaining clause candidates),
// not for being called again itself. A retry that wants no replacement
// simply installs its alternative and returns true without pushing
// anything.
func (ex *Executor) backtrack() (Result, *term.Term, int, bool) {
	ex.log.Trace("backtrack", "choices", len(ex.choices))
	for len(ex.choices) > 0 {
		cp := ex.choices[len(ex.choices)-1]
		ex.choices = ex.choices[:len(ex.choices)-1]
		ex.u.Trail.Backtrack(cp.mark)
		ex.confidence = cp.confidence
		if cp.catchDepth < len(ex.catches) {
			ex.catches = ex.catches[:cp.catchDepth]
		}
		if cp.retry(ex) {
			return ResultTrue, nil, 0, true
		}
	}
	return ResultFail, nil, 0, false
}

// negationSolve runs goal as an isolated sub-solve for \+/1 (§4.6): the
// and-stack, choice points and catch frames are saved and restored around
// it, and the trail is rolled back to its pre-call mark regardless of
// outcome, so negation never leaves a binding behind. Confidence is
// likewise restored unconditionally; negation does not participate in
// fuzzy propagation.
func (ex *Executor) negationSolve(goal *term.Term) (bool, *term.Term) {
	savedCurrent, savedChoices, savedCatches, savedConf := ex.current, ex.choices, ex.catches, ex.confidence
	mark := ex.u.Trail.Mark()

	ex.current = &frame{kind: frameGoal, goal: goal, cutBarrier: 0}
	ex.choices = nil
	ex.catches = nil

	res, errTerm, _ := ex.continueLoop()

	ex.u.Trail.Backtrack(mark)
	ex.current, ex.choices, ex.catches, ex.confidence = savedCurrent, savedChoices, savedCatches, savedConf

	if res == ResultError {
		return false, errTerm
	}
	return res == ResultTrue, nil
}

// CallOnce runs goal as an isolated re-entrant sub-solve to its first
// solution, for embedder use (§4.6, §6.1 "call_once"). The and-stack,
// choice points and catch frames are saved and restored around it so the
// caller's own outstanding alternatives are untouched. On success the
// bindings made by goal's first solution persist and the ambient
// confidence is min-propagated against the sub-solve's result; on
// failure or error the trail and confidence roll back as if the call
// never ran.
func (ex *Executor) CallOnce(goal *term.Term) (Result, *term.Term) {
	savedCurrent, savedChoices, savedCatches, savedConf := ex.current, ex.choices, ex.catches, ex.confidence
	mark := ex.u.Trail.Mark()

	ex.current = &frame{kind: frameGoal, goal: goal, cutBarrier: 0}
	ex.choices = nil
	ex.catches = nil

	res, errTerm, _ := ex.continueLoop()

	ex.current, ex.choices, ex.catches = savedCurrent, savedChoices, savedCatches
	if res != ResultTrue {
		ex.u.Trail.Backtrack(mark)
		ex.confidence = savedConf
		return res, errTerm
	}
	if ex.confidence > savedConf {
		ex.confidence = savedConf
	}
	return ResultTrue, nil
}

// FindAll runs goal as an isolated sub-solve to exhaustion, collecting a
// clone of template after each solution, and unconditionally rolls the
// trail back to the pre-call mark before returning. findall/3 never
// leaves a binding from goal visible to its caller; the collected
// instances are the only observable effect. An error raised inside goal
// propagates out immediately, discarding whatever instances were
// collected so far.
func (ex *Executor) FindAll(goal, template *term.Term) ([]*term.Term, *term.Term) {
	savedCurrent, savedChoices, savedCatches, savedConf := ex.current, ex.choices, ex.catches, ex.confidence
	mark := ex.u.Trail.Mark()

	var instances []*term.Term
	ex.current = &frame{kind: frameGoal, goal: goal, cutBarrier: 0}
	ex.choices = nil
	ex.catches = nil

	res, errTerm, _ := ex.continueLoop()
	for res == ResultTrue {
		instances = append(instances, ex.u.Clone(template))
		_, _, _, ok := ex.backtrack()
		if !ok {
			break
		}
		res, errTerm, _ = ex.continueLoop()
	}

	ex.u.Trail.Backtrack(mark)
	ex.current, ex.choices, ex.catches, ex.confidence = savedCurrent, savedChoices, savedCatches, savedConf

	if res == ResultError {
		return nil, errTerm
	}
	return instances, nil
}

// raise walks the catch chain (§4.4 step 7, §7 "Propagation policy"):
// the first frame whose pattern unifies with errTerm handles it; frames
// tried and rejected along the way have their partial bindings rolled
// back by the next frame's own (earlier, hence encompassing) marker.
func (ex *Executor) raise(errTerm *term.Term) (Result, *term.Term, int, bool) {
	for len(ex.catches) > 0 {
		cf := ex.catches[len(ex.catches)-1]
		ex.u.Trail.Backtrack(cf.mark)
		if cf.choiceDepth < len(ex.choices) {
			ex.choices = ex.choices[:cf.choiceDepth]
		}
		ex.catches = ex.catches[:len(ex.catches)-1]
		if ex.u.Unify(cf.pattern, errTerm, unify.Default) {
			ex.log.Debug("error caught", "pattern", cf.pattern.String())
			ex.current = &frame{kind: frameGoal, goal: cf.recovery, cutBarrier: cf.choiceDepth, next: cf.cont}
			return ResultTrue, nil, 0, true
		}
	}
	return ResultError, errTerm, 0, false
}
