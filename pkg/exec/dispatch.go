package exec

import (
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/unify"
)

// step executes exactly one current frame (§4.4 steps 1-6). The final
// bool reports a "tree change": step has already installed a new
// ex.current itself (splicing a conjunction, entering a clause body,
// pushing a disjunction's alternative, ...) and the outer loop should
// simply continue rather than advance past ex.current.next or treat the
// returned Result as the frame's outcome.
func (ex *Executor) step() (res Result, errTerm *term.Term, halt int, treeChange bool) {
	f := ex.current
	goal := ex.u.Dereference(f.goal, unify.Default)

	if goal.Kind == term.KindVariable {
		return ResultError, ex.errs.Instantiation(ex.callAtom, 1), 0, false
	}

	arena := ex.u.Arena

	switch goal {
	case arena.True:
		return ResultTrue, nil, 0, false
	case arena.Fail:
		return ResultFail, nil, 0, false
	case arena.Cut:
		if f.cutBarrier < len(ex.choices) {
			ex.choices = ex.choices[:f.cutBarrier]
		}
		return ResultTrue, nil, 0, false
	case ex.haltAtom:
		return ResultHalt, nil, 0, false
	}

	name, arity, ok := goalNameArity(goal)
	if !ok {
		return ResultError, ex.errs.Type("callable", goal, ex.callAtom, 1), 0, false
	}
	if goal.Kind == term.KindAtom {
		// A bare atom other than true/fail/!: an arity-0 predicate call.
		return ex.dispatchPredicate(name, arity, goal, f)
	}

	switch {
	case name == arena.Comma && arity == 2:
		ex.current = &frame{
			kind: frameGoal, goal: goal.Arg(0), cutBarrier: f.cutBarrier,
			next: &frame{kind: frameGoal, goal: goal.Arg(1), cutBarrier: f.cutBarrier, next: f.next},
		}
		return ResultTrue, nil, 0, true

	case name == ex.semicolonAtom && arity == 2:
		ex.stepSemicolon(goal, f)
		return ResultTrue, nil, 0, true

	case name == arena.Arrow && arity == 2:
		ex.installIfThenElse(goal.Arg(0), goal.Arg(1), arena.Fail, f)
		return ResultTrue, nil, 0, true

	case name == ex.callAtom && arity == 1:
		barrier := len(ex.choices)
		ex.current = &frame{kind: frameGoal, goal: goal.Arg(0), cutBarrier: barrier, next: f.next}
		return ResultTrue, nil, 0, true

	case name == ex.onceAtom && arity == 1:
		barrier := len(ex.choices)
		inner := arena.CreateFunctorWithArgs(arena.Comma, goal.Arg(0), arena.Cut)
		ex.current = &frame{kind: frameGoal, goal: inner, cutBarrier: barrier, next: f.next}
		return ResultTrue, nil, 0, true

	case name == ex.negAtom && arity == 1:
		ok, err := ex.negationSolve(goal.Arg(0))
		if err != nil {
			return ResultError, err, 0, false
		}
		if ok {
			return ResultFail, nil, 0, false
		}
		return ResultTrue, nil, 0, false

	case name == ex.catchAtom && arity == 3:
		ex.installCatch(goal.Arg(0), goal.Arg(1), goal.Arg(2), f)
		return ResultTrue, nil, 0, true

	case name == ex.throwAtom && arity == 1:
		return ResultError, ex.u.Clone(goal.Arg(0)), 0, false

	case name == ex.fuzzyAtom && arity == 1:
		r, e := ex.stepFuzzy(goal.Arg(0))
		return r, e, 0, false

	case name == ex.setFuzzyAtom && arity == 1:
		r, e := ex.stepSetFuzzy(goal.Arg(0))
		return r, e, 0, false

	case name == ex.haltAtom && arity == 1:
		return ex.stepHalt(goal.Arg(0))
	}

	return ex.dispatchPredicate(name, arity, goal, f)
}

// stepSemicolon installs either plain disjunction (A ; B) or, when the
// left side is an if-then pair, the full if-then-else construct (§4.4).
func (ex *Executor) stepSemicolon(goal *term.Term, f *frame) {
	left := ex.u.Dereference(goal.Arg(0), unify.Default)
	right := goal.Arg(1)

	if left.Kind == term.KindFunctor && left.FunctorName() == ex.u.Arena.Arrow && left.Arity() == 2 {
		ex.installIfThenElse(left.Arg(0), left.Arg(1), right, f)
		return
	}

	used := false
	ex.choices = append(ex.choices, &choicePoint{
		mark:       ex.u.Trail.Mark(),
		confidence: ex.confidence,
		catchDepth: len(ex.catches),
		retry: func(ex *Executor) bool {
			if used {
				return false
			}
			used = true
			ex.current = &frame{kind: frameGoal, goal: right, cutBarrier: f.cutBarrier, next: f.next}
			return true
		},
	})
	// Left keeps the enclosing cut barrier: a cut in either arm of a
	// plain disjunction prunes the whole enclosing clause, including the
	// alternative just pushed above, since that alternative sits deeper
	// in ex.choices than f.cutBarrier.
	ex.current = &frame{kind: frameGoal, goal: left, cutBarrier: f.cutBarrier, next: f.next}
}

// installIfThenElse implements (Cond -> Then ; Else) (and, with
// elseGoal == arena.Fail, the else-less (Cond -> Then)): Else is pushed
// as a one-shot alternative at the pre-Cond depth; Cond runs under a
// fresh, local cut barrier (cut inside Cond only prunes Cond's own
// choices, mirroring once/1); the first time Cond succeeds, a commit
// frame discards the Else alternative and anything Cond left behind,
// then control passes to Then under the *enclosing* cut barrier.
func (ex *Executor) installIfThenElse(cond, then, elseGoal *term.Term, f *frame) {
	preDepth := len(ex.choices)
	used := false
	ex.choices = append(ex.choices, &choicePoint{
		mark:       ex.u.Trail.Mark(),
		confidence: ex.confidence,
		catchDepth: len(ex.catches),
		retry: func(ex *Executor) bool {
			if used {
				return false
			}
			used = true
			ex.current = &frame{kind: frameGoal, goal: elseGoal, cutBarrier: f.cutBarrier, next: f.next}
			return true
		},
	})
	condBarrier := len(ex.choices)
	commit := &frame{
		kind: frameCutChoices, popTo: preDepth,
		next: &frame{kind: frameGoal, goal: then, cutBarrier: f.cutBarrier, next: f.next},
	}
	ex.current = &frame{kind: frameGoal, goal: cond, cutBarrier: condBarrier, next: commit}
}

// installCatch pushes a catch frame for catch(G, Pattern, Recovery) and
// injects a framePopCatch right after G in the continuation, so forward
// progress past G retires the frame while backtracking into a choice
// point made during G (which recorded the catch-stack depth including
// this frame) naturally keeps it visible (§4.4).
func (ex *Executor) installCatch(g, pattern, recovery *term.Term, f *frame) {
	popDepth := len(ex.catches)
	cf := &catchFrame{
		mark:        ex.u.Trail.Mark(),
		choiceDepth: len(ex.choices),
		pattern:     pattern,
		recovery:    recovery,
		cont:        f.next,
	}
	ex.catches = append(ex.catches, cf)

	popFrame := &frame{kind: framePopCatch, popTo: popDepth, next: f.next}
	barrier := len(ex.choices)
	ex.current = &frame{kind: frameGoal, goal: g, cutBarrier: barrier, next: popFrame}
}

// numericValue extracts a float64 from an integer or real term.
func numericValue(t *term.Term) (float64, bool) {
	switch t.Kind {
	case term.KindInteger:
		return float64(t.IntegerValue()), true
	case term.KindReal:
		return t.RealValue(), true
	default:
		return 0, false
	}
}

// stepFuzzy implements fuzzy/1 (§4.7): with an unbound argument it reads
// out the current confidence; with a bound numeric argument it folds the
// argument into confidence as min(current, X), failing if X <= 0.
func (ex *Executor) stepFuzzy(argTerm *term.Term) (Result, *term.Term) {
	arg := ex.u.Dereference(argTerm, unify.Default)
	if arg.Kind == term.KindVariable {
		if ex.u.Unify(arg, ex.u.Arena.CreateReal(ex.confidence), unify.Default) {
			return ResultTrue, nil
		}
		return ResultFail, nil
	}
	x, ok := numericValue(arg)
	if !ok {
		return ResultError, ex.errs.Type("number", arg, ex.fuzzyAtom, 1)
	}
	if x <= 0 {
		return ResultFail, nil
	}
	if x < ex.confidence {
		ex.confidence = x
	}
	return ResultTrue, nil
}

// stepHalt implements halt/1 (§4.4 "Fatal paths"): a halt result bypasses
// every outstanding catch frame, so it is produced directly rather than
// through the usual Result/error-term path other builtins use. Negative
// values are clamped to 127.
func (ex *Executor) stepHalt(argTerm *term.Term) (Result, *term.Term, int, bool) {
	arg := ex.u.Dereference(argTerm, unify.Default)
	if arg.Kind == term.KindVariable {
		return ResultError, ex.errs.Instantiation(ex.haltAtom, 1), 0, false
	}
	if arg.Kind != term.KindInteger {
		return ResultError, ex.errs.Type("integer", arg, ex.haltAtom, 1), 0, false
	}
	n := int(arg.IntegerValue())
	if n < 0 {
		n = 127
	}
	return ResultHalt, nil, n, false
}

// stepSetFuzzy implements set_fuzzy/1 (§4.7): unconditionally installs a
// new confidence value, clamped into (0, 1].
func (ex *Executor) stepSetFuzzy(argTerm *term.Term) (Result, *term.Term) {
	arg := ex.u.Dereference(argTerm, unify.Default)
	if arg.Kind == term.KindVariable {
		return ResultError, ex.errs.Instantiation(ex.setFuzzyAtom, 1)
	}
	x, ok := numericValue(arg)
	if !ok {
		return ResultError, ex.errs.Type("number", arg, ex.setFuzzyAtom, 1)
	}
	ex.SetConfidence(x)
	return ResultTrue, nil
}

// dispatchPredicate is step's step 5-6 (§4.4): try a registered native
// builtin first, then the user predicate database, applying the
// configured existence-error policy if neither names goal.
func (ex *Executor) dispatchPredicate(name *term.Term, arity int, goal *term.Term, f *frame) (Result, *term.Term, int, bool) {
	if disp, ok := ex.db.Builtin(name, arity); ok {
		bf, ok := disp.(BuiltinFunc)
		if !ok {
			return ResultError, ex.errs.System(name, arity), 0, false
		}
		res, err := bf(ex, goalArgs(goal))
		return res, err, 0, false
	}

	pred := ex.db.LookupPredicate(name, arity)
	if pred == nil {
		if ex.existencePolicy == ExistenceRaises {
			ind := ex.u.Arena.CreateFunctorWithArgs(ex.u.Arena.Slash, name, ex.u.Arena.CreateInteger(int64(arity)))
			return ResultError, ex.errs.Existence("procedure", ind, name, arity), 0, false
		}
		return ResultFail, nil, 0, false
	}

	var goalArg *term.Term
	if arity > 0 {
		goalArg = goal.Arg(0)
	}
	candidates := pred.Candidates(goalArg)
	if ex.tryClauseCandidates(candidates, 0, goal, f.next) {
		return ResultTrue, nil, 0, true
	}
	return ResultFail, nil, 0, false
}
