// Package exec implements the execution-tree driven goal executor (§3.4,
// §4.4): a current goal plus linked continuation, choice-point and
// catch-frame stacks, first-argument-indexed clause iteration, cut,
// catch/throw, the re-entrant sub-call used by negation and the
// embedder's call_once, and fuzzy confidence (§4.7).
package exec

import (
	"github.com/hashicorp/go-hclog"
	"github.com/relogic/plang/pkg/pdb"
	"github.com/relogic/plang/pkg/perr"
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/trail"
	"github.com/relogic/plang/pkg/unify"
)

// Result is one of the five outcomes a step or a full solve can produce
// (§4.4 "Result codes"; tree-change is internal to the outer loop and
// never escapes it).
type Result uint8

const (
	ResultTrue Result = iota
	ResultFail
	ResultError
	ResultHalt
)

func (r Result) String() string {
	switch r {
	case ResultTrue:
		return "true"
	case ResultFail:
		return "fail"
	case ResultError:
		return "error"
	case ResultHalt:
		return "halt"
	default:
		return "invalid"
	}
}

// ExistenceErrorPolicy controls step 5 of the outer loop: what happens
// when a goal names no builtin and no user predicate.
type ExistenceErrorPolicy uint8

const (
	// ExistenceFails makes a call to an undefined predicate simply fail.
	ExistenceFails ExistenceErrorPolicy = iota
	// ExistenceRaises makes it raise existence_error(procedure, Name/Arity).
	ExistenceRaises
)

// frameKind discriminates an ordinary goal continuation frame from the
// internal bookkeeping frame used to pop a catch frame once control
// passes beyond the goal it was guarding.
type frameKind uint8

const (
	frameGoal frameKind = iota
	framePopCatch
	// frameCutChoices truncates ex.choices to popTo when reached by forward
	// progress: the commit step of if-then(-else) (§4.4), discarding any
	// choice points the condition left behind once it has succeeded once.
	frameCutChoices
)

// frame is one link of the continuation ("and-stack"): the goal to run
// next, the choice-point-stack depth a cut inside this goal prunes back
// to, and the rest of the conjunction to run after it succeeds.
type frame struct {
	kind frameKind
	goal *term.Term

	// cutBarrier is only meaningful for frameGoal: the ex.choices depth a
	// cut executed while running goal truncates back to.
	cutBarrier int

	// popTo is only meaningful for framePopCatch (the ex.catches depth to
	// truncate back to) and frameCutChoices (the ex.choices depth to
	// truncate back to).
	popTo int

	next *frame
}

// choicePoint is an alternative left to try on backtracking: a trail
// marker and confidence to restore, the catch-stack depth active when it
// was created, and a retry closure that installs the next alternative
// (or reports none remain).
type choicePoint struct {
	mark       trail.Marker
	confidence float64
	catchDepth int
	retry      func(ex *Executor) bool
}

// catchFrame is one active catch(G, P, R) scope (§4.4): the trail marker
// and choice-point depth at installation (so a matching error rolls back
// exactly the work G had done), the pattern and recovery goal, and the
// continuation to resume into once the catch construct as a whole is
// satisfied.
type catchFrame struct {
	mark       trail.Marker
	choiceDepth int
	pattern    *term.Term
	recovery   *term.Term
	cont       *frame
}

// BuiltinFunc is the concrete signature native builtin dispatchers
// registered in pkg/pdb are expected to satisfy; pdb stores them as `any`
// so it need not depend on this package, and Executor.step type-asserts
// to this type when it finds one (§6.3 "builtin dispatcher contract").
// A builtin returns ResultTrue/ResultFail/ResultError only: it is
// deterministic and must not itself touch choice points or catch frames.
type BuiltinFunc func(ex *Executor, args []*term.Term) (Result, *term.Term)

// Executor runs one logic-programming context's goals to completion
// (§3.4). It is not safe for concurrent use; contexts are not shared
// between threads (§5).
type Executor struct {
	u    *unify.Unifier
	db   *pdb.Database
	errs *perr.Builder
	log  hclog.Logger

	existencePolicy ExistenceErrorPolicy

	current    *frame
	choices    []*choicePoint
	catches    []*catchFrame
	confidence float64

	// topMark is the trail position at the most recent ExecuteGoal call,
	// used by AbandonGoal (§6.1).
	topMark trail.Marker

	// Control-construct atoms, interned once so step() compares goals
	// against them by reference rather than re-interning every call.
	semicolonAtom *term.Term
	catchAtom     *term.Term
	throwAtom     *term.Term
	callAtom      *term.Term
	onceAtom      *term.Term
	negAtom       *term.Term
	fuzzyAtom     *term.Term
	setFuzzyAtom  *term.Term
	haltAtom      *term.Term
}

// New builds an Executor sharing u's arena/trail/globals, dispatching
// builtins and clauses through db, and constructing error terms through
// errs. A nil logger defaults to hclog's null logger.
func New(u *unify.Unifier, db *pdb.Database, errs *perr.Builder, log hclog.Logger, existencePolicy ExistenceErrorPolicy) *Executor {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Executor{
		u:               u,
		db:              db,
		errs:            errs,
		log:             log,
		existencePolicy: existencePolicy,
		confidence:      1.0,

		semicolonAtom: u.Arena.CreateAtom(";"),
		catchAtom:     u.Arena.CreateAtom("catch"),
		throwAtom:     u.Arena.CreateAtom("throw"),
		callAtom:      u.Arena.CreateAtom("call"),
		onceAtom:      u.Arena.CreateAtom("once"),
		negAtom:       u.Arena.CreateAtom("\\+"),
		fuzzyAtom:     u.Arena.CreateAtom("fuzzy"),
		setFuzzyAtom:  u.Arena.CreateAtom("set_fuzzy"),
		haltAtom:      u.Arena.CreateAtom("halt"),
	}
}

// Confidence returns the current fuzzy-confidence scalar (§4.7).
func (ex *Executor) Confidence() float64 { return ex.confidence }

// SetConfidence installs a new confidence value, clamped into (0, 1].
func (ex *Executor) SetConfidence(c float64) {
	if c > 1 {
		c = 1
	}
	if c <= 0 {
		c = smallestConfidence
	}
	ex.confidence = c
}

// smallestConfidence is the smallest representable value set_fuzzy/1
// clamps a non-positive argument to, keeping confidence in the
// half-open interval the spec requires it to stay within.
const smallestConfidence = 1e-300
