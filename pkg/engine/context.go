// Package engine is the embedder-facing facade (§6.1): it wires together
// one term arena, trail, unifier, predicate database and executor behind
// a single Context, and exposes the operations an embedding host (a
// consult/import loader, a shell front-end, a stdio bridge, all out of
// scope here) drives a logic-programming session through.
package engine

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/relogic/plang/pkg/exec"
	"github.com/relogic/plang/pkg/pdb"
	"github.com/relogic/plang/pkg/perr"
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/trail"
	"github.com/relogic/plang/pkg/unify"
)

// Context is one logic-programming session: an arena of terms, a
// predicate database, and the executor driving goals against them. Not
// safe for concurrent use; a Context is never shared between goroutines
// (§5).
type Context struct {
	id uuid.UUID

	Arena *term.Arena
	Trail *trail.Trail
	U     *unify.Unifier
	DB    *pdb.Database
	Errs  *perr.Builder

	ex  *exec.Executor
	log hclog.Logger
}

// New builds a fresh Context, applying opts over DefaultConfig.
func New(opts ...Option) *Context {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	arena := term.NewArena()
	tr := trail.New()
	globals := unify.NewGlobals()
	u := unify.New(arena, tr, globals)
	errs := perr.New(arena, u)
	db := pdb.NewDatabase()

	id := uuid.New()
	log := cfg.Logger.Named("plang").With("context_id", id.String())
	ex := exec.New(u, db, errs, log, cfg.ExistencePolicy)

	return &Context{
		id:    id,
		Arena: arena,
		Trail: tr,
		U:     u,
		DB:    db,
		Errs:  errs,
		ex:    ex,
		log:   log,
	}
}

// ID returns the context's stable identifier, for log correlation.
func (c *Context) ID() uuid.UUID { return c.id }

// ExecuteGoal installs goal as a fresh top-level execution and runs it to
// its first solution (§6.1 "execute_goal").
func (c *Context) ExecuteGoal(goal *term.Term) (exec.Result, *term.Term, int) {
	c.log.Debug("execute_goal", "goal", goal.String())
	return c.ex.ExecuteGoal(goal)
}

// ReexecuteGoal forces backtracking into the most recent ExecuteGoal for
// the next solution (§6.1 "reexecute_goal").
func (c *Context) ReexecuteGoal() (exec.Result, *term.Term, int) {
	return c.ex.ReexecuteGoal()
}

// AbandonGoal discards every outstanding choice point and catch frame and
// rolls the trail back to the last top-level ExecuteGoal call (§6.1
// "abandon_goal").
func (c *Context) AbandonGoal() {
	c.ex.AbandonGoal()
}

// CallOnce runs goal as an isolated re-entrant sub-solve to its first
// solution, leaving the caller's own outstanding choice points untouched
// (§4.6, §6.1 "call_once").
func (c *Context) CallOnce(goal *term.Term) (exec.Result, *term.Term) {
	return c.ex.CallOnce(goal)
}

// Confidence returns the current fuzzy-confidence scalar (§4.7).
func (c *Context) Confidence() float64 { return c.ex.Confidence() }

// SetConfidence installs a new confidence value, clamped into (0, 1].
func (c *Context) SetConfidence(v float64) { c.ex.SetConfidence(v) }

// MarkTrail returns a marker to the current trail position, for an
// embedder that wants to take its own checkpoints outside of
// ExecuteGoal/AbandonGoal (e.g. around a directive it may need to undo).
func (c *Context) MarkTrail() trail.Marker { return c.Trail.Mark() }

// BacktrackTrail rolls the trail back to a marker previously returned by
// MarkTrail.
func (c *Context) BacktrackTrail(m trail.Marker) { c.Trail.Backtrack(m) }

// GlobalObject returns the object registered under atom name in the
// global-object table, or nil (§5 "Global object table").
func (c *Context) GlobalObject(name *term.Term) *term.Term {
	return c.U.Globals.Get(name)
}

// SetGlobalObject registers value as the global object named by atom
// name.
func (c *Context) SetGlobalObject(name, value *term.Term) {
	c.U.Globals.Set(name, value)
}
