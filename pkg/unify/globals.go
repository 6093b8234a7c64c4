package unify

import "github.com/relogic/plang/pkg/term"

// Globals is the per-context global-object table member-variable
// resolution consults when an owner dereferences to an atom (§4.2). It
// mirrors the source's p_db_global_object/p_db_set_global_object pair
// (recovered from original_source/include/plang/database.h, see
// SPEC_FULL.md §5), kept here rather than in pkg/engine so pkg/unify does
// not depend on the facade package that depends on it.
type Globals struct {
	objects map[*term.Term]*term.Term // atom -> object
}

// NewGlobals creates an empty global-object table.
func NewGlobals() *Globals {
	return &Globals{objects: make(map[*term.Term]*term.Term)}
}

// Get returns the object registered under atom name, or nil.
func (g *Globals) Get(name *term.Term) *term.Term {
	return g.objects[name]
}

// Set registers value as the global object named by atom name.
func (g *Globals) Set(name, value *term.Term) {
	g.objects[name] = value
}
