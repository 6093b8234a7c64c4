package pdb

import (
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/unify"
)

// AssertA prepends head/body as a clause of name/arity (§4.5
// "asserta/1"), creating the predicate record on first reference.
func (db *Database) AssertA(name *term.Term, arity int, head, body *term.Term) *Clause {
	return db.EnsurePredicate(name, arity).AssertA(head, body)
}

// AssertZ appends head/body as a clause of name/arity (§4.5
// "assertz/1"), creating the predicate record on first reference.
func (db *Database) AssertZ(name *term.Term, arity int, head, body *term.Term) *Clause {
	return db.EnsurePredicate(name, arity).AssertZ(head, body)
}

// Retract removes the first clause of name/arity whose head and body
// unify with goalHead/goalBody (§4.5 "retract/1"), leaving the successful
// unification's bindings in place. Reports whether any predicate existed
// and a clause was removed.
func (db *Database) Retract(u *unify.Unifier, name *term.Term, arity int, goalHead, goalBody *term.Term) bool {
	p := db.LookupPredicate(name, arity)
	if p == nil {
		return false
	}
	return p.Retract(u, goalHead, goalBody)
}
