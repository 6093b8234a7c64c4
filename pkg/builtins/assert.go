package builtins

import (
	"github.com/relogic/plang/pkg/exec"
	"github.com/relogic/plang/pkg/pdb"
	"github.com/relogic/plang/pkg/perr"
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/unify"
)

// splitClause decomposes a `Head :- Body` or bare-head term into its head
// and body, defaulting Body to true (§3.1 "Clauses").
func splitClause(u *unify.Unifier, clause *term.Term) (head, body *term.Term) {
	clause = u.Dereference(clause, unify.Default)
	if clause.Kind == term.KindFunctor && clause.FunctorName() == u.Arena.Neck && clause.Arity() == 2 {
		return clause.Arg(0), clause.Arg(1)
	}
	return clause, u.Arena.True
}

func headNameArity(head *term.Term) (*term.Term, int, bool) {
	switch head.Kind {
	case term.KindAtom:
		return head, 0, true
	case term.KindFunctor:
		return head.FunctorName(), head.Arity(), true
	default:
		return nil, 0, false
	}
}

// assertBuiltin implements asserta/1 and assertz/1 (selected by which of
// db.AssertA/db.AssertZ is passed as insert), cloning the clause to fresh
// variables before storing it so later bindings of the caller's term
// cannot reach into the database (§4.5).
func assertBuiltin(u *unify.Unifier, errs *perr.Builder, insert func(name *term.Term, arity int, head, body *term.Term) *pdb.Clause) exec.BuiltinFunc {
	nameAtom := u.Arena.CreateAtom("assert")
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		head, body := splitClause(u, args[0])
		name, arity, ok := headNameArity(u.Dereference(head, unify.Default))
		if !ok {
			return exec.ResultError, errs.Type("callable", head, nameAtom, 1)
		}
		pair := u.Arena.CreateFunctorWithArgs(u.Arena.Neck, head, body)
		cloned := u.Clone(pair)
		insert(name, arity, cloned.Arg(0), cloned.Arg(1))
		return exec.ResultTrue, nil
	}
}

// retractBuiltin implements retract/1: decomposes the argument the same
// way assert does, then delegates to the predicate's own Retract, which
// unifies in place against the stored (cloned) clauses.
func retractBuiltin(u *unify.Unifier, errs *perr.Builder, db *pdb.Database) exec.BuiltinFunc {
	nameAtom := u.Arena.CreateAtom("retract")
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		head, body := splitClause(u, args[0])
		name, arity, ok := headNameArity(u.Dereference(head, unify.Default))
		if !ok {
			return exec.ResultError, errs.Type("callable", head, nameAtom, 1)
		}
		if !db.Assertable(name, arity) {
			ind := u.Arena.CreateFunctorWithArgs(u.Arena.Slash, name, u.Arena.CreateInteger(int64(arity)))
			return exec.ResultError, errs.Permission("modify", "static_procedure", ind, nameAtom, 1)
		}
		if db.Retract(u, name, arity, head, body) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

// abolishBuiltin implements abolish/2 as Name/Arity, matching
// p_db_set_predicate_flag's companions in original_source.
func abolishBuiltin(u *unify.Unifier, errs *perr.Builder, db *pdb.Database) exec.BuiltinFunc {
	nameAtom := u.Arena.CreateAtom("abolish")
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		name := u.Dereference(args[0], unify.Default)
		arityTerm := u.Dereference(args[1], unify.Default)
		if name.Kind == term.KindVariable || arityTerm.Kind == term.KindVariable {
			return exec.ResultError, errs.Instantiation(nameAtom, 2)
		}
		if name.Kind != term.KindAtom {
			return exec.ResultError, errs.Type("atom", name, nameAtom, 2)
		}
		if arityTerm.Kind != term.KindInteger {
			return exec.ResultError, errs.Type("integer", arityTerm, nameAtom, 2)
		}
		if !db.Assertable(name, int(arityTerm.IntegerValue())) {
			ind := u.Arena.CreateFunctorWithArgs(u.Arena.Slash, name, arityTerm)
			return exec.ResultError, errs.Permission("modify", "static_procedure", ind, nameAtom, 2)
		}
		db.Abolish(name, int(arityTerm.IntegerValue()))
		return exec.ResultTrue, nil
	}
}
