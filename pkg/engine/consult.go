package engine

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/unify"
)

// ErrMalformedClause is wrapped (via github.com/pkg/errors) into every
// per-clause failure ConsultClauses reports, carrying a stack frame back
// to the offending call.
var ErrMalformedClause = errors.New("malformed clause")

// ConsultClauses asserts a batch of already-parsed clauses into the
// database; it is the loader side of the boundary described in §6.2 (the
// core assumes a parser that delivers already-parsed clauses and goals as
// term trees). Each clause is either a bare callable head (body
// defaults to true) or a Head :- Body functor. Malformed clauses are
// aggregated with github.com/hashicorp/go-multierror rather than
// aborting at the first one, so the caller sees every defect in a batch
// in one report.
func (c *Context) ConsultClauses(clauses []*term.Term) error {
	var result *multierror.Error
	for i, clause := range clauses {
		if err := c.consultOne(clause); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "clause %d", i))
		}
	}
	return result.ErrorOrNil()
}

func (c *Context) consultOne(clause *term.Term) error {
	clause = c.U.Dereference(clause, unify.Default)

	var head, body *term.Term
	if clause.Kind == term.KindFunctor && clause.FunctorName() == c.Arena.Neck && clause.Arity() == 2 {
		head, body = clause.Arg(0), clause.Arg(1)
	} else {
		head, body = clause, c.Arena.True
	}
	head = c.U.Dereference(head, unify.Default)

	var name *term.Term
	var arity int
	switch head.Kind {
	case term.KindAtom:
		name, arity = head, 0
	case term.KindFunctor:
		name, arity = head.FunctorName(), head.Arity()
	default:
		return errors.Wrapf(ErrMalformedClause, "head is a %s, not callable", head.Kind)
	}

	if !c.DB.Assertable(name, arity) {
		return errors.Wrapf(ErrMalformedClause, "%s is compiled or builtin, not assertable", head.String())
	}

	c.DB.AssertZ(name, arity, head, body)
	return nil
}
