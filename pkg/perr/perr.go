// Package perr builds the ISO-style error terms described in §4.8:
// every error raised by a builtin or the executor takes the shape
// error(Inner, Name/Arity), where Inner names the specific fault and
// Name/Arity identifies the predicate that raised it. Culprit terms are
// cloned so they survive backtracking past the raise site (§7 "Clone on
// raise").
//
// All ten inner forms from original_source/include/plang/errors.h are
// implemented, not just the subset spec.md's prose names.
package perr

import (
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/unify"
)

// Builder constructs error terms in one arena, cloning culprits through
// one unifier.
type Builder struct {
	arena *term.Arena
	u     *unify.Unifier

	errorAtom             *term.Term
	instantiationErrAtom  *term.Term
	typeErrAtom           *term.Term
	domainErrAtom         *term.Term
	existenceErrAtom      *term.Term
	permissionErrAtom     *term.Term
	representationErrAtom *term.Term
	evaluationErrAtom     *term.Term
	resourceErrAtom       *term.Term
	syntaxErrAtom         *term.Term
	systemErrAtom         *term.Term
}

// New builds an error-term Builder over arena, cloning culprits with u.
func New(arena *term.Arena, u *unify.Unifier) *Builder {
	return &Builder{
		arena:                 arena,
		u:                     u,
		errorAtom:             arena.CreateAtom("error"),
		instantiationErrAtom:  arena.CreateAtom("instantiation_error"),
		typeErrAtom:           arena.CreateAtom("type_error"),
		domainErrAtom:         arena.CreateAtom("domain_error"),
		existenceErrAtom:      arena.CreateAtom("existence_error"),
		permissionErrAtom:     arena.CreateAtom("permission_error"),
		representationErrAtom: arena.CreateAtom("representation_error"),
		evaluationErrAtom:     arena.CreateAtom("evaluation_error"),
		resourceErrAtom:       arena.CreateAtom("resource_error"),
		syntaxErrAtom:         arena.CreateAtom("syntax_error"),
		systemErrAtom:         arena.CreateAtom("system_error"),
	}
}

// wrap builds error(inner, Name/Arity), the common envelope of every
// constructor below.
func (b *Builder) wrap(inner *term.Term, name *term.Term, arity int) *term.Term {
	ctx := b.arena.CreateFunctorWithArgs(b.arena.Slash, name, b.arena.CreateInteger(int64(arity)))
	return b.arena.CreateFunctorWithArgs(b.errorAtom, inner, ctx)
}

// Instantiation builds error(instantiation_error, Name/Arity): some
// required argument was an unbound variable.
func (b *Builder) Instantiation(name *term.Term, arity int) *term.Term {
	return b.wrap(b.instantiationErrAtom, name, arity)
}

// Type builds error(type_error(ExpectedType, Culprit), Name/Arity).
func (b *Builder) Type(expectedType string, culprit *term.Term, name *term.Term, arity int) *term.Term {
	inner := b.arena.CreateFunctorWithArgs(b.typeErrAtom, b.arena.CreateAtom(expectedType), b.u.Clone(culprit))
	return b.wrap(inner, name, arity)
}

// Domain builds error(domain_error(Domain, Culprit), Name/Arity).
func (b *Builder) Domain(domain string, culprit *term.Term, name *term.Term, arity int) *term.Term {
	inner := b.arena.CreateFunctorWithArgs(b.domainErrAtom, b.arena.CreateAtom(domain), b.u.Clone(culprit))
	return b.wrap(inner, name, arity)
}

// Existence builds error(existence_error(Kind, Culprit), Name/Arity).
func (b *Builder) Existence(kind string, culprit *term.Term, name *term.Term, arity int) *term.Term {
	inner := b.arena.CreateFunctorWithArgs(b.existenceErrAtom, b.arena.CreateAtom(kind), b.u.Clone(culprit))
	return b.wrap(inner, name, arity)
}

// Permission builds error(permission_error(Op, PermissionKind, Culprit),
// Name/Arity).
func (b *Builder) Permission(op, permissionKind string, culprit *term.Term, name *term.Term, arity int) *term.Term {
	inner := b.arena.CreateFunctorWithArgs(b.permissionErrAtom,
		b.arena.CreateAtom(op), b.arena.CreateAtom(permissionKind), b.u.Clone(culprit))
	return b.wrap(inner, name, arity)
}

// Representation builds error(representation_error(Flag), Name/Arity).
func (b *Builder) Representation(flag string, name *term.Term, arity int) *term.Term {
	inner := b.arena.CreateFunctorWithArgs(b.representationErrAtom, b.arena.CreateAtom(flag))
	return b.wrap(inner, name, arity)
}

// Evaluation builds error(evaluation_error(Kind), Name/Arity), e.g. Kind
// = zero_divisor or int_overflow.
func (b *Builder) Evaluation(kind string, name *term.Term, arity int) *term.Term {
	inner := b.arena.CreateFunctorWithArgs(b.evaluationErrAtom, b.arena.CreateAtom(kind))
	return b.wrap(inner, name, arity)
}

// Resource builds error(resource_error(Resource), Name/Arity).
func (b *Builder) Resource(resource *term.Term, name *term.Term, arity int) *term.Term {
	inner := b.arena.CreateFunctorWithArgs(b.resourceErrAtom, b.u.Clone(resource))
	return b.wrap(inner, name, arity)
}

// Syntax builds error(syntax_error(Detail), Name/Arity).
func (b *Builder) Syntax(detail *term.Term, name *term.Term, arity int) *term.Term {
	inner := b.arena.CreateFunctorWithArgs(b.syntaxErrAtom, b.u.Clone(detail))
	return b.wrap(inner, name, arity)
}

// System builds error(system_error, Name/Arity): an unrecoverable
// implementation-internal fault.
func (b *Builder) System(name *term.Term, arity int) *term.Term {
	return b.wrap(b.systemErrAtom, name, arity)
}

// Generic wraps an arbitrary already-constructed inner term as
// error(inner, Name/Arity), matching p_create_generic_error.
func (b *Builder) Generic(inner *term.Term, name *term.Term, arity int) *term.Term {
	return b.wrap(b.u.Clone(inner), name, arity)
}

// IsError reports whether t is shaped like error(_, _).
func (b *Builder) IsError(t *term.Term) bool {
	return t.Kind == term.KindFunctor && t.Arity() == 2 && t.FunctorName() == b.errorAtom
}

// Inner returns the first argument of an error(Inner, Context) term.
func Inner(errorTerm *term.Term) *term.Term { return errorTerm.Arg(0) }

// Context returns the Name/Arity second argument of an error(Inner,
// Context) term.
func Context(errorTerm *term.Term) *term.Term { return errorTerm.Arg(1) }
