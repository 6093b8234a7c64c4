// Package unify implements destructive variable binding, occurs-check,
// structural unification with mode flags, member-variable resolution,
// fresh-variable cloning, and the total term ordering used by the
// compare/ordering builtins (§4.2-§4.3 of the core specification).
package unify

import (
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/trail"
)

// Flags control the mode of a single Unify or Dereference call. Each bit
// is independent (§4.2).
type Flags uint8

const (
	// NoOccursCheck skips the occurs check; the caller asserts the value
	// cannot contain the variable (e.g. it was just cloned fresh).
	NoOccursCheck Flags = 1 << iota

	// NoRecord suppresses trail recording for every binding made by this
	// call, regardless of which side the variable is on.
	NoRecord

	// RecordOneWay records only bindings of variables in the second term;
	// bindings of variables in the first term are left unrecorded. Used
	// when cloning a fresh clause against a goal, where the clause side's
	// bindings are scratch and the goal side's must survive.
	RecordOneWay

	// EqualityOnly makes Unify a pure structural-equality test: nothing is
	// bound, and an unbound variable matches only itself.
	EqualityOnly

	// OneWay fails rather than binding a variable that occurs in the
	// second term.
	OneWay
)

// Default requests occurs-check enabled and all bindings recorded on the
// trail; it is the zero value of Flags.
const Default Flags = 0

// Unifier bundles the arena, trail and global-object table one context
// needs to unify, dereference, and clone terms.
type Unifier struct {
	Arena   *term.Arena
	Trail   *trail.Trail
	Globals *Globals
}

// New builds a Unifier over the given arena, trail and global-object
// table.
func New(arena *term.Arena, tr *trail.Trail, globals *Globals) *Unifier {
	return &Unifier{Arena: arena, Trail: tr, Globals: globals}
}

// Dereference follows a variable's value chain and resolves member
// variables against the global-object table and prototype chain (§3.1,
// §4.2). Unlike term.Deref, this may create a property (auto-create) as a
// side effect, and therefore must only be called while holding the
// context that owns arena/trail/globals.
func (u *Unifier) Dereference(t *term.Term, flags Flags) *term.Term {
	for {
		switch t.Kind {
		case term.KindVariable:
			if t.Value() == nil {
				return t
			}
			t = t.Value()
		case term.KindMemberVariable:
			resolved, ok := u.resolveMember(t, flags)
			if !ok {
				return t
			}
			t = resolved
		default:
			return t
		}
	}
}

// resolveMember implements §4.2's member-variable resolution: the owner
// is dereferenced (recursively, if it is itself a member variable); if it
// is an atom it is looked up in the global-object table; the named
// property is fetched via the prototype chain; if absent and auto-create
// is set (and the mode is not equality-only) a fresh variable is
// installed as a new own property. Property addition itself is never
// trail-recorded, since it is permanent schema growth, but the fresh
// variable it introduces is an ordinary variable cell, so any subsequent
// binding of it goes through Bind/Unify and is trail-recorded as usual.
func (u *Unifier) resolveMember(mv *term.Term, flags Flags) (*term.Term, bool) {
	owner := u.Dereference(mv.MemberOwner(), flags)

	var obj *term.Term
	switch owner.Kind {
	case term.KindObject:
		obj = owner
	case term.KindAtom:
		obj = u.Globals.Get(owner)
		if obj == nil {
			return nil, false
		}
	default:
		return nil, false
	}

	name := mv.MemberName()
	if v := term.LookupProperty(u.Arena, obj, name); v != nil {
		return v, true
	}
	if mv.AutoCreate() && flags&EqualityOnly == 0 {
		fresh := u.Arena.CreateVariable()
		u.Arena.AddProperty(obj, name, fresh)
		return fresh, true
	}
	return nil, false
}

// Bind destructively installs value into v's cell (§4.2). Callers must
// already have established v is an unbound variable distinct from value.
// isFirstTerm says whether v came from the first or second argument of
// the enclosing Unify call, which only matters for the OneWay and
// RecordOneWay flags.
func (u *Unifier) Bind(v, value *term.Term, isFirstTerm bool, flags Flags) bool {
	if !isFirstTerm && flags&OneWay != 0 {
		return false
	}
	if flags&NoOccursCheck == 0 && occurs(v, value) {
		return false
	}
	v.SetValue(value)
	record := flags&NoRecord == 0
	if record && flags&RecordOneWay != 0 {
		record = !isFirstTerm
	}
	if record {
		u.Trail.RecordUnbind(v)
	}
	return true
}

// Unify recursively unifies a and b under the given mode flags (§4.2).
// Both sides are fully dereferenced (including member-variable
// resolution) before comparison. Functors match by same name atom and
// arity, then recurse argument-wise; lists recurse on head and iterate
// along the tail spine to bound stack depth; atoms match by reference;
// strings, integers and reals match by value; objects match only by
// reference identity. When a functor or list fails part-way, the bindings
// already recorded for its earlier arguments are rolled back, so a failed
// call leaves the trail where it found it.
func (u *Unifier) Unify(a, b *term.Term, flags Flags) bool {
	a = u.Dereference(a, flags)
	b = u.Dereference(b, flags)

	aVar := a.Kind == term.KindVariable && a.IsUnbound()
	bVar := b.Kind == term.KindVariable && b.IsUnbound()

	if aVar || bVar {
		if a == b {
			// Unifying a variable with itself: succeeds without recording
			// (§8 boundary behavior).
			return true
		}
		if flags&EqualityOnly != 0 {
			return false
		}
		if aVar {
			return u.Bind(a, b, true, flags)
		}
		return u.Bind(b, a, false, flags)
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case term.KindAtom:
		return a == b
	case term.KindString:
		return a.StringValue() == b.StringValue()
	case term.KindInteger:
		return a.IntegerValue() == b.IntegerValue()
	case term.KindReal:
		return a.RealValue() == b.RealValue()
	case term.KindFunctor:
		if a.FunctorName() != b.FunctorName() || a.Arity() != b.Arity() {
			return false
		}
		mark := u.Trail.Mark()
		for i := 0; i < a.Arity(); i++ {
			if !u.Unify(a.Arg(i), b.Arg(i), flags) {
				u.Trail.Backtrack(mark)
				return false
			}
		}
		return true
	case term.KindList:
		mark := u.Trail.Mark()
		for {
			if !u.Unify(a.Head(), b.Head(), flags) {
				u.Trail.Backtrack(mark)
				return false
			}
			at := u.Dereference(a.Tail(), flags)
			bt := u.Dereference(b.Tail(), flags)
			if at.Kind == term.KindList && bt.Kind == term.KindList {
				a, b = at, bt
				continue
			}
			if u.Unify(at, bt, flags) {
				return true
			}
			u.Trail.Backtrack(mark)
			return false
		}
	case term.KindObject:
		return a == b
	default:
		return false
	}
}

// occurs is the standard depth-first occurs-check scan (§4.2). List
// spines are walked iteratively to avoid stack depth proportional to
// list length. Object property values are scanned (including every own
// property), per §4.2. Note this differs from term.IsGround, which
// treats objects as ground regardless of their properties; occurs-check
// must still refuse to create a binding cycle reachable through an
// object graph.
func occurs(v, t *term.Term) bool {
	return occursVisit(v, t, nil)
}

func occursVisit(v, t *term.Term, seenObjects map[*term.Term]bool) bool {
	t = term.Deref(t)
	switch t.Kind {
	case term.KindVariable:
		return t == v
	case term.KindMemberVariable:
		return t == v || occursVisit(v, t.MemberOwner(), seenObjects)
	case term.KindFunctor:
		for i := 0; i < t.Arity(); i++ {
			if occursVisit(v, t.Arg(i), seenObjects) {
				return true
			}
		}
		return false
	case term.KindList:
		for t.Kind == term.KindList {
			if occursVisit(v, t.Head(), seenObjects) {
				return true
			}
			t = term.Deref(t.Tail())
		}
		return occursVisit(v, t, seenObjects)
	case term.KindObject:
		if seenObjects == nil {
			seenObjects = make(map[*term.Term]bool)
		}
		if seenObjects[t] {
			return false
		}
		seenObjects[t] = true
		for _, p := range t.Properties() {
			if occursVisit(v, p.Value, seenObjects) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
