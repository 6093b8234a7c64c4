// Package pdb implements the predicate database (§3.3): per-atom arity
// info records, the clause-list predicate container, first-argument
// indexing backed by github.com/google/btree, and assert/retract/abolish.
package pdb

import "github.com/relogic/plang/pkg/term"

// PredicateFlag is the P_PREDICATE_* bitset recovered from
// original_source/include/plang/database.h, rather than the three
// independent booleans spec.md's prose suggests.
type PredicateFlag uint8

const (
	// FlagCompiled marks a predicate compiled ahead of time; not
	// assertable/retractable.
	FlagCompiled PredicateFlag = 1 << iota
	// FlagDynamic marks a predicate declared dynamic (assert/retract
	// permitted even with zero clauses).
	FlagDynamic
	// FlagBuiltin marks a predicate backed by a native dispatcher; not
	// assertable/retractable.
	FlagBuiltin
)

// OperatorSpecifier mirrors p_op_specifier: the surface-syntax fixity the
// external parser needs, stored here only as state the embedder API can
// get/set (§6.2: "the core does not itself define the surface syntax").
type OperatorSpecifier uint8

const (
	OpNone OperatorSpecifier = iota
	OpXF
	OpYF
	OpXFX
	OpXFY
	OpYFX
	OpFX
	OpFY
)

// ClassInfo records that an atom names a class, recovered from
// original_source's class-info slot. The engine layer fills in the
// class object itself; pdb only reserves the slot.
type ClassInfo struct {
	ClassObject *term.Term
}

// ArityInfo is one (name, arity) record (§3.3): operator info used only
// by an external parser, optional native builtin/arithmetic dispatcher
// slots (stored opaquely as `any` so pdb need not depend on the executor
// package that defines their concrete function types), predicate flags,
// an optional class-info slot, and an optional predicate (clause
// container).
type ArityInfo struct {
	OperatorSpecifier OperatorSpecifier
	OperatorPriority  int

	BuiltinDispatcher    any
	ArithmeticDispatcher any

	Flags PredicateFlag

	ClassInfo *ClassInfo
	Predicate *Predicate
}

func (a PredicateFlag) has(f PredicateFlag) bool { return a&f != 0 }

// Database owns every arity-info record, keyed by the interned name atom
// and arity. A single context's database is never shared across threads
// (§5), so no internal locking is needed.
type Database struct {
	arities map[*term.Term]map[int]*ArityInfo
}

// NewDatabase returns an empty predicate database.
func NewDatabase() *Database {
	return &Database{arities: make(map[*term.Term]map[int]*ArityInfo)}
}

// LookupArityInfo returns the arity-info record for name/arity, or nil if
// none has ever been referenced.
func (db *Database) LookupArityInfo(name *term.Term, arity int) *ArityInfo {
	byArity, ok := db.arities[name]
	if !ok {
		return nil
	}
	return byArity[arity]
}

// EnsureArityInfo returns the arity-info record for name/arity, creating
// an empty one on first reference.
func (db *Database) EnsureArityInfo(name *term.Term, arity int) *ArityInfo {
	byArity, ok := db.arities[name]
	if !ok {
		byArity = make(map[int]*ArityInfo)
		db.arities[name] = byArity
	}
	info, ok := byArity[arity]
	if !ok {
		info = &ArityInfo{}
		byArity[arity] = info
	}
	return info
}

// EnsurePredicate returns the predicate record for name/arity, allocating
// an empty, dynamic one on first reference.
func (db *Database) EnsurePredicate(name *term.Term, arity int) *Predicate {
	info := db.EnsureArityInfo(name, arity)
	if info.Predicate == nil {
		info.Predicate = NewPredicate(name, arity)
		info.Flags |= FlagDynamic
	}
	return info.Predicate
}

// LookupPredicate returns the predicate record for name/arity, or nil if
// none exists.
func (db *Database) LookupPredicate(name *term.Term, arity int) *Predicate {
	info := db.LookupArityInfo(name, arity)
	if info == nil {
		return nil
	}
	return info.Predicate
}

// Assertable reports whether name/arity may be asserted to or retracted
// from: false for compiled and builtin predicates (§3.3).
func (db *Database) Assertable(name *term.Term, arity int) bool {
	info := db.LookupArityInfo(name, arity)
	if info == nil {
		return true
	}
	return !info.Flags.has(FlagCompiled) && !info.Flags.has(FlagBuiltin)
}

// Abolish discards every clause of name/arity, leaving the arity-info
// record (flags, operator info, dispatchers) intact.
func (db *Database) Abolish(name *term.Term, arity int) {
	if p := db.LookupPredicate(name, arity); p != nil {
		p.Abolish()
	}
}

// SetPredicateFlag sets flag on name/arity's arity-info record.
func (db *Database) SetPredicateFlag(name *term.Term, arity int, flag PredicateFlag) {
	db.EnsureArityInfo(name, arity).Flags |= flag
}

// HasPredicateFlag reports whether flag is set on name/arity.
func (db *Database) HasPredicateFlag(name *term.Term, arity int, flag PredicateFlag) bool {
	info := db.LookupArityInfo(name, arity)
	return info != nil && info.Flags.has(flag)
}

// SetOperatorInfo records operator fixity/priority for name/arity,
// matching p_db_set_operator_info.
func (db *Database) SetOperatorInfo(name *term.Term, arity int, spec OperatorSpecifier, priority int) {
	info := db.EnsureArityInfo(name, arity)
	info.OperatorSpecifier = spec
	info.OperatorPriority = priority
}

// OperatorInfo returns the recorded operator fixity/priority for
// name/arity, matching p_db_operator_info. ok is false if none was ever
// set.
func (db *Database) OperatorInfo(name *term.Term, arity int) (spec OperatorSpecifier, priority int, ok bool) {
	info := db.LookupArityInfo(name, arity)
	if info == nil || info.OperatorSpecifier == OpNone {
		return OpNone, 0, false
	}
	return info.OperatorSpecifier, info.OperatorPriority, true
}

// RegisterBuiltin installs a native builtin dispatcher for name/arity and
// marks it non-assertable.
func (db *Database) RegisterBuiltin(name *term.Term, arity int, dispatcher any) {
	info := db.EnsureArityInfo(name, arity)
	info.BuiltinDispatcher = dispatcher
	info.Flags |= FlagBuiltin
}

// Builtin returns the registered dispatcher for name/arity, if any.
func (db *Database) Builtin(name *term.Term, arity int) (any, bool) {
	info := db.LookupArityInfo(name, arity)
	if info == nil || info.BuiltinDispatcher == nil {
		return nil, false
	}
	return info.BuiltinDispatcher, true
}

// RegisterArithmeticFunction installs a native arithmetic-function
// dispatcher for name/arity. It is stored for retrieval through
// ArithmeticFunction; the is/2 evaluator in pkg/builtins does not consult
// it.
func (db *Database) RegisterArithmeticFunction(name *term.Term, arity int, dispatcher any) {
	db.EnsureArityInfo(name, arity).ArithmeticDispatcher = dispatcher
}

// ArithmeticFunction returns the registered arithmetic dispatcher for
// name/arity, if any.
func (db *Database) ArithmeticFunction(name *term.Term, arity int) (any, bool) {
	info := db.LookupArityInfo(name, arity)
	if info == nil || info.ArithmeticDispatcher == nil {
		return nil, false
	}
	return info.ArithmeticDispatcher, true
}

// SetClassInfo marks name/arity as naming a class, recording its class
// object.
func (db *Database) SetClassInfo(name *term.Term, arity int, classObject *term.Term) {
	db.EnsureArityInfo(name, arity).ClassInfo = &ClassInfo{ClassObject: classObject}
}

// GetClassInfo returns the class-info record for name/arity, or nil.
func (db *Database) GetClassInfo(name *term.Term, arity int) *ClassInfo {
	info := db.LookupArityInfo(name, arity)
	if info == nil {
		return nil
	}
	return info.ClassInfo
}
