package term

// Arena owns every term created for one logic-programming context: it
// interns atoms, hands out fresh variable ids, and caches the small set of
// control atoms the engine compares against by reference on every step
// (§3.2). An Arena is not safe for concurrent use; the core is
// single-threaded per context (spec §5).
//
// Reclamation is left to the host GC: an Arena never frees a Term
// directly, it only stops referencing one once nothing on the trail or
// execution tree reaches it. This matches the "tracing GC, arena with
// compaction, or refcount with cycle breaking" latitude in §4.1; a
// tracing host GC is the natural fit for a safe-language port and is what
// this package relies on.
type Arena struct {
	atoms   map[string]*Term
	nextVar uint64

	// Control atoms cached at construction for fast identity comparison
	// (§3.2): nil, dot, clause neck, conjunction, if-then, slash, true,
	// fail, cut, unify.
	Nil      *Term
	Dot      *Term
	Neck     *Term // ":-"
	Comma    *Term // ","
	Arrow    *Term // "->"
	Slash    *Term // "/"
	True     *Term
	Fail     *Term
	Cut      *Term // "!"
	UnifyOp  *Term // "="
	Question *Term // "?-"

	// Reserved property-name atoms (§3.1).
	Prototype *Term
	ClassProp *Term
}

// NewArena creates an empty arena with the control atoms pre-interned.
func NewArena() *Arena {
	a := &Arena{atoms: make(map[string]*Term, 64)}
	a.Nil = a.CreateAtom("[]")
	a.Dot = a.CreateAtom(".")
	a.Neck = a.CreateAtom(":-")
	a.Comma = a.CreateAtom(",")
	a.Arrow = a.CreateAtom("->")
	a.Slash = a.CreateAtom("/")
	a.True = a.CreateAtom("true")
	a.Fail = a.CreateAtom("fail")
	a.Cut = a.CreateAtom("!")
	a.UnifyOp = a.CreateAtom("=")
	a.Question = a.CreateAtom("?-")
	a.Prototype = a.CreateAtom("prototype")
	a.ClassProp = a.CreateAtom("className")
	return a
}

// CreateAtom interns an atom by its raw byte content. Two calls with
// identical bytes return the same *Term within this arena (§3.2, §8
// invariant 1).
func (a *Arena) CreateAtom(name string) *Term {
	if t, ok := a.atoms[name]; ok {
		return t
	}
	t := &Term{Kind: KindAtom, atomName: name}
	a.atoms[name] = t
	return t
}

// CreateString allocates a new, non-interned string term.
func (a *Arena) CreateString(s string) *Term {
	return &Term{Kind: KindString, str: s}
}

// CreateInteger allocates an integer term.
func (a *Arena) CreateInteger(v int64) *Term {
	return &Term{Kind: KindInteger, i: v}
}

// CreateReal allocates a real term.
func (a *Arena) CreateReal(v float64) *Term {
	return &Term{Kind: KindReal, r: v}
}

// CreateVariable allocates a fresh, unbound, unnamed variable.
func (a *Arena) CreateVariable() *Term {
	a.nextVar++
	return &Term{Kind: KindVariable, id: a.nextVar}
}

// CreateNamedVariable allocates a fresh, unbound variable carrying a
// display name (as the parser would attach from surface syntax).
func (a *Arena) CreateNamedVariable(name string) *Term {
	a.nextVar++
	return &Term{Kind: KindVariable, id: a.nextVar, varName: name}
}

// CreateFunctor allocates a functor term with arg_count empty argument
// cells. Callers fill them with BindArg before the term becomes reachable
// from anywhere else. name must be an atom from this arena. arity must be
// >= 1 (§3.1 invariant).
func (a *Arena) CreateFunctor(name *Term, arity int) *Term {
	if arity < 1 {
		panic("term: functor arity must be >= 1")
	}
	return &Term{Kind: KindFunctor, functorName: name, args: make([]*Term, arity)}
}

// CreateFunctorWithArgs allocates and fully binds a functor in one step.
func (a *Arena) CreateFunctorWithArgs(name *Term, args ...*Term) *Term {
	f := a.CreateFunctor(name, len(args))
	copy(f.args, args)
	return f
}

// CreateList allocates a single cons cell. Passing a.Nil as tail
// terminates the list.
func (a *Arena) CreateList(head, tail *Term) *Term {
	return &Term{Kind: KindList, head: head, tail: tail}
}

// CreateListFromSlice builds a proper list from a Go slice, terminated by
// a.Nil.
func (a *Arena) CreateListFromSlice(items []*Term) *Term {
	result := a.Nil
	for i := len(items) - 1; i >= 0; i-- {
		result = a.CreateList(items[i], result)
	}
	return result
}

// CreateMemberVariable allocates a term representing Object.name. owner is
// typically an object, an atom (resolved against the global-object table
// at unification time), or another member variable.
func (a *Arena) CreateMemberVariable(owner, name *Term, autoCreate bool) *Term {
	a.nextVar++
	return &Term{
		Kind:       KindMemberVariable,
		id:         a.nextVar,
		owner:      owner,
		memberName: name,
		autoCreate: autoCreate,
	}
}

// CreateObject allocates a plain instance object. If prototype is
// non-nil, it is installed as the first property under the reserved
// "prototype" name (§3.1).
func (a *Arena) CreateObject(prototype *Term) *Term {
	a.nextVar++
	obj := &Term{Kind: KindObject, id: a.nextVar}
	if prototype != nil {
		obj.props = append(obj.props, Property{Name: a.Prototype, Value: prototype})
	}
	return obj
}

// CreateClassObject allocates a class object: an instance object that
// additionally carries a className property, marking it as naming a
// class rather than an instance (§3.1).
func (a *Arena) CreateClassObject(className, prototype *Term) *Term {
	obj := a.CreateObject(prototype)
	obj.props = append(obj.props, Property{Name: a.ClassProp, Value: className})
	obj.className = className
	return obj
}

// AddProperty appends a new own property to an object in O(1) amortized
// time. It does not check for an existing property of the same name;
// callers that need replace-or-insert semantics should use
// SetOwnProperty-style logic at a higher layer. The addition is not
// trail-recorded and is not undone on backtrack.
func (a *Arena) AddProperty(obj *Term, name, value *Term) {
	if obj.Kind != KindObject {
		panic("term: AddProperty on non-object")
	}
	obj.props = append(obj.props, Property{Name: name, Value: value})
	if name == a.ClassProp {
		obj.className = value
	}
}

// OwnProperty returns the value of a property defined directly on obj,
// without walking the prototype chain, or nil if absent.
func OwnProperty(obj *Term, name *Term) *Term {
	if obj.Kind != KindObject {
		panic("term: OwnProperty on non-object")
	}
	for i := range obj.props {
		if obj.props[i].Name == name {
			return obj.props[i].Value
		}
	}
	return nil
}

// LookupProperty returns the value of a property on obj, walking the
// prototype chain (via the reserved "prototype" property) if the name is
// not defined directly on obj. Returns nil if the property is absent
// everywhere in the chain.
func LookupProperty(arena *Arena, obj *Term, name *Term) *Term {
	cur := obj
	seen := map[*Term]bool{}
	for cur != nil && cur.Kind == KindObject && !seen[cur] {
		seen[cur] = true
		if v := OwnProperty(cur, name); v != nil {
			return v
		}
		proto := OwnProperty(cur, arena.Prototype)
		if proto == nil {
			return nil
		}
		cur = proto
	}
	return nil
}
