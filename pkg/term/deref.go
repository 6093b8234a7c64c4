package term

// Deref follows a variable's value chain to its terminus: a non-variable
// term, an unbound variable, or a member-variable term (§3.1 dereference
// contract). It does not resolve member variables against an object;
// that requires the global-object table and trail discipline pkg/unify
// owns (§4.2). It stops at the first term that is not a bound variable.
//
// Chains of arbitrary length are handled iteratively so dereferencing
// never contributes stack depth proportional to binding-chain length.
func Deref(t *Term) *Term {
	for t.Kind == KindVariable && t.value != nil {
		t = t.value
	}
	return t
}

// IsGround reports whether t, once dereferenced, contains no unbound
// variable or member-variable reference anywhere in its structure.
// Objects are treated as ground regardless of their property values;
// they are reference-identity terms (§3.1).
func IsGround(t *Term) bool {
	t = Deref(t)
	switch t.Kind {
	case KindVariable, KindMemberVariable:
		return false
	case KindFunctor:
		for _, a := range t.args {
			if !IsGround(a) {
				return false
			}
		}
		return true
	case KindList:
		for t.Kind == KindList {
			if !IsGround(t.head) {
				return false
			}
			t = Deref(t.tail)
		}
		return IsGround(t)
	default:
		return true
	}
}
