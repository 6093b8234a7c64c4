package builtins

import (
	"math"

	"github.com/relogic/plang/pkg/exec"
	"github.com/relogic/plang/pkg/perr"
	"github.com/relogic/plang/pkg/term"
	"github.com/relogic/plang/pkg/unify"
)

// evalArith reduces an arithmetic expression term to a number (§1 "a
// small reference set" of arithmetic, not a full numeric tower: integers
// and reals, the four basic operators, integer //,  mod, abs, and unary
// +/-).
func evalArith(u *unify.Unifier, errs *perr.Builder, nameAtom *term.Term, arity int, t *term.Term) (*term.Term, *term.Term) {
	t = u.Dereference(t, unify.Default)
	switch t.Kind {
	case term.KindInteger, term.KindReal:
		return t, nil
	case term.KindVariable, term.KindMemberVariable:
		return nil, errs.Instantiation(nameAtom, arity)
	case term.KindFunctor:
		name := t.FunctorName().AtomName()
		if t.Arity() == 1 {
			x, err := evalArith(u, errs, nameAtom, arity, t.Arg(0))
			if err != nil {
				return nil, err
			}
			switch name {
			case "-":
				return negate(u.Arena, x), nil
			case "+":
				return x, nil
			case "abs":
				return absVal(u.Arena, x), nil
			}
		}
		if t.Arity() == 2 {
			a, err := evalArith(u, errs, nameAtom, arity, t.Arg(0))
			if err != nil {
				return nil, err
			}
			b, err := evalArith(u, errs, nameAtom, arity, t.Arg(1))
			if err != nil {
				return nil, err
			}
			return evalBinary(u.Arena, errs, nameAtom, arity, name, a, b)
		}
	}
	return nil, errs.Type("evaluable", t, nameAtom, arity)
}

func negate(arena *term.Arena, x *term.Term) *term.Term {
	if x.Kind == term.KindInteger {
		return arena.CreateInteger(-x.IntegerValue())
	}
	return arena.CreateReal(-x.RealValue())
}

func absVal(arena *term.Arena, x *term.Term) *term.Term {
	if x.Kind == term.KindInteger {
		v := x.IntegerValue()
		if v < 0 {
			v = -v
		}
		return arena.CreateInteger(v)
	}
	return arena.CreateReal(math.Abs(x.RealValue()))
}

func bothInt(a, b *term.Term) (int64, int64, bool) {
	if a.Kind == term.KindInteger && b.Kind == term.KindInteger {
		return a.IntegerValue(), b.IntegerValue(), true
	}
	return 0, 0, false
}

func asFloat(x *term.Term) float64 {
	if x.Kind == term.KindInteger {
		return float64(x.IntegerValue())
	}
	return x.RealValue()
}

func evalBinary(arena *term.Arena, errs *perr.Builder, nameAtom *term.Term, arity int, op string, a, b *term.Term) (*term.Term, *term.Term) {
	switch op {
	case "+":
		if ai, bi, ok := bothInt(a, b); ok {
			return arena.CreateInteger(ai + bi), nil
		}
		return arena.CreateReal(asFloat(a) + asFloat(b)), nil
	case "-":
		if ai, bi, ok := bothInt(a, b); ok {
			return arena.CreateInteger(ai - bi), nil
		}
		return arena.CreateReal(asFloat(a) - asFloat(b)), nil
	case "*":
		if ai, bi, ok := bothInt(a, b); ok {
			return arena.CreateInteger(ai * bi), nil
		}
		return arena.CreateReal(asFloat(a) * asFloat(b)), nil
	case "/":
		if asFloat(b) == 0 {
			return nil, errs.Evaluation("zero_divisor", nameAtom, arity)
		}
		if ai, bi, ok := bothInt(a, b); ok && ai%bi == 0 {
			return arena.CreateInteger(ai / bi), nil
		}
		return arena.CreateReal(asFloat(a) / asFloat(b)), nil
	case "//":
		ai, bi, ok := bothInt(a, b)
		if !ok {
			return nil, errs.Type("integer", b, nameAtom, arity)
		}
		if bi == 0 {
			return nil, errs.Evaluation("zero_divisor", nameAtom, arity)
		}
		return arena.CreateInteger(ai / bi), nil
	case "mod":
		ai, bi, ok := bothInt(a, b)
		if !ok {
			return nil, errs.Type("integer", b, nameAtom, arity)
		}
		if bi == 0 {
			return nil, errs.Evaluation("zero_divisor", nameAtom, arity)
		}
		m := ai % bi
		if m != 0 && (m < 0) != (bi < 0) {
			m += bi
		}
		return arena.CreateInteger(m), nil
	}
	return nil, errs.Type("evaluable", arena.CreateAtom(op), nameAtom, arity)
}

func isBuiltin(u *unify.Unifier, errs *perr.Builder) exec.BuiltinFunc {
	nameAtom := u.Arena.CreateAtom("is")
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		v, err := evalArith(u, errs, nameAtom, 2, args[1])
		if err != nil {
			return exec.ResultError, err
		}
		if u.Unify(args[0], v, unify.Default) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

func arithCompareBuiltin(u *unify.Unifier, errs *perr.Builder, ok func(c int) bool) exec.BuiltinFunc {
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		a, err := evalArith(u, errs, u.Arena.CreateAtom("arith_compare"), 2, args[0])
		if err != nil {
			return exec.ResultError, err
		}
		b, err := evalArith(u, errs, u.Arena.CreateAtom("arith_compare"), 2, args[1])
		if err != nil {
			return exec.ResultError, err
		}
		c := numCompare(a, b)
		if ok(c) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

func numCompare(a, b *term.Term) int {
	if ai, bi, isInt := bothInt(a, b); isInt {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	af, bf := asFloat(a), asFloat(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

func functorBuiltin(u *unify.Unifier, errs *perr.Builder) exec.BuiltinFunc {
	nameAtom := u.Arena.CreateAtom("functor")
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		t := u.Dereference(args[0], unify.Default)
		if t.Kind != term.KindVariable {
			var name *term.Term
			var arity int64
			switch t.Kind {
			case term.KindFunctor:
				name, arity = t.FunctorName(), int64(t.Arity())
			default:
				name, arity = t, 0
			}
			if u.Unify(args[1], name, unify.Default) && u.Unify(args[2], u.Arena.CreateInteger(arity), unify.Default) {
				return exec.ResultTrue, nil
			}
			return exec.ResultFail, nil
		}

		nameArg := u.Dereference(args[1], unify.Default)
		arityArg := u.Dereference(args[2], unify.Default)
		if nameArg.Kind == term.KindVariable || arityArg.Kind == term.KindVariable {
			return exec.ResultError, errs.Instantiation(nameAtom, 3)
		}
		if arityArg.Kind != term.KindInteger {
			return exec.ResultError, errs.Type("integer", arityArg, nameAtom, 3)
		}
		n := arityArg.IntegerValue()
		if n == 0 {
			if u.Unify(args[0], nameArg, unify.Default) {
				return exec.ResultTrue, nil
			}
			return exec.ResultFail, nil
		}
		if nameArg.Kind != term.KindAtom {
			return exec.ResultError, errs.Type("atom", nameArg, nameAtom, 3)
		}
		fresh := make([]*term.Term, n)
		for i := range fresh {
			fresh[i] = u.Arena.CreateVariable()
		}
		built := u.Arena.CreateFunctorWithArgs(nameArg, fresh...)
		if u.Unify(args[0], built, unify.Default) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

func argBuiltin(u *unify.Unifier, errs *perr.Builder) exec.BuiltinFunc {
	nameAtom := u.Arena.CreateAtom("arg")
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		n := u.Dereference(args[0], unify.Default)
		t := u.Dereference(args[1], unify.Default)
		if n.Kind == term.KindVariable || t.Kind == term.KindVariable {
			return exec.ResultError, errs.Instantiation(nameAtom, 3)
		}
		if n.Kind != term.KindInteger {
			return exec.ResultError, errs.Type("integer", n, nameAtom, 3)
		}
		if t.Kind != term.KindFunctor {
			return exec.ResultError, errs.Type("compound", t, nameAtom, 3)
		}
		i := n.IntegerValue()
		if i < 1 || i > int64(t.Arity()) {
			return exec.ResultFail, nil
		}
		if u.Unify(args[2], t.Arg(int(i)-1), unify.Default) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}

func lengthBuiltin(u *unify.Unifier, errs *perr.Builder) exec.BuiltinFunc {
	nameAtom := u.Arena.CreateAtom("length")
	return func(ex *exec.Executor, args []*term.Term) (exec.Result, *term.Term) {
		lst := u.Dereference(args[0], unify.Default)
		n := 0
		for lst.Kind == term.KindList {
			n++
			lst = u.Dereference(lst.Tail(), unify.Default)
		}
		if lst == u.Arena.Nil {
			if u.Unify(args[1], u.Arena.CreateInteger(int64(n)), unify.Default) {
				return exec.ResultTrue, nil
			}
			return exec.ResultFail, nil
		}
		if lst.Kind != term.KindVariable {
			return exec.ResultError, errs.Type("list", args[0], nameAtom, 2)
		}
		lenArg := u.Dereference(args[1], unify.Default)
		if lenArg.Kind != term.KindInteger {
			return exec.ResultError, errs.Instantiation(nameAtom, 2)
		}
		want := int(lenArg.IntegerValue())
		if want < n {
			return exec.ResultFail, nil
		}
		fresh := make([]*term.Term, want-n)
		for i := range fresh {
			fresh[i] = u.Arena.CreateVariable()
		}
		if u.Unify(lst, u.Arena.CreateListFromSlice(fresh), unify.Default) {
			return exec.ResultTrue, nil
		}
		return exec.ResultFail, nil
	}
}
