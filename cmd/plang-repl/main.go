// Command plang-repl demonstrates the core runtime end to end: consulting
// a small clause database and driving goals through a Context to
// exhaustion, printing each solution as it is found. It is a smoke-test
// program in the shape of the teacher's cmd/example, not a real
// surface-syntax REPL: the parser, consult loader and shell front-end
// are out of scope for the core (§6).
package main

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/relogic/plang/pkg/builtins"
	"github.com/relogic/plang/pkg/engine"
	"github.com/relogic/plang/pkg/exec"
	"github.com/relogic/plang/pkg/term"
)

func main() {
	fmt.Println("=== plang core runtime demo ===")
	fmt.Println()

	basicBacktracking()
	cutAndIfThenElse()
	catchAndThrow()
	fuzzyConfidence()
	findallDemo()
}

func newDemoContext() *engine.Context {
	ctx := engine.New(engine.WithLogger(hclog.NewNullLogger()))
	builtins.Register(ctx.DB, ctx.U, ctx.Errs)
	return ctx
}

// basicBacktracking asserts likes(Person, Food) facts and enumerates every
// solution for a partially-bound query via ExecuteGoal/ReexecuteGoal.
func basicBacktracking() {
	fmt.Println("1. Backtracking through facts:")
	ctx := newDemoContext()
	arena := ctx.Arena

	likes := arena.CreateAtom("likes")
	facts := [][2]string{{"alice", "pizza"}, {"bob", "burgers"}, {"alice", "salad"}}
	clauses := make([]*term.Term, len(facts))
	for i, f := range facts {
		clauses[i] = arena.CreateFunctorWithArgs(likes, arena.CreateAtom(f[0]), arena.CreateAtom(f[1]))
	}
	if err := ctx.ConsultClauses(clauses); err != nil {
		fmt.Println("   consult error:", err)
		return
	}

	food := arena.CreateVariable()
	goal := arena.CreateFunctorWithArgs(likes, arena.CreateAtom("alice"), food)

	res, _, _ := ctx.ExecuteGoal(goal)
	for res == exec.ResultTrue {
		fmt.Printf("   alice likes %v\n", food.Value())
		res, _, _ = ctx.ReexecuteGoal()
	}
	fmt.Println()
}

// cutAndIfThenElse shows if-then-else picking a branch based on a
// condition; the condition commits to its first solution the way a cut
// would. The demo clause contains no explicit !/0.
func cutAndIfThenElse() {
	fmt.Println("2. Cut and if-then-else:")
	ctx := newDemoContext()
	arena := ctx.Arena

	classify := arena.CreateAtom("classify")
	x := arena.CreateNamedVariable("X")
	result := arena.CreateNamedVariable("R")

	small := arena.CreateFunctorWithArgs(arena.CreateAtom("<"), x, arena.CreateInteger(10))
	label := func(s string) *term.Term {
		return arena.CreateFunctorWithArgs(arena.UnifyOp, result, arena.CreateAtom(s))
	}
	body := arena.CreateFunctorWithArgs(arena.Arrow, small, label("small"))
	elseBranch := label("big")
	ifThenElse := arena.CreateFunctorWithArgs(arena.CreateAtom(";"), body, elseBranch)

	head := arena.CreateFunctorWithArgs(classify, x, result)
	clause := arena.CreateFunctorWithArgs(arena.Neck, head, ifThenElse)
	if err := ctx.ConsultClauses([]*term.Term{clause}); err != nil {
		fmt.Println("   consult error:", err)
		return
	}

	for _, v := range []int64{3, 42} {
		r := arena.CreateVariable()
		goal := arena.CreateFunctorWithArgs(classify, arena.CreateInteger(v), r)
		res, _, _ := ctx.ExecuteGoal(goal)
		fmt.Printf("   classify(%d) => %v (%v)\n", v, r.Value(), res)
	}
	fmt.Println()
}

// catchAndThrow shows a thrown error term being recovered by a matching
// catch/3 pattern.
func catchAndThrow() {
	fmt.Println("3. catch/throw:")
	ctx := newDemoContext()
	arena := ctx.Arena

	boom := arena.CreateAtom("boom")
	throwGoal := arena.CreateFunctorWithArgs(arena.CreateAtom("throw"), boom)
	recovered := arena.CreateVariable()
	recovery := arena.CreateFunctorWithArgs(arena.UnifyOp, recovered, arena.CreateAtom("recovered"))
	goal := arena.CreateFunctorWithArgs(arena.CreateAtom("catch"), throwGoal, boom, recovery)

	res, errTerm, _ := ctx.ExecuteGoal(goal)
	fmt.Printf("   catch(throw(boom), boom, R=recovered) => %v, R=%v, err=%v\n", res, recovered.Value(), errTerm)
	fmt.Println()
}

// fuzzyConfidence shows confidence attenuating across two fuzzy/1 calls.
func fuzzyConfidence() {
	fmt.Println("4. Fuzzy confidence:")
	ctx := newDemoContext()
	arena := ctx.Arena

	conj := arena.CreateFunctorWithArgs(arena.Comma,
		arena.CreateFunctorWithArgs(arena.CreateAtom("fuzzy"), arena.CreateReal(0.8)),
		arena.CreateFunctorWithArgs(arena.CreateAtom("fuzzy"), arena.CreateReal(0.5)))

	res, _, _ := ctx.ExecuteGoal(conj)
	fmt.Printf("   fuzzy(0.8), fuzzy(0.5) => %v, confidence=%v\n", res, ctx.Confidence())
	fmt.Println()
}

// findallDemo collects every solution of a query into a list.
func findallDemo() {
	fmt.Println("5. findall/3:")
	ctx := newDemoContext()
	arena := ctx.Arena

	number := arena.CreateAtom("digit")
	clauses := make([]*term.Term, 5)
	for i := range clauses {
		clauses[i] = arena.CreateFunctorWithArgs(number, arena.CreateInteger(int64(i)))
	}
	if err := ctx.ConsultClauses(clauses); err != nil {
		fmt.Println("   consult error:", err)
		return
	}

	x := arena.CreateVariable()
	bag := arena.CreateVariable()
	goal := arena.CreateFunctorWithArgs(arena.CreateAtom("findall"), x,
		arena.CreateFunctorWithArgs(number, x), bag)

	res, _, _ := ctx.ExecuteGoal(goal)
	fmt.Printf("   findall(X, digit(X), Bag) => %v, Bag=%v\n", res, bag.Value())
}
