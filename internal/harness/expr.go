package harness

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprEnv is what an expr assertion can see:
//
//	red, blue, net   final counts
//	class            "positive", "negative" or "zero"
//	sizes            container tag -> token count on the final board
//	totals           color -> tokens of that color anywhere on the board
//	record           the persisted record
//	outcomes         outcome -> number of steps that ended with it
//	trace            one map per step: step, seq, token, source, target,
//	                 outcome, net
func exprEnv(result *Result) map[string]any {
	sizes := map[string]int{}
	totals := map[string]int{}
	if result.Final != nil {
		for _, c := range result.Final.Containers() {
			sizes[string(c.ID)] = c.Len()
		}
		for col, n := range result.Final.Totals() {
			totals[col.String()] = n
		}
	}

	outcomes := map[string]int{}
	trace := make([]map[string]any, 0, len(result.Trace))
	for _, ev := range result.Trace {
		outcomes[ev.Outcome]++
		trace = append(trace, map[string]any{
			"step":    ev.Step,
			"seq":     ev.Seq,
			"token":   ev.Token,
			"source":  string(ev.Source),
			"target":  string(ev.Target),
			"outcome": ev.Outcome,
			"net":     ev.Counts.Net,
		})
	}

	rec := map[string]string{}
	for k, v := range result.Record {
		rec[k] = v
	}

	return map[string]any{
		"red":      result.Counts.Red,
		"blue":     result.Counts.Blue,
		"net":      result.Counts.Net,
		"class":    string(result.Counts.Class),
		"sizes":    sizes,
		"totals":   totals,
		"record":   rec,
		"outcomes": outcomes,
		"trace":    trace,
	}
}

// compileExpr type-checks expression against the assertion environment.
// The expression must yield a bool.
func compileExpr(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(exprEnv(NewResult())), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}
	return program, nil
}

func assertExpr(result *Result, a Assertion) error {
	program, err := compileExpr(a.Expr)
	if err != nil {
		return err
	}
	out, err := expr.Run(program, exprEnv(result))
	if err != nil {
		return fmt.Errorf("evaluate %q: %w", a.Expr, err)
	}
	if ok, _ := out.(bool); ok {
		return nil
	}

	actual := result.Counts.String()
	if result.Final != nil {
		actual += "; " + formatSizes(result.Final)
	}
	return &AssertionError{
		Type:     AssertExpr,
		Expected: a.Expr,
		Actual:   actual,
		Trace:    result.Trace,
	}
}
