package harness

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/record"
	"github.com/roach88/balance/internal/store"
	"github.com/roach88/balance/internal/view"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", formatEvent(ev))
		}
	}

	return buf.String()
}

// AssertionContext provides what assertions need beyond the result.
type AssertionContext struct {
	Ctx       context.Context
	Store     *store.Store
	Variant   board.Variant
	StackSize int
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertCounts:
			err = assertCounts(result, a)
		case AssertSizes:
			err = assertSizes(result, a)
		case AssertRecord:
			err = assertRecord(result, a)
		case AssertOutcomeCount:
			err = assertOutcomeCount(result, a)
		case AssertConserved:
			err = assertConserved(result)
		case AssertExpr:
			err = assertExpr(result, a)
		case AssertReload:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: reload requires a store", i)
			} else {
				err = assertReload(actx, result)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func assertCounts(result *Result, a Assertion) error {
	got := result.Counts
	ok := (a.Red == nil || *a.Red == got.Red) &&
		(a.Blue == nil || *a.Blue == got.Blue) &&
		(a.Net == nil || *a.Net == got.Net) &&
		(a.Class == "" || view.NetClass(a.Class) == got.Class)
	if ok {
		return nil
	}

	var want []string
	if a.Red != nil {
		want = append(want, fmt.Sprintf("red=%d", *a.Red))
	}
	if a.Blue != nil {
		want = append(want, fmt.Sprintf("blue=%d", *a.Blue))
	}
	if a.Net != nil {
		want = append(want, fmt.Sprintf("net=%+d", *a.Net))
	}
	if a.Class != "" {
		want = append(want, "class="+a.Class)
	}
	return &AssertionError{
		Type:     AssertCounts,
		Expected: strings.Join(want, " "),
		Actual:   got.String(),
		Trace:    result.Trace,
	}
}

func assertSizes(result *Result, a Assertion) error {
	var mismatches []string
	for _, id := range sortedKeys(a.Sizes) {
		got := result.Final.Size(board.ContainerID(id))
		if got != a.Sizes[id] {
			mismatches = append(mismatches, fmt.Sprintf("%s=%d (got %d)", id, a.Sizes[id], got))
		}
	}
	if len(mismatches) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertSizes,
		Expected: strings.Join(mismatches, ", "),
		Actual:   formatSizes(result.Final),
		Trace:    result.Trace,
	}
}

func assertRecord(result *Result, a Assertion) error {
	var mismatches []string
	for _, k := range sortedKeys(a.Record) {
		got, ok := result.Record[k]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s missing", k))
			continue
		}
		if got != a.Record[k] {
			mismatches = append(mismatches, fmt.Sprintf("%s=%q (got %q)", k, a.Record[k], got))
		}
	}
	if len(mismatches) == 0 {
		return nil
	}
	canon, _ := record.MarshalCanonical(result.Record)
	return &AssertionError{
		Type:     AssertRecord,
		Expected: strings.Join(mismatches, ", "),
		Actual:   string(canon),
		Trace:    result.Trace,
	}
}

func assertOutcomeCount(result *Result, a Assertion) error {
	got := result.CountOutcome(a.Outcome)
	if got == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutcomeCount,
		Expected: fmt.Sprintf("%d %s", *a.Count, a.Outcome),
		Actual:   fmt.Sprintf("%d %s", got, a.Outcome),
		Trace:    result.Trace,
	}
}

func assertConserved(result *Result) error {
	before := result.Initial.Totals()
	after := result.Final.Totals()
	if before[board.Red] == after[board.Red] && before[board.Blue] == after[board.Blue] {
		return nil
	}
	return &AssertionError{
		Type:     AssertConserved,
		Expected: fmt.Sprintf("red=%d blue=%d", before[board.Red], before[board.Blue]),
		Actual:   fmt.Sprintf("red=%d blue=%d", after[board.Red], after[board.Blue]),
		Trace:    result.Trace,
	}
}

// assertReload loads the persisted record into a new board, the way the
// next session would, and compares it with the live one.
func assertReload(actx *AssertionContext, result *Result) error {
	rec, err := actx.Store.LoadRecord(actx.Ctx)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	reloaded := record.LoadSized(rec, actx.Variant, actx.StackSize)

	wantSizes, gotSizes := formatSizes(result.Final), formatSizes(reloaded)
	wantCounts, gotCounts := view.CountsOf(result.Final), view.CountsOf(reloaded)
	if wantSizes == gotSizes && wantCounts == gotCounts {
		return nil
	}
	return &AssertionError{
		Type:     AssertReload,
		Expected: fmt.Sprintf("%s; %s", wantCounts, wantSizes),
		Actual:   fmt.Sprintf("%s; %s", gotCounts, gotSizes),
		Trace:    result.Trace,
	}
}

func formatSizes(s *board.State) string {
	var parts []string
	for _, c := range s.Containers() {
		parts = append(parts, fmt.Sprintf("%s=%d", c.ID, c.Len()))
	}
	return strings.Join(parts, " ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
