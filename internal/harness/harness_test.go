package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/view"
)

const scenarioDir = "testdata/scenarios"

func intPtr(n int) *int { return &n }

func TestGoldenScenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join(scenarioDir, "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := RunWithGolden(t, filepath.Join(scenarioDir, GoldenDir), scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ExpectationMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "wrong expectation",
		Drops: []DropStep{
			{From: "red-stack", To: "blue-stack", Expect: "moved"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected moved, got rejected")
}

func TestRun_EmptySourceProducesNoIntent(t *testing.T) {
	scenario := &Scenario{
		Name:        "empty_source",
		Description: "drag from the empty balance area",
		Drops:       []DropStep{{From: "balance-area", To: "red-stack", Expect: OutcomeNone}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 1)
	ev := result.Trace[0]
	assert.Equal(t, int64(0), ev.Seq)
	assert.Equal(t, OutcomeNone, ev.Outcome)
	assert.Contains(t, ev.Note, "container is empty")
}

func TestRun_UnknownTokenIsRejected(t *testing.T) {
	scenario := &Scenario{
		Name:        "ghost",
		Description: "token that never existed",
		Drops:       []DropStep{{Token: 99, To: "balance-area", Expect: "rejected"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "#99", result.Trace[0].Token)

	trace, err := FormatTrace(scenario, result)
	require.NoError(t, err)
	assert.Contains(t, string(trace), "drop 1: #99 ? -> balance-area rejected")
}

func TestRun_StackSizeAndSession(t *testing.T) {
	scenario := &Scenario{
		Name:        "sized",
		Description: "five per stack",
		StackSize:   intPtr(5),
		Session:     "session-x",
		Assertions: []Assertion{
			{Type: AssertSizes, Sizes: map[string]int{"red-stack": 5, "blue-stack": 5}},
			{Type: AssertRecord, Record: map[string]string{"redStackCount": "5"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "session-x", result.Session)
}

func TestRun_SeededRecordNormalizesBothColors(t *testing.T) {
	scenario := &Scenario{
		Name:        "both_colors",
		Description: "a record holding both colors in the balance area",
		Record: map[string]string{
			"hasPersistedData": "true",
			"redStackCount":    "1",
			"blueStackCount":   "2",
			"redBalanceCount":  "2",
			"blueBalanceCount": "1",
		},
		Assertions: []Assertion{
			{Type: AssertCounts, Red: intPtr(1), Blue: intPtr(0), Net: intPtr(-1), Class: "negative"},
			{Type: AssertConserved},
			{Type: AssertReload},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, map[board.Color]int{board.Red: 3, board.Blue: 3}, result.Final.Totals())
}

func TestRun_InvalidVariant(t *testing.T) {
	_, err := Run(&Scenario{Name: "x", Description: "x", Variant: "hexagon"})
	assert.Error(t, err)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "base",
		Description: "one red drop",
		Drops:       []DropStep{{From: "red-stack", To: "balance-area"}},
	})
	require.NoError(t, err)
	require.Equal(t, view.Counts{Red: 1, Net: -1, Class: view.Negative}, result.Counts)

	tests := []struct {
		name      string
		assertion Assertion
		contains  string
	}{
		{"counts", Assertion{Type: AssertCounts, Net: intPtr(2)}, "net=+2"},
		{"sizes", Assertion{Type: AssertSizes, Sizes: map[string]int{"red-stack": 3}}, "red-stack=3 (got 2)"},
		{"record value", Assertion{Type: AssertRecord, Record: map[string]string{"netCount": "0"}}, `netCount="0" (got "-1")`},
		{"record missing", Assertion{Type: AssertRecord, Record: map[string]string{"redCount": "0"}}, "redCount missing"},
		{"outcome count", Assertion{Type: AssertOutcomeCount, Outcome: "cancelled", Count: intPtr(1)}, "1 cancelled"},
		{"unknown", Assertion{Type: "vibes"}, `unknown assertion type "vibes"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(result, []Assertion{tt.assertion}, nil)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.contains)
		})
	}

	errs := EvaluateAssertions(result, []Assertion{{Type: AssertReload}}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "reload requires a store")
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertCounts,
		Expected: "net=+1",
		Actual:   "net=+0",
		Trace: []TraceEvent{{
			Seq: 1, Token: "red#1", Source: board.RedStack, Target: board.BlueStack,
			Outcome: "rejected", Counts: view.Counts{Class: view.Zero},
		}},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: counts")
	assert.Contains(t, msg, "Expected: net=+1")
	assert.Contains(t, msg, "drop 1: red#1 red-stack -> blue-stack rejected")
}

func TestGoldenHelpers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.yaml")
	path := GoldenPath(file, "x")
	assert.Equal(t, filepath.Join(dir, "golden", "x.golden"), path)

	_, err := CompareGolden(path, []byte("a"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, WriteGolden(path, []byte("a\n")))
	ok, err := CompareGolden(path, []byte("a\n"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CompareGolden(path, []byte("b\n"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFormatTrace_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join(scenarioDir, "oldest_first.yaml"))
	require.NoError(t, err)

	var traces []string
	for i := 0; i < 2; i++ {
		result, err := Run(scenario)
		require.NoError(t, err)
		trace, err := FormatTrace(scenario, result)
		require.NoError(t, err)
		traces = append(traces, string(trace))
	}
	assert.Equal(t, traces[0], traces[1])
	assert.True(t, strings.HasSuffix(traces[0], "\n"))
}
