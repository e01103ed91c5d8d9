package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/record"
)

// GoldenDir is where golden traces live, relative to the scenario files.
const GoldenDir = "golden"

// FormatTrace renders a result as the plain-text trace stored in golden
// files. Digests are left out so a golden file can be written by hand.
func FormatTrace(s *Scenario, r *Result) ([]byte, error) {
	var buf bytes.Buffer

	variant, _ := board.ParseVariant(s.Variant)
	fmt.Fprintf(&buf, "scenario: %s\n", s.Name)
	fmt.Fprintf(&buf, "variant: %s\n", variant)
	fmt.Fprintf(&buf, "session: %s\n", r.Session)

	writeBoard(&buf, "initial", r.Initial)
	for _, ev := range r.Trace {
		fmt.Fprintln(&buf, formatEvent(ev))
	}
	writeBoard(&buf, "final", r.Final)

	canon, err := record.MarshalCanonical(r.Record)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, "record: %s\n", canon)

	return buf.Bytes(), nil
}

func writeBoard(buf *bytes.Buffer, label string, s *board.State) {
	fmt.Fprintf(buf, "%s:\n", label)
	for _, c := range s.Containers() {
		members := c.Members()
		if len(members) == 0 {
			fmt.Fprintf(buf, "  %s: (empty)\n", c.ID)
			continue
		}
		names := make([]string, len(members))
		for i, t := range members {
			names[i] = t.String()
		}
		fmt.Fprintf(buf, "  %s: %s\n", c.ID, strings.Join(names, " "))
	}
}

func formatEvent(ev TraceEvent) string {
	if ev.Outcome == OutcomeNone {
		return fmt.Sprintf("drop -: %s -> %s none (%s)", ev.Source, ev.Target, ev.Note)
	}
	source := string(ev.Source)
	if source == "" {
		source = "?"
	}
	return fmt.Sprintf("drop %d: %s %s -> %s %s; %s", ev.Seq, ev.Token, source, ev.Target, ev.Outcome, ev.Counts)
}

// GoldenPath returns the golden file for a scenario loaded from scenarioFile.
func GoldenPath(scenarioFile, name string) string {
	return filepath.Join(filepath.Dir(scenarioFile), GoldenDir, name+".golden")
}

// CompareGolden reports whether the golden file at path holds exactly data.
// A missing golden file is reported through os.ErrNotExist.
func CompareGolden(path string, data []byte) (bool, error) {
	golden, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	return bytes.Equal(golden, data), nil
}

// WriteGolden writes data as the golden file at path.
func WriteGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// RunWithGolden executes a scenario and compares its trace against
// fixtureDir/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, fixtureDir string, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	trace, err := FormatTrace(scenario, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(fixtureDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, trace)

	return result, nil
}
