package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/balance/internal/board"
)

// Scenario is a scripted sequence of drops plus checks on the result.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Variant selects the board layout. Empty means balance.
	Variant string `yaml:"variant,omitempty"`

	// StackSize overrides the default of 3 tokens per stack.
	StackSize *int `yaml:"stack_size,omitempty"`

	// Session is the fixed session token. Empty means testutil.DefaultSession.
	Session string `yaml:"session,omitempty"`

	// Record, if set, is persisted before the board is loaded, as if an
	// earlier session had saved it.
	Record map[string]string `yaml:"record,omitempty"`

	Drops      []DropStep  `yaml:"drops,omitempty"`
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// DropStep is one drag and drop. Exactly one of From and Token is set.
type DropStep struct {
	// From drags the top token of this container.
	From string `yaml:"from,omitempty"`

	// Token names the dragged token by ID.
	Token uint64 `yaml:"token,omitempty"`

	// To is the target container tag. Tags the board lacks are allowed;
	// the drop is rejected.
	To string `yaml:"to"`

	// Expect is moved, cancelled, rejected or none. Empty skips the check.
	Expect string `yaml:"expect,omitempty"`
}

// Assertion validates the final board, record or trace.
type Assertion struct {
	Type string `yaml:"type"`

	// counts
	Red   *int   `yaml:"red,omitempty"`
	Blue  *int   `yaml:"blue,omitempty"`
	Net   *int   `yaml:"net,omitempty"`
	Class string `yaml:"class,omitempty"`

	// sizes
	Sizes map[string]int `yaml:"sizes,omitempty"`

	// record (subset match)
	Record map[string]string `yaml:"record,omitempty"`

	// outcome_count
	Outcome string `yaml:"outcome,omitempty"`
	Count   *int   `yaml:"count,omitempty"`

	// expr: a boolean expr-lang expression over the final result
	Expr string `yaml:"expr,omitempty"`
}

// Assertion type constants.
const (
	AssertCounts       = "counts"
	AssertSizes        = "sizes"
	AssertRecord       = "record"
	AssertOutcomeCount = "outcome_count"
	AssertReload       = "reload"
	AssertConserved    = "conserved"
	AssertExpr         = "expr"
)

// OutcomeNone is the expectation for a step that produced no intent.
const OutcomeNone = "none"

// LoadScenario reads, schema-checks and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario schema-checks and parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario covers what the schema cannot express.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Drops) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("scenario needs drops or assertions")
	}
	if _, err := board.ParseVariant(s.Variant); err != nil {
		return err
	}

	for i, step := range s.Drops {
		if (step.From == "") == (step.Token == 0) {
			return fmt.Errorf("drops[%d]: exactly one of from and token is required", i)
		}
		if step.To == "" {
			return fmt.Errorf("drops[%d]: to is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertCounts:
		if a.Red == nil && a.Blue == nil && a.Net == nil && a.Class == "" {
			return fmt.Errorf("assertions[%d]: counts needs at least one of red, blue, net, class", index)
		}
	case AssertSizes:
		if len(a.Sizes) == 0 {
			return fmt.Errorf("assertions[%d]: sizes map is required", index)
		}
	case AssertRecord:
		if len(a.Record) == 0 {
			return fmt.Errorf("assertions[%d]: record map is required", index)
		}
	case AssertOutcomeCount:
		if a.Outcome == "" || a.Count == nil {
			return fmt.Errorf("assertions[%d]: outcome and count are required for outcome_count", index)
		}
	case AssertExpr:
		if a.Expr == "" {
			return fmt.Errorf("assertions[%d]: expr is required", index)
		}
		if _, err := compileExpr(a.Expr); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertReload, AssertConserved:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
