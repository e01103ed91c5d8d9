package harness

import (
	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/record"
	"github.com/roach88/balance/internal/view"
)

// TraceEvent is one executed drop step.
type TraceEvent struct {
	// Step is the index in Scenario.Drops.
	Step int `json:"step"`

	// Seq is the engine seq, 0 when no intent was produced.
	Seq int64 `json:"seq"`

	Token   string            `json:"token,omitempty"`
	Source  board.ContainerID `json:"source,omitempty"`
	Target  board.ContainerID `json:"target"`
	Outcome string            `json:"outcome"`
	Counts  view.Counts       `json:"counts"`

	// Note explains a none outcome.
	Note string `json:"note,omitempty"`
}

// Result is the outcome of one scenario run.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	Session string       `json:"session"`
	Trace   []TraceEvent `json:"trace"`

	// Errors holds one message per failed expectation or assertion.
	Errors []string `json:"errors,omitempty"`

	Initial *board.State  `json:"-"`
	Final   *board.State  `json:"-"`
	Counts  view.Counts   `json:"counts"`
	Record  record.Record `json:"record"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// CountOutcome returns how many trace events ended with outcome.
func (r *Result) CountOutcome(outcome string) int {
	n := 0
	for _, ev := range r.Trace {
		if ev.Outcome == outcome {
			n++
		}
	}
	return n
}
