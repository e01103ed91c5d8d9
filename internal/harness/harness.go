package harness

import (
	"context"
	"fmt"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/engine"
	"github.com/roach88/balance/internal/logs"
	"github.com/roach88/balance/internal/record"
	"github.com/roach88/balance/internal/store"
	"github.com/roach88/balance/internal/testutil"
	"github.com/roach88/balance/internal/view"
)

// Run executes a scenario in a fresh in-memory store and returns the result.
//
// Execution flow:
//  1. Persist the scenario's record, if any
//  2. Load the board from the store, exactly as a new session would
//  3. Drive every drop step through engine.Drop
//  4. Evaluate assertions against the final board and the store
//
// A returned error means the scenario could not run at all; failed
// expectations land in Result.Errors.
func Run(s *Scenario) (*Result, error) {
	ctx := context.Background()

	variant, err := board.ParseVariant(s.Variant)
	if err != nil {
		return nil, err
	}
	stackSize := board.DefaultStackSize
	if s.StackSize != nil {
		stackSize = *s.StackSize
	}

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if s.Record != nil {
		if err := st.SaveRecord(ctx, record.Record(s.Record)); err != nil {
			return nil, fmt.Errorf("failed to seed record: %w", err)
		}
	}

	rec, err := st.LoadRecord(ctx)
	if err != nil {
		return nil, err
	}
	state := record.LoadSized(rec, variant, stackSize)

	result := NewResult()
	result.Initial = state.Clone()

	eng := engine.New(state, st,
		engine.WithLogger(logs.Discard()),
		engine.WithSessionGenerator(testutil.NewFixedSessionGenerator(s.Session)),
		engine.WithStackSize(stackSize),
	)
	result.Session = eng.Session()

	for i, step := range s.Drops {
		ev, err := runStep(ctx, eng, i, step)
		if err != nil {
			return nil, err
		}
		result.Trace = append(result.Trace, ev)

		if step.Expect != "" && step.Expect != ev.Outcome {
			result.AddError(fmt.Sprintf("drops[%d]: expected %s, got %s", i, step.Expect, ev.Outcome))
		}
	}

	result.Final = eng.Snapshot()
	result.Counts = view.CountsOf(result.Final)
	result.Record = record.Save(result.Final)

	actx := &AssertionContext{
		Ctx:       ctx,
		Store:     st,
		Variant:   variant,
		StackSize: stackSize,
	}
	for _, msg := range EvaluateAssertions(result, s.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

func runStep(ctx context.Context, eng *engine.Engine, i int, step DropStep) (TraceEvent, error) {
	target := board.ContainerID(step.To)

	in := engine.DropIntent{Token: board.TokenID(step.Token), Target: target}
	if step.From != "" {
		var err error
		in, err = engine.DragTop(eng.Snapshot(), board.ContainerID(step.From), target)
		if err != nil {
			return TraceEvent{
				Step:    i,
				Source:  board.ContainerID(step.From),
				Target:  target,
				Outcome: OutcomeNone,
				Counts:  eng.Counts(),
				Note:    err.Error(),
			}, nil
		}
	}

	upd, err := eng.Drop(ctx, in)
	if err != nil {
		return TraceEvent{}, fmt.Errorf("drops[%d]: %w", i, err)
	}

	return TraceEvent{
		Step:    i,
		Seq:     upd.Seq,
		Token:   tokenLabel(upd),
		Source:  upd.Source,
		Target:  target,
		Outcome: upd.Outcome.String(),
		Counts:  upd.Counts,
	}, nil
}

// tokenLabel names the dropped token, falling back to its bare ID when the
// board never had it.
func tokenLabel(u engine.Update) string {
	if u.Token.Color.Valid() {
		return u.Token.String()
	}
	return fmt.Sprintf("#%d", u.Intent.Token)
}
