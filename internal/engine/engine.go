package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/record"
	"github.com/roach88/balance/internal/store"
	"github.com/roach88/balance/internal/view"
)

// SessionGenerator generates session tokens.
// Implemented by UUIDv7Generator; tests use testutil.FixedSessionGenerator.
type SessionGenerator interface {
	Generate() string
}

// Persister is the durable side of the engine. *store.Store implements it.
type Persister interface {
	SaveRecord(ctx context.Context, rec record.Record) error
	// CommitDrop saves the record and logs the drop atomically.
	CommitDrop(ctx context.Context, rec record.Record, e store.DropEntry) error
}

// Update is everything a front end needs after one processed drop.
type Update struct {
	Seq     int64             `json:"seq"`
	Session string            `json:"session"`
	Intent  DropIntent        `json:"intent"`
	Token   board.Token       `json:"-"`
	Source  board.ContainerID `json:"source,omitempty"`
	Outcome Outcome           `json:"outcome"`
	Counts  view.Counts       `json:"counts"`
	Record  record.Record     `json:"record"`
	Digest  string            `json:"digest"`
}

// Entry converts the update into its drop-log row.
func (u Update) Entry() store.DropEntry {
	var col string
	if u.Token.Color.Valid() {
		col = u.Token.Color.String()
	}
	return store.DropEntry{
		Seq:       u.Seq,
		Session:   u.Session,
		TokenID:   u.Intent.Token,
		Color:     col,
		Source:    u.Source,
		Target:    u.Intent.Target,
		Moved:     u.Outcome.Moved,
		Cancelled: u.Outcome.Cancelled,
		Digest:    u.Digest,
	}
}

// Engine owns one live board.
//
// Thread-safety model:
//   - Drop, Counts, Snapshot, Reset: safe from any goroutine, linearized by mu
//   - Enqueue: safe from any goroutine
//   - Run: must be called from exactly one goroutine
type Engine struct {
	mu        sync.Mutex
	state     *board.State
	persist   Persister
	clock     *Clock
	queue     *dropQueue
	session   string
	stackSize int

	sessionGen SessionGenerator
	hook       func(Update)
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithClock sets the clock. Use NewClockAt(lastSeq) to resume a drop log.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithSessionGenerator sets where the session token comes from.
func WithSessionGenerator(g SessionGenerator) Option {
	return func(e *Engine) {
		e.sessionGen = g
	}
}

// WithUpdateHook registers fn to receive every Update.
// fn runs outside the engine lock, on the goroutine that processed the drop.
func WithUpdateHook(fn func(Update)) Option {
	return func(e *Engine) {
		e.hook = fn
	}
}

// WithStackSize sets the stack size Reset restores. Default: 3.
func WithStackSize(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.stackSize = n
		}
	}
}

// New creates an engine around state. A nil persister keeps everything in
// memory.
func New(state *board.State, p Persister, opts ...Option) *Engine {
	e := &Engine{
		state:      state,
		persist:    p,
		clock:      NewClock(),
		queue:      newDropQueue(),
		stackSize:  board.DefaultStackSize,
		sessionGen: UUIDv7Generator{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.persist == nil {
		e.persist = nopPersister{}
	}
	e.session = e.sessionGen.Generate()

	return e
}

// Session returns the session token of this engine.
func (e *Engine) Session() string {
	return e.session
}

// Variant returns the board variant.
func (e *Engine) Variant() board.Variant {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Variant()
}

// Drop resolves one intent and persists the result.
//
// A rejected drop still yields an Update and is still saved and logged.
// A persistence error is returned alongside the Update; the in-memory board
// has already changed and stays consistent.
func (e *Engine) Drop(ctx context.Context, in DropIntent) (Update, error) {
	upd, err := e.apply(ctx, in)
	if e.hook != nil {
		e.hook(upd)
	}
	return upd, err
}

func (e *Engine) apply(ctx context.Context, in DropIntent) (Update, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	upd := Update{
		Seq:     e.clock.Next(),
		Session: e.session,
		Intent:  in,
	}
	if from, tok, ok := e.state.Locate(in.Token); ok {
		upd.Source = from.ID
		upd.Token = tok
	}

	upd.Outcome = Resolve(e.state, in.Token, in.Target)
	upd.Counts = view.CountsOf(e.state)
	upd.Record = record.Save(e.state)

	digest, err := record.Digest(upd.Record)
	if err != nil {
		return upd, fmt.Errorf("drop %d: %w", upd.Seq, err)
	}
	upd.Digest = digest

	e.logger.Debug("drop resolved",
		"seq", upd.Seq,
		"token", upd.Token.String(),
		"source", upd.Source,
		"target", in.Target,
		"outcome", upd.Outcome.String(),
		"net", upd.Counts.Net,
	)

	if err := e.persist.CommitDrop(ctx, upd.Record, upd.Entry()); err != nil {
		e.logger.Error("commit drop failed", "seq", upd.Seq, "error", err)
		return upd, fmt.Errorf("drop %d: %w", upd.Seq, err)
	}

	return upd, nil
}

// Enqueue submits an intent for the Run loop.
// Returns ErrStopped once Stop has been called.
func (e *Engine) Enqueue(in DropIntent) error {
	if !e.queue.Enqueue(in) {
		return ErrStopped
	}
	return nil
}

// Run processes queued intents one at a time until the context is cancelled
// or Stop is called and the queue has drained.
//
// A failed drop is logged and processing continues.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine starting", "session", e.session, "variant", e.Variant())

	for {
		if in, ok := e.queue.TryDequeue(); ok {
			if _, err := e.Drop(ctx, in); err != nil {
				e.logger.Error("drop failed",
					"token", in.Token,
					"target", in.Target,
					"error", err,
				)
			}
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			// The signal channel is closed by Close, so this fires
			// immediately once stopped.
			if e.queue.Closed() && e.queue.Len() == 0 {
				e.logger.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue. Run returns after draining what is left.
func (e *Engine) Stop() {
	e.queue.Close()
}

// QueueLen returns the number of intents waiting for Run.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// Clock returns the engine's clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Counts returns the current counts.
func (e *Engine) Counts() view.Counts {
	e.mu.Lock()
	defer e.mu.Unlock()
	return view.CountsOf(e.state)
}

// Snapshot returns a deep copy of the board.
func (e *Engine) Snapshot() *board.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Reset restores the default board and persists it.
// This clears the whole board; it is not an undo.
func (e *Engine) Reset(ctx context.Context) (view.Counts, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = board.Default(e.state.Variant(), e.stackSize)
	counts := view.CountsOf(e.state)

	if err := e.persist.SaveRecord(ctx, record.Save(e.state)); err != nil {
		e.logger.Error("save record failed", "error", err)
		return counts, fmt.Errorf("reset: %w", err)
	}

	e.logger.Info("board reset", "variant", e.state.Variant(), "stack_size", e.stackSize)
	return counts, nil
}

type nopPersister struct{}

func (nopPersister) SaveRecord(context.Context, record.Record) error { return nil }
func (nopPersister) CommitDrop(context.Context, record.Record, store.DropEntry) error {
	return nil
}
