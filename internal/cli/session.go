package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/config"
	"github.com/roach88/balance/internal/engine"
	"github.com/roach88/balance/internal/logs"
	"github.com/roach88/balance/internal/record"
	"github.com/roach88/balance/internal/store"
)

// session is one opened board: config, logger, store and engine.
type session struct {
	cfg     config.Config
	variant board.Variant
	logger  *slog.Logger
	store   *store.Store
	engine  *engine.Engine

	logCloser io.Closer
}

// sessionOptions tweaks openSession for a command.
type sessionOptions struct {
	// quiet disables terminal logging (the TUI owns the screen).
	quiet bool

	// hook receives every processed drop.
	hook func(engine.Update)
}

// openSession loads config, builds the logger, opens the store and restores
// the persisted board.
func openSession(ctx context.Context, cmd *cobra.Command, opts *RootOptions, so sessionOptions) (*session, error) {
	cfg, err := config.Load(opts.ConfigFile, cmd.Flags())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	logOpts := logs.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		JSON:    cfg.Log.JSON,
		Journal: cfg.Log.Journal,
	}
	if opts.Verbose {
		logOpts.Level = "debug"
	}
	if !so.quiet {
		logOpts.Terminal = cmd.ErrOrStderr()
	}
	logger, logCloser, err := logs.New(logOpts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to set up logging", err)
	}

	s := &session{cfg: cfg, variant: cfg.Variant(), logger: logger, logCloser: logCloser}

	if err := ensureDir(cfg.Database.Path); err != nil {
		s.Close()
		return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
	}

	logger.Debug("opening database", "path", cfg.Database.Path)
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		s.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	s.store = st

	rec, err := st.LoadRecord(ctx)
	if err != nil {
		s.Close()
		return nil, WrapExitError(ExitFailure, "failed to load record", err)
	}
	lastSeq, err := st.LastSeq(ctx)
	if err != nil {
		s.Close()
		return nil, WrapExitError(ExitFailure, "failed to read drop log", err)
	}

	state := record.LoadSized(rec, s.variant, cfg.Board.StackSize)

	engOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithClock(engine.NewClockAt(lastSeq)),
		engine.WithStackSize(cfg.Board.StackSize),
	}
	if opts.SessionGenerator != nil {
		engOpts = append(engOpts, engine.WithSessionGenerator(opts.SessionGenerator))
	}
	if so.hook != nil {
		engOpts = append(engOpts, engine.WithUpdateHook(so.hook))
	}
	s.engine = engine.New(state, st, engOpts...)

	logger.Debug("board restored",
		"variant", s.variant,
		"persisted", record.HasData(rec),
		"last_seq", lastSeq,
		"session", s.engine.Session(),
	)
	return s, nil
}

// Close releases the store and the log file.
func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("error closing database", "error", err)
		}
	}
	if s.logCloser != nil {
		_ = s.logCloser.Close()
	}
}

func ensureDir(dbPath string) error {
	if dbPath == store.MemoryPath {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
