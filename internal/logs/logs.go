// Package logs builds the process logger.
//
// Records fan out to every configured sink: a text handler on the terminal,
// an optional log file (text or JSON), and optionally the systemd journal.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options selects the sinks.
type Options struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string

	// Terminal receives human-readable text. Nil disables it, which is what
	// the TUI wants while it owns the screen.
	Terminal io.Writer

	// File is appended to when set. JSON switches it to one JSON object per
	// line.
	File string
	JSON bool

	Journal bool
}

// ParseLevel parses a level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds a logger from opts. The returned closer releases the log file,
// if any; it is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var (
		handlers []slog.Handler
		closer   io.Closer = nopCloser{}
	)

	var terminal slog.Handler
	if opts.Terminal != nil {
		terminal = slog.NewTextHandler(opts.Terminal, handlerOpts)
		handlers = append(handlers, terminal)
	}

	if opts.File != "" {
		f, err := openLogFile(opts.File)
		if err != nil {
			return nil, nil, err
		}
		closer = f
		if opts.JSON {
			handlers = append(handlers, slog.NewJSONHandler(f, handlerOpts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(f, handlerOpts))
		}
	}

	if opts.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: func(key string) string {
				return journalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = journalKey(a.Key)
				return a
			},
		})
		if err != nil {
			if terminal != nil {
				rec := slog.NewRecord(time.Now(), slog.LevelWarn, "systemd journal unavailable", 0)
				rec.Add("error", err)
				_ = terminal.Handle(context.Background(), rec)
			}
		} else {
			handlers = append(handlers, &levelFilter{Handler: journal, level: level})
		}
	}

	if len(handlers) == 0 {
		return Discard(), closer, nil
	}
	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// journalKey maps an attribute key to the uppercase field names the journal
// requires.
func journalKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}

type levelFilter struct {
	slog.Handler
	level slog.Level
}

func (h *levelFilter) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level && h.Handler.Enabled(ctx, l)
}

func (h *levelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelFilter{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h *levelFilter) WithGroup(name string) slog.Handler {
	return &levelFilter{Handler: h.Handler.WithGroup(name), level: h.level}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
