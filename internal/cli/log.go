package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/balance/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Limit   int
	Session string
}

// LogResult is the log payload.
type LogResult struct {
	Entries []store.DropEntry `json:"entries"`
}

// RenderText prints one line per drop.
func (r LogResult) RenderText(w io.Writer) {
	if len(r.Entries) == 0 {
		fmt.Fprintln(w, "No drops logged.")
		return
	}
	for _, e := range r.Entries {
		fmt.Fprintf(w, "%6d  %s  %s#%d %s -> %s %s\n",
			e.Seq, shortSession(e.Session), e.Color, e.TokenID, e.Source, e.Target, entryOutcome(e))
	}
}

func entryOutcome(e store.DropEntry) string {
	switch {
	case e.Cancelled:
		return "cancelled"
	case e.Moved:
		return "moved"
	default:
		return "rejected"
	}
}

// shortSession keeps the random tail of a UUIDv7; the head is a timestamp
// shared by sessions started close together.
func shortSession(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[len(s)-8:]
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the drop log",
		Long: `Print processed drops, oldest first.

Every drop is logged, rejected ones included. Each entry carries the
session that produced it and the digest of the record saved after it.

Example:
  balance log
  balance log --limit 5
  balance log --session 0192f1c4-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Limit < 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid --limit %d: must not be negative", opts.Limit))
			}

			ctx := cmd.Context()
			s, err := openSession(ctx, cmd, opts.RootOptions, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.store.ReadDrops(ctx, opts.Session, opts.Limit)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to read drop log", err)
			}
			if entries == nil {
				entries = []store.DropEntry{}
			}

			return newFormatter(opts.RootOptions, cmd).Success(LogResult{Entries: entries})
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "show at most this many recent drops (0 = all)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "only show drops from this session")

	return cmd
}
