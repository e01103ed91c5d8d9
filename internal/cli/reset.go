package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ResetOptions holds flags for the reset command.
type ResetOptions struct {
	*RootOptions
	ClearLog bool
}

// ResetResult is the reset payload.
type ResetResult struct {
	Board      BoardView `json:"board"`
	LogCleared bool      `json:"log_cleared"`
}

// RenderText prints the fresh board.
func (r ResetResult) RenderText(w io.Writer) {
	r.Board.RenderText(w)
	if r.LogCleared {
		fmt.Fprintln(w, "drop log cleared")
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default board",
		Long: `Put every token back on its stack and persist the fresh board.

The drop log is kept unless --clear-log is given.

Example:
  balance reset
  balance reset --clear-log`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, cmd, opts.RootOptions, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.engine.Reset(ctx); err != nil {
				return WrapExitError(ExitFailure, "reset failed", err)
			}
			if opts.ClearLog {
				if err := s.store.ClearDrops(ctx); err != nil {
					return WrapExitError(ExitFailure, "failed to clear drop log", err)
				}
				s.logger.Info("drop log cleared")
			}

			return newFormatter(opts.RootOptions, cmd).Success(ResetResult{
				Board:      newBoardView(s.engine.Snapshot()),
				LogCleared: opts.ClearLog,
			})
		},
	}

	cmd.Flags().BoolVar(&opts.ClearLog, "clear-log", false, "also empty the drop log")

	return cmd
}
