package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/balance/internal/engine"
)

// DropResult is the drop payload.
type DropResult struct {
	engine.Update
	Token string `json:"token"`
}

// RenderText prints the drop as one trace line.
func (r DropResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "drop %d: %s %s -> %s %s; %s\n",
		r.Seq, r.Token, r.Source, r.Intent.Target, r.Outcome, r.Counts)
}

// NewDropCommand creates the drop command.
func NewDropCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <from> <to>",
		Short: "Drag the top token of one container onto another",
		Long: `Drag the top token of <from> and drop it on <to>.

A rejected drop is not an error: the board is unchanged and the outcome
is reported as "rejected".

Containers:
  balance variant:  red-stack, blue-stack, balance-area
  two-area variant: red-stack, blue-stack, red-area, blue-area

Exit codes:
  0 - Drop processed (moved, cancelled or rejected)
  1 - Source container is empty, or the result could not be saved
  2 - Unknown container

Example:
  balance drop red-stack balance-area
  balance drop blue-stack balance-area --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, cmd, opts, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			// The target is checked up front because Resolve would only
			// reject it; DragTop reports a bad source itself.
			snap := s.engine.Snapshot()
			to, err := parseContainer(snap, args[1])
			if err != nil {
				return err
			}

			intent, err := engine.DragTop(snap, normalizeTag(args[0]), to)
			if id, ok := engine.IsUnknownContainer(err); ok {
				return unknownContainer(snap, id)
			}
			if errors.Is(err, engine.ErrEmptyContainer) {
				return WrapExitError(ExitFailure, "nothing to drag", err)
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "nothing to drag", err)
			}

			upd, err := s.engine.Drop(ctx, intent)
			if err != nil {
				return WrapExitError(ExitFailure, "drop failed", err)
			}

			return newFormatter(opts, cmd).Success(DropResult{Update: upd, Token: upd.Token.String()})
		},
	}
}
