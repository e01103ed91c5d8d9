package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/roach88/balance/internal/engine"
	"github.com/roach88/balance/internal/tui"
)

// NewPlayCommand creates the play command.
func NewPlayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open the interactive board",
		Long: `Open the board in the terminal.

Move between containers with ←/→, press enter to pick up the top token
and enter again to drop it on the container under the cursor. Esc puts a
picked-up token back. Every drop is saved as it happens.

Logs go to log.file while the board owns the terminal.

Example:
  balance play
  balance play --variant two-area`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}
}

func runPlay(cmd *cobra.Command, opts *RootOptions) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// The hook runs on the engine goroutine and needs the program, which
	// needs the engine; prog is set before the engine starts.
	var prog *tea.Program
	hook := func(u engine.Update) {
		prog.Send(tui.UpdateMsg(u))
	}

	s, err := openSession(ctx, cmd, opts, sessionOptions{quiet: true, hook: hook})
	if err != nil {
		return err
	}
	defer s.Close()

	prog = tea.NewProgram(tui.New(ctx, s.engine),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)

	done := make(chan error, 1)
	go func() {
		done <- s.engine.Run(ctx)
	}()

	_, runErr := prog.Run()

	// Let queued drops finish so nothing the player saw is lost.
	s.engine.Stop()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("engine stopped with error", "error", err)
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return WrapExitError(ExitFailure, "interactive session failed", runErr)
	}
	return nil
}
