package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/view"
)

// ContainerView is one container as printed by show.
type ContainerView struct {
	ID     board.ContainerID `json:"id"`
	Kind   string            `json:"kind"`
	Tokens []string          `json:"tokens"`
}

// BoardView is the show payload.
type BoardView struct {
	Variant    board.Variant   `json:"variant"`
	Containers []ContainerView `json:"containers"`
	Counts     view.Counts     `json:"counts"`
}

func newBoardView(s *board.State) BoardView {
	bv := BoardView{
		Variant:    s.Variant(),
		Containers: make([]ContainerView, 0, len(s.Containers())),
		Counts:     view.CountsOf(s),
	}
	for _, c := range s.Containers() {
		members := c.Members()
		tokens := make([]string, len(members))
		for i, t := range members {
			tokens[i] = t.String()
		}
		bv.Containers = append(bv.Containers, ContainerView{ID: c.ID, Kind: c.Kind.String(), Tokens: tokens})
	}
	return bv
}

// RenderText prints one line per container followed by the counts.
func (bv BoardView) RenderText(w io.Writer) {
	width := 0
	for _, c := range bv.Containers {
		width = max(width, len(c.ID))
	}

	fmt.Fprintf(w, "variant: %s\n", bv.Variant)
	for _, c := range bv.Containers {
		tokens := "(empty)"
		if len(c.Tokens) > 0 {
			tokens = strings.Join(c.Tokens, " ")
		}
		fmt.Fprintf(w, "  %-*s  %s\n", width+1, string(c.ID)+":", tokens)
	}
	fmt.Fprintln(w, bv.Counts)
}

// NewShowCommand creates the show command.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the board and its counts",
		Long: `Print every container of the persisted board, top token last,
followed by the red, blue and net counts.

Example:
  balance show
  balance show --variant two-area --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, opts, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			return newFormatter(opts, cmd).Success(newBoardView(s.engine.Snapshot()))
		},
	}
}
