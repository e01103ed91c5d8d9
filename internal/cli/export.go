package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/balance/internal/record"
	"github.com/roach88/balance/internal/view"
)

// ExportResult is the export payload.
type ExportResult struct {
	Record record.Record `json:"record"`
	Digest string        `json:"digest"`

	canonical []byte
}

// RenderText prints the canonical record alone so it can be piped to import.
func (r ExportResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "%s\n", r.canonical)
}

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the persisted record as canonical JSON",
		Long: `Print the record of the current board as canonical JSON: sorted keys,
no insignificant whitespace, NFC-normalized strings.

Use --format json to also get the record digest.

Example:
  balance export > board.json
  balance export --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, opts, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			rec := record.Save(s.engine.Snapshot())
			canonical, err := record.MarshalCanonical(rec)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to encode record", err)
			}
			digest, err := record.Digest(rec)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to digest record", err)
			}

			f := newFormatter(opts, cmd)
			f.VerboseLog("digest: %s", digest)
			return f.Success(ExportResult{Record: rec, Digest: digest, canonical: canonical})
		},
	}
}

// ImportResult is the import payload.
type ImportResult struct {
	Board  BoardView `json:"board"`
	Digest string    `json:"digest"`

	// Ignored lists record keys the board variant does not use.
	Ignored []string `json:"ignored,omitempty"`
}

// RenderText prints the imported board.
func (r ImportResult) RenderText(w io.Writer) {
	r.Board.RenderText(w)
	if len(r.Ignored) > 0 {
		fmt.Fprintf(w, "ignored keys: %s\n", strings.Join(r.Ignored, ", "))
	}
}

// NewImportCommand creates the import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the persisted board with a JSON record",
		Long: `Read a record written by export (or any flat JSON object of counts)
and make it the persisted board.

The record goes through the same restore rules as a normal start: missing,
malformed or out-of-range counts fall back to defaults, and a balance area
holding both colors is reduced to its net. Keys the variant does not use
are ignored and listed.

Example:
  balance import board.json
  balance export | balance --db other.db import -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read record", err)
			}
			rec, err := record.ParseJSON(data)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid record", err)
			}

			ctx := cmd.Context()
			s, err := openSession(ctx, cmd, opts, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.Close()

			state := record.LoadSized(rec, s.variant, s.cfg.Board.StackSize)
			normalized := record.Save(state)
			if err := s.store.SaveRecord(ctx, normalized); err != nil {
				return WrapExitError(ExitFailure, "failed to save record", err)
			}
			digest, err := record.Digest(normalized)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to digest record", err)
			}

			counts := view.CountsOf(state)
			s.logger.Info("record imported", "source", args[0], "net", counts.Net, "digest", digest)

			return newFormatter(opts, cmd).Success(ImportResult{
				Board:   newBoardView(state),
				Digest:  digest,
				Ignored: record.Unknown(rec, s.variant),
			})
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
