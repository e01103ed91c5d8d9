package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/balance/internal/config"
)

// ConfigResult is the payload of config show.
type ConfigResult struct {
	File   string        `json:"file,omitempty"`
	Config config.Config `json:"config"`
}

// RenderText prints the effective config as TOML.
func (r ConfigResult) RenderText(w io.Writer) {
	if r.File != "" {
		fmt.Fprintf(w, "# read from %s\n", r.File)
	} else {
		fmt.Fprintln(w, "# no config file, defaults and environment only")
	}
	if err := r.Config.Encode(w); err != nil {
		fmt.Fprintf(w, "# %v\n", err)
	}
}

// ConfigInitResult is the payload of config init.
type ConfigInitResult struct {
	Path string `json:"path"`
}

// RenderText prints where the file went.
func (r ConfigInitResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "wrote %s\n", r.Path)
}

// NewConfigCommand creates the config command and its subcommands.
func NewConfigCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newConfigShowCommand(opts))
	cmd.AddCommand(newConfigInitCommand(opts))

	return cmd
}

func newConfigShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after the config file, BALANCE_ environment
variables and flags have been applied.

Example:
  balance config show
  BALANCE_BOARD_VARIANT=two-area balance config show --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigFile, cmd.Flags())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			return newFormatter(opts, cmd).Success(ConfigResult{File: cfg.File, Config: cfg})
		},
	}
}

func newConfigInitCommand(opts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write the default configuration to --config, BALANCE_CONFIG or
$XDG_CONFIG_HOME/balance/config.toml. --db and --variant are applied to
the written file. An existing file is kept unless --force is given.

Example:
  balance config init
  balance config init --variant two-area --force`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.ConfigFile
			if path == "" {
				path = os.Getenv(config.EnvPrefix + "_CONFIG")
			}
			if path == "" {
				path = config.DefaultConfigPath()
			}

			cfg := config.Defaults()
			if opts.Database != "" {
				cfg.Database.Path = opts.Database
			}
			if opts.Variant != "" {
				cfg.Board.Variant = opts.Variant
			}

			err := config.WriteFile(path, cfg, force)
			switch {
			case errors.Is(err, config.ErrExists):
				return &ExitError{
					Code:    ExitFailure,
					Message: fmt.Sprintf("%s already exists (use --force to overwrite)", path),
					Err:     err,
				}
			case err != nil:
				var verr *config.ValidationError
				if errors.As(err, &verr) {
					return WrapExitError(ExitCommandError, "invalid config", err)
				}
				return WrapExitError(ExitFailure, "failed to write config", err)
			}

			return newFormatter(opts, cmd).Success(ConfigInitResult{Path: path})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
