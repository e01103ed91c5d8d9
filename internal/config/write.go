package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/roach88/balance/internal/board"
)

// ErrExists is returned by WriteFile when the target exists and force is off.
var ErrExists = errors.New("config file already exists")

const fileHeader = `# balance configuration
#
# Every key can be overridden with a BALANCE_ environment variable,
# e.g. BALANCE_BOARD_VARIANT=two-area, and database.path / board.variant
# also by the --db and --variant flags.

`

// Defaults returns the configuration Load produces with no file, env or flags.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{Path: DefaultDatabasePath()},
		Board:    BoardConfig{Variant: string(board.VariantBalance), StackSize: board.DefaultStackSize},
		Log:      LogConfig{Level: "info"},
	}
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// WriteFile writes c to path with a commented header, creating parent
// directories. An existing file is only replaced when force is set.
func WriteFile(path string, c Config, force bool) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := c.Encode(&buf); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
