// Package config loads balance settings from a TOML file, BALANCE_ env
// vars and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/record"
)

// EnvPrefix prefixes every environment override, e.g. BALANCE_BOARD_VARIANT.
const EnvPrefix = "BALANCE"

// MaxStackSize bounds board.stack_size. It matches the largest count a
// persisted record may hold.
const MaxStackSize = record.MaxCount

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database"`
	Board    BoardConfig    `mapstructure:"board" toml:"board" json:"board"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-" toml:"-" json:"-"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// BoardConfig selects the board layout.
type BoardConfig struct {
	Variant   string `mapstructure:"variant" toml:"variant" json:"variant"`
	StackSize int    `mapstructure:"stack_size" toml:"stack_size" json:"stack_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level" json:"level"`
	File  string `mapstructure:"file" toml:"file" json:"file"`
	JSON  bool   `mapstructure:"json" toml:"json" json:"json"`

	// Journal also sends records to the systemd journal when available.
	Journal bool `mapstructure:"journal" toml:"journal" json:"journal"`
}

// FlagBindings maps config keys to the flag that overrides them.
// A flag only overrides when it was set on the command line.
var FlagBindings = map[string]string{
	"database.path": "db",
	"board.variant": "variant",
}

// ValidationError reports a config value that cannot be used.
type ValidationError struct {
	Key   string
	Value any
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s=%v: %s", e.Key, e.Value, e.Msg)
}

// Load reads configuration.
//
// path is the config file to read; if empty, BALANCE_CONFIG is tried and then
// config.toml under the user config dir. An explicit file must exist; the
// default one is optional. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("board.variant", string(board.VariantBalance))
	v.SetDefault("board.stack_size", board.DefaultStackSize)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.journal", false)

	v.SetConfigType("toml")

	explicit := path
	if explicit == "" {
		explicit = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(defaultConfigDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for key, name := range FlagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.File = v.ConfigFileUsed()

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks every value Load cannot coerce on its own.
func (c Config) Validate() error {
	if _, err := board.ParseVariant(c.Board.Variant); err != nil {
		return &ValidationError{Key: "board.variant", Value: c.Board.Variant, Msg: err.Error()}
	}
	if c.Board.StackSize < 0 || c.Board.StackSize > MaxStackSize {
		return &ValidationError{
			Key:   "board.stack_size",
			Value: c.Board.StackSize,
			Msg:   fmt.Sprintf("must be between 0 and %d", MaxStackSize),
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Key: "log.level", Value: c.Log.Level, Msg: "must be one of debug, info, warn, error"}
	}
	if c.Database.Path == "" {
		return &ValidationError{Key: "database.path", Value: c.Database.Path, Msg: "must not be empty"}
	}
	return nil
}

// Variant returns the parsed board variant. Call after Validate.
func (c Config) Variant() board.Variant {
	v, err := board.ParseVariant(c.Board.Variant)
	if err != nil {
		return board.VariantBalance
	}
	return v
}

// DefaultDatabasePath is $XDG_DATA_HOME/balance/balance.db, falling back to
// ~/.local/share.
func DefaultDatabasePath() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		dir = filepath.Join(homeDir(), ".local", "share")
	}
	return filepath.Join(dir, "balance", "balance.db")
}

// DefaultConfigPath is the config file Load reads when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(defaultConfigDir(), "config.toml")
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "balance")
	}
	return filepath.Join(homeDir(), ".config", "balance")
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}
