package testutil

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/logs"
	"github.com/roach88/balance/internal/store"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return logs.Discard()
}

// OpenMemoryStore opens a private in-memory store closed at test cleanup.
func OpenMemoryStore(t testing.TB) *store.Store {
	t.Helper()
	st, err := store.Open(store.MemoryPath)
	require.NoError(t, err, "open in-memory store")
	t.Cleanup(func() { st.Close() })
	return st
}

// Move is one forced token placement used to arrange a board.
type Move struct {
	Token board.TokenID
	To    board.ContainerID
}

// Board builds a default board and applies moves without any drop rules.
// It fails the test if a move names an unknown token or container.
func Board(t testing.TB, v board.Variant, stackSize int, moves ...Move) *board.State {
	t.Helper()
	s := board.Default(v, stackSize)
	for _, m := range moves {
		require.True(t, s.Move(m.Token, m.To), "move %d to %s", m.Token, m.To)
	}
	return s
}

// IsolateEnv points HOME and the XDG dirs at a temp dir and blanks every
// BALANCE_ variable, so config loading sees only what the test sets up.
// Returns the fake home directory.
func IsolateEnv(t testing.TB) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	for _, k := range []string{
		"BALANCE_CONFIG",
		"BALANCE_DATABASE_PATH",
		"BALANCE_BOARD_VARIANT",
		"BALANCE_BOARD_STACK_SIZE",
		"BALANCE_LOG_LEVEL",
		"BALANCE_LOG_FILE",
		"BALANCE_LOG_JSON",
		"BALANCE_LOG_JOURNAL",
	} {
		t.Setenv(k, "")
	}
	return home
}
