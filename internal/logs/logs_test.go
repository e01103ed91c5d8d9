package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_TerminalRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Terminal: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("drop resolved", "seq", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "drop resolved")
	assert.Contains(t, out, "seq=1")
}

func TestNew_FanOutToJSONFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "balance.log")

	logger, closer, err := New(Options{Level: "debug", Terminal: &buf, File: path, JSON: true})
	require.NoError(t, err)

	logger.Debug("drop resolved", "outcome", "cancelled")
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), "outcome=cancelled")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "drop resolved", rec["msg"])
	assert.Equal(t, "cancelled", rec["outcome"])
	assert.Equal(t, "DEBUG", rec["level"])
}

func TestNew_FileOnlyAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.log")

	for i := 0; i < 2; i++ {
		logger, closer, err := New(Options{File: path})
		require.NoError(t, err)
		logger.Info("session")
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "msg=session"))
}

func TestNew_NoSinksDiscards(t *testing.T) {
	logger, closer, err := New(Options{})
	require.NoError(t, err)
	require.NotNil(t, closer)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "verbose"})
	assert.Error(t, err)
}

func TestNew_JournalNeverFails(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Terminal: &buf, Journal: true})
	require.NoError(t, err)
	defer closer.Close()
	logger.Info("started")
	assert.Contains(t, buf.String(), "started")
}

func TestJournalKey(t *testing.T) {
	assert.Equal(t, "STACK_SIZE", journalKey("stack_size"))
	assert.Equal(t, "NET_CLASS", journalKey("net.class"))
	assert.Equal(t, "SEQ2", journalKey("Seq2"))
}
