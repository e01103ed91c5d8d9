package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balance/internal/testutil"
)

const testSession = "test-session-cli"

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs the CLI against db with a fixed session and an isolated
// environment. stdin may be nil.
func runCLI(t *testing.T, db string, stdin io.Reader, args ...string) cliResult {
	t.Helper()
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	opts := &RootOptions{SessionGenerator: testutil.NewFixedSessionGenerator(testSession)}
	if db != "" {
		args = append([]string{"--db", db}, args...)
	}
	code := execute(context.Background(), opts, args, stdin, stdout, stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// tempDB isolates the environment and returns a fresh database path.
func tempDB(t *testing.T) string {
	t.Helper()
	testutil.IsolateEnv(t)
	return filepath.Join(t.TempDir(), "balance.db")
}

type response[T any] struct {
	Status string    `json:"status"`
	Data   T         `json:"data"`
	Error  *CLIError `json:"error"`
}

func decode[T any](t *testing.T, out string) response[T] {
	t.Helper()
	var r response[T]
	require.NoError(t, json.Unmarshal([]byte(out), &r), "output: %s", out)
	return r
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "balance", cmd.Use)
	assert.Contains(t, cmd.Long, "net count")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"show", "drop", "reset", "export", "import", "log", "play", "test", "config"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "db", "variant"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "", f.DefValue, "%s defaults come from config", name)
	}
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		command string
		flag    string
		def     string
	}{
		{"reset", "clear-log", "false"},
		{"log", "limit", "20"},
		{"log", "session", ""},
		{"test", "update", "false"},
		{"test", "filter", ""},
		{"config init", "force", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			sub, _, err := cmd.Find(strings.Fields(tt.command))
			require.NoError(t, err)
			f := sub.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
}

func TestExecute_InvalidFormat(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "--format", "yaml", "show")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "invalid format")
	assert.Empty(t, res.stdout)
}

func TestExecute_UnknownCommand(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "shuffle")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "Error [E002]")
}

func TestExecute_WrongArgCount(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "drop", "red-stack")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "accepts 2 arg")
}

func TestExecute_JSONErrorOnStdout(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "--format", "json", "drop", "red-stak", "balance-area")

	assert.Equal(t, ExitCommandError, res.code)
	r := decode[any](t, res.stdout)
	assert.Equal(t, "error", r.Status)
	require.NotNil(t, r.Error)
	assert.Equal(t, CodeCommandError, r.Error.Code)
	assert.Contains(t, r.Error.Message, `did you mean "red-stack"`)
	assert.NotNil(t, r.Error.Details)
}

func TestExecute_BadConfigIsCommandError(t *testing.T) {
	testutil.IsolateEnv(t)
	res := runCLI(t, "", nil, "--config", filepath.Join(t.TempDir(), "missing.toml"), "show")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "failed to load config")
}
