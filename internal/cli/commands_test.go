package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/balance/internal/store"
	"github.com/roach88/balance/internal/testutil"
)

const defaultRecord = `{"blueBalanceCount":"0","blueStackCount":"3","hasPersistedData":"true","netCount":"0","redBalanceCount":"0","redStackCount":"3"}`

func TestShow_FreshBoard(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "show")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "variant: balance")
	assert.Contains(t, res.stdout, "red#1 red#2 red#3")
	assert.Contains(t, res.stdout, "blue#4 blue#5 blue#6")
	assert.Contains(t, res.stdout, "(empty)")
	assert.Contains(t, res.stdout, "red=0 blue=0 net=+0 (zero)")
}

func TestShow_JSON(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "--format", "json", "--variant", "two-area", "show")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	r := decode[BoardView](t, res.stdout)
	assert.Equal(t, "ok", r.Status)
	assert.Equal(t, "two-area", string(r.Data.Variant))
	require.Len(t, r.Data.Containers, 4)
	assert.Equal(t, "red-area", string(r.Data.Containers[1].ID))
	assert.Equal(t, "single-color-area", r.Data.Containers[1].Kind)
	assert.Empty(t, r.Data.Containers[1].Tokens)
	assert.Equal(t, []string{"red#1", "red#2", "red#3"}, r.Data.Containers[0].Tokens)
}

func TestShow_VariantFromConfigFile(t *testing.T) {
	db := tempDB(t)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[board]\nvariant = \"two-area\"\nstack_size = 2\n"), 0o644))

	res := runCLI(t, db, nil, "--config", cfg, "show")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "variant: two-area")
	assert.Contains(t, res.stdout, "red-area:")
	assert.Contains(t, res.stdout, "red#1 red#2\n")
}

func TestDrop_MovesAndPersists(t *testing.T) {
	db := tempDB(t)

	res := runCLI(t, db, nil, "drop", "red-stack", "balance-area")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "drop 1: red#3 red-stack -> balance-area moved; red=1 blue=0 net=-1 (negative)\n", res.stdout)

	res = runCLI(t, db, nil, "show")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "red=1 blue=0 net=-1 (negative)")
}

func TestDrop_CancelAcrossRuns(t *testing.T) {
	db := tempDB(t)

	require.Equal(t, ExitSuccess, runCLI(t, db, nil, "drop", "red-stack", "balance-area").code)

	res := runCLI(t, db, nil, "drop", "blue-stack", "balance-area")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "cancelled; red=0 blue=0 net=+0 (zero)")
	// The seq continues from the drop log of the previous run.
	assert.True(t, strings.HasPrefix(res.stdout, "drop 2: "), res.stdout)
}

func TestDrop_JSON(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "--format", "json", "drop", "blue-stack", "balance-area")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	r := decode[map[string]any](t, res.stdout)
	assert.Equal(t, "ok", r.Status)
	assert.Equal(t, float64(1), r.Data["seq"])
	assert.Equal(t, testSession, r.Data["session"])
	assert.Equal(t, "blue#6", r.Data["token"])
	assert.Equal(t, "blue-stack", r.Data["source"])
	assert.Equal(t, map[string]any{"moved": true, "cancelled": false}, r.Data["outcome"])
	assert.Equal(t, map[string]any{"red": float64(0), "blue": float64(1), "net": float64(1), "netClass": "positive"}, r.Data["counts"])
	assert.Len(t, r.Data["digest"], 64)
}

func TestDrop_RejectedIsNotAnError(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "--variant", "two-area", "drop", "red-stack", "blue-area")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "rejected")
	assert.Contains(t, res.stdout, "red=0 blue=0 net=+0 (zero)")
}

func TestDrop_UnknownContainerSuggests(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "drop", "blu-stack", "balance-area")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, `unknown container "blu-stack"`)
	assert.Contains(t, res.stderr, `did you mean "blue-stack"?`)
}

func TestDrop_UnknownSourceNormalizedAndNotLogged(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "--format", "json", "drop", "  Red-Area ", "balance-area")

	assert.Equal(t, ExitCommandError, res.code)
	r := decode[any](t, res.stdout)
	require.NotNil(t, r.Error)
	assert.Contains(t, r.Error.Message, `unknown container "red-area" in the balance variant`)
	assert.NotNil(t, r.Error.Details)

	res = runCLI(t, db, nil, "log")
	assert.Contains(t, res.stdout, "No drops logged.")

	res = runCLI(t, db, nil, "drop", " RED-STACK", "balance-area")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
}

func TestDrop_ContainerFromOtherVariant(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "drop", "red-stack", "red-area")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "in the balance variant")
}

func TestDrop_EmptySourceFails(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "drop", "balance-area", "red-stack")

	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "container is empty")

	// Nothing was logged.
	res = runCLI(t, db, nil, "log")
	assert.Contains(t, res.stdout, "No drops logged.")
}

func TestLog_ListsDropsOldestFirst(t *testing.T) {
	db := tempDB(t)
	runCLI(t, db, nil, "drop", "red-stack", "balance-area")
	runCLI(t, db, nil, "drop", "red-stack", "balance-area")
	runCLI(t, db, nil, "drop", "blue-stack", "balance-area")

	res := runCLI(t, db, nil, "--format", "json", "log")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	r := decode[LogResult](t, res.stdout)
	require.Len(t, r.Data.Entries, 3)
	for i, e := range r.Data.Entries {
		assert.Equal(t, int64(i+1), e.Seq)
		assert.Equal(t, testSession, e.Session)
	}
	assert.True(t, r.Data.Entries[2].Cancelled)
	assert.Equal(t, "blue", r.Data.Entries[2].Color)

	res = runCLI(t, db, nil, "log", "--limit", "1")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "blue#6 blue-stack -> balance-area cancelled")
}

func TestLog_FilterBySession(t *testing.T) {
	db := tempDB(t)
	runCLI(t, db, nil, "drop", "red-stack", "balance-area")

	res := runCLI(t, db, nil, "--format", "json", "log", "--session", "someone-else")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Empty(t, decode[LogResult](t, res.stdout).Data.Entries)

	res = runCLI(t, db, nil, "--format", "json", "log", "--session", testSession)
	assert.Len(t, decode[LogResult](t, res.stdout).Data.Entries, 1)
}

func TestLog_NegativeLimit(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "log", "--limit", "-1")
	assert.Equal(t, ExitCommandError, res.code)
}

func TestReset_KeepsLogUnlessCleared(t *testing.T) {
	db := tempDB(t)
	runCLI(t, db, nil, "drop", "red-stack", "balance-area")

	res := runCLI(t, db, nil, "reset")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "red=0 blue=0 net=+0 (zero)")
	assert.NotContains(t, res.stdout, "drop log cleared")

	res = runCLI(t, db, nil, "--format", "json", "log")
	assert.Len(t, decode[LogResult](t, res.stdout).Data.Entries, 1)

	res = runCLI(t, db, nil, "reset", "--clear-log")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "drop log cleared")

	res = runCLI(t, db, nil, "--format", "json", "log")
	assert.Empty(t, decode[LogResult](t, res.stdout).Data.Entries)
}

func TestExport_DefaultRecord(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "export")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, defaultRecord+"\n", res.stdout)
}

func TestExport_JSONHasDigest(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "--format", "json", "export")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	r := decode[ExportResult](t, res.stdout)
	assert.Equal(t, "true", r.Data.Record["hasPersistedData"])
	assert.Len(t, r.Data.Digest, 64)
}

func TestExport_VerbosePrintsDigestToStderr(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "-v", "export")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	assert.Equal(t, defaultRecord+"\n", res.stdout)
	assert.Contains(t, res.stderr, "digest: ")
}

func TestImport_FromFile(t *testing.T) {
	db := tempDB(t)
	file := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"hasPersistedData":"true","redStackCount":"3","blueStackCount":"1","netCount":"2"}`), 0o644))

	res := runCLI(t, db, nil, "import", file)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "red=0 blue=2 net=+2 (positive)")

	res = runCLI(t, db, nil, "show")
	assert.Contains(t, res.stdout, "net=+2 (positive)")
}

func TestImport_RoundTripThroughStdin(t *testing.T) {
	src := tempDB(t)
	dst := filepath.Join(t.TempDir(), "other.db")

	runCLI(t, src, nil, "drop", "red-stack", "balance-area")
	runCLI(t, src, nil, "drop", "red-stack", "balance-area")
	exported := runCLI(t, src, nil, "export")
	require.Equal(t, ExitSuccess, exported.code, exported.stderr)

	res := runCLI(t, dst, strings.NewReader(exported.stdout), "import", "-")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	assert.Equal(t, exported.stdout, runCLI(t, dst, nil, "export").stdout)
	assert.Contains(t, runCLI(t, dst, nil, "show").stdout, "red=2 blue=0 net=-2 (negative)")
}

func TestImport_OversizedCountsFallBack(t *testing.T) {
	db := tempDB(t)
	body := `{"hasPersistedData":"true","redStackCount":"999999999999","blueStackCount":"2","redBalanceCount":"0","blueBalanceCount":"1000000"}`

	res := runCLI(t, db, strings.NewReader(body), "--format", "json", "import", "-")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	r := decode[ImportResult](t, res.stdout)
	assert.Equal(t, 0, r.Data.Board.Counts.Net)
	for _, c := range r.Data.Board.Containers {
		switch c.ID {
		case "red-stack":
			assert.Len(t, c.Tokens, 3)
		case "blue-stack":
			assert.Len(t, c.Tokens, 2)
		case "balance-area":
			assert.Empty(t, c.Tokens)
		}
	}

	exported := runCLI(t, db, nil, "export")
	assert.Contains(t, exported.stdout, `"redStackCount":"3"`)
	assert.Contains(t, exported.stdout, `"blueStackCount":"2"`)
}

func TestImport_ListsIgnoredKeys(t *testing.T) {
	db := tempDB(t)
	body := `{"hasPersistedData":"true","redCount":"2","theme":"dark"}`

	res := runCLI(t, db, strings.NewReader(body), "import", "-")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ignored keys: redCount, theme")
}

func TestImport_InvalidJSON(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, strings.NewReader("[1, 2]"), "import", "-")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "invalid record")
}

func TestImport_MissingFile(t *testing.T) {
	db := tempDB(t)
	res := runCLI(t, db, nil, "import", filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, ExitCommandError, res.code)
}

func TestSession_UsesConfiguredDatabase(t *testing.T) {
	testutil.IsolateEnv(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "nested", "dir", "balance.db")
	t.Setenv("BALANCE_DATABASE_PATH", db)

	res := runCLI(t, "", nil, "drop", "red-stack", "balance-area")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	rec, err := st.LoadRecord(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "-1", rec["netCount"])
}
