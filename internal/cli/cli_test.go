package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes a fresh root command with the given args and returns
// stdout. Commands share the ledger file across invocations.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeGenesis(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "genesis.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
owner: "gym-operator"
verifiers: ["coach-a"]
`), 0o644))
	return path
}

func TestCLI_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "fitledger.db")
	genesis := writeGenesis(t, dir)

	out, err := runCLI(t, "--db", db, "init", "--genesis", genesis)
	require.NoError(t, err)
	assert.Contains(t, out, "gym-operator")

	// Double init is rejected.
	_, err = runCLI(t, "--db", db, "init", "--genesis", genesis)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")

	_, err = runCLI(t, "--db", db, "advance", "--caller", "gym-operator", "--by", "200")
	require.NoError(t, err)

	out, err = runCLI(t, "--db", db, "query", "height")
	require.NoError(t, err)
	assert.Equal(t, "200\n", out)

	_, err = runCLI(t, "--db", db, "workout", "record",
		"--caller", "alice", "--duration", "90", "--type", "running")
	require.NoError(t, err)

	out, err = runCLI(t, "--db", db, "workout", "verify",
		"--caller", "coach-a", "--user", "alice", "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "minted 11 tokens")

	out, err = runCLI(t, "--db", db, "query", "balance", "alice")
	require.NoError(t, err)
	assert.Equal(t, "11\n", out)

	_, err = runCLI(t, "--db", db, "transfer",
		"--caller", "alice", "--to", "bob", "--amount", "4")
	require.NoError(t, err)

	out, err = runCLI(t, "--db", db, "query", "balance", "bob")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	_, err = runCLI(t, "--db", db, "query", "invariants")
	require.NoError(t, err)
}

func TestCLI_ChallengeFlow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "fitledger.db")
	genesis := writeGenesis(t, dir)

	_, err := runCLI(t, "--db", db, "init", "--genesis", genesis)
	require.NoError(t, err)
	_, err = runCLI(t, "--db", db, "advance", "--caller", "gym-operator", "--by", "100")
	require.NoError(t, err)

	_, err = runCLI(t, "--db", db, "workout", "record",
		"--caller", "alice", "--duration", "90")
	require.NoError(t, err)
	_, err = runCLI(t, "--db", db, "workout", "verify",
		"--caller", "coach-a", "--user", "alice", "--id", "1")
	require.NoError(t, err)

	_, err = runCLI(t, "--db", db, "challenge", "create",
		"--caller", "coach-a", "--name", "spring sprint",
		"--start", "0", "--end", "10000", "--stake", "5")
	require.NoError(t, err)

	_, err = runCLI(t, "--db", db, "challenge", "join",
		"--caller", "alice", "--id", "1")
	require.NoError(t, err)

	_, err = runCLI(t, "--db", db, "challenge", "record",
		"--caller", "alice", "--id", "1", "--workout", "1")
	require.NoError(t, err)

	out, err := runCLI(t, "--db", db, "--format", "json",
		"query", "challenge", "1", "--user", "alice")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), data["reward_pool"])
	p, ok := data["participation"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), p["workouts_completed"])

	_, err = runCLI(t, "--db", db, "challenge", "end",
		"--caller", "gym-operator", "--id", "1")
	require.NoError(t, err)

	// Joining a closed challenge fails.
	_, err = runCLI(t, "--db", db, "challenge", "join",
		"--caller", "bob", "--id", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCLI_TraceTimeline(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "fitledger.db")
	genesis := writeGenesis(t, dir)

	_, err := runCLI(t, "--db", db, "init", "--genesis", genesis)
	require.NoError(t, err)
	_, err = runCLI(t, "--db", db, "register", "--caller", "alice")
	require.NoError(t, err)

	// A rejected call must not append to the trail.
	_, err = runCLI(t, "--db", db, "advance", "--caller", "alice", "--by", "1")
	require.Error(t, err)

	out, err := runCLI(t, "--db", db, "--format", "json", "trace")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	timeline, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, timeline, 2)

	first, ok := timeline[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "init", first["op"])
	second, ok := timeline[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "register_user", second["op"])
	assert.Equal(t, "alice", second["caller"])
}

func TestCLI_RejectionCarriesCode(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "fitledger.db")
	genesis := writeGenesis(t, dir)

	_, err := runCLI(t, "--db", db, "init", "--genesis", genesis)
	require.NoError(t, err)

	_, err = runCLI(t, "--db", db, "workout", "record",
		"--caller", "alice", "--duration", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_DURATION")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
