package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "fitledger", cmd.Use)
	assert.Contains(t, cmd.Long, "fitness ledger")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"init", "advance", "register", "transfer", "workout", "verifier", "challenge", "query", "trace"}

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

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "fitledger.db", dbFlag.DefValue)
}

func TestWorkoutCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	recordCmd, _, err := cmd.Find([]string{"workout", "record"})
	require.NoError(t, err)
	require.NotNil(t, recordCmd.Flags().Lookup("caller"))
	require.NotNil(t, recordCmd.Flags().Lookup("duration"))
	require.NotNil(t, recordCmd.Flags().Lookup("type"))

	verifyCmd, _, err := cmd.Find([]string{"workout", "verify"})
	require.NoError(t, err)
	require.NotNil(t, verifyCmd.Flags().Lookup("user"))
	require.NotNil(t, verifyCmd.Flags().Lookup("id"))
}

func TestChallengeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	createCmd, _, err := cmd.Find([]string{"challenge", "create"})
	require.NoError(t, err)
	for _, name := range []string{"caller", "name", "description", "start", "end", "stake"} {
		require.NotNil(t, createCmd.Flags().Lookup(name), "flag %s should exist", name)
	}

	recordCmd, _, err := cmd.Find([]string{"challenge", "record"})
	require.NoError(t, err)
	require.NotNil(t, recordCmd.Flags().Lookup("workout"))
}

func TestTraceCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	traceCmd, _, err := cmd.Find([]string{"trace"})
	require.NoError(t, err)

	require.NotNil(t, traceCmd.Flags().Lookup("caller"))
	limitFlag := traceCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "0", limitFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "query", "height"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
