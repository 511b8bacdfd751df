package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitFailure, "rejected")
	assert.Equal(t, "rejected", err.Error())
	assert.Equal(t, ExitFailure, GetExitCode(err))

	wrapped := WrapExitError(ExitCommandError, "open failed", errors.New("no such file"))
	assert.Equal(t, "open failed: no such file", wrapped.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))

	// Exit code survives further wrapping.
	outer := fmt.Errorf("context: %w", wrapped)
	assert.Equal(t, ExitCommandError, GetExitCode(outer))

	// Non-ExitErrors map to the generic failure code.
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestOutputFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Success(map[string]interface{}{"height": 42}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), data["height"])
}

func TestOutputFormatter_TextFormatted(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Successf(map[string]interface{}{"height": 42}, "height advanced to %d", 42))
	assert.Equal(t, "height advanced to 42\n", buf.String())
}

func TestOutputFormatter_SuccessfJSONIgnoresText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Successf(map[string]interface{}{"ok": true}, "ignored %d", 1))
	assert.NotContains(t, buf.String(), "ignored")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}
