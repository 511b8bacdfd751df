package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios and
// compares the audit trail against its golden file.
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Passed, "failures: %v", result.Errors)
		})
	}
}

func runInline(t *testing.T, src string) *Result {
	t.Helper()
	scenario, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	result, err := Run(scenario)
	require.NoError(t, err)
	return result
}

func TestRun_ExpectedRejectionMatches(t *testing.T) {
	result := runInline(t, `
name: rejection-match
description: a too-short workout is rejected with the expected code
genesis:
  owner: owner
flow:
  - op: record_workout
    caller: alice
    args: {duration: 10}
    expect:
      error: INVALID_DURATION
`)
	assert.True(t, result.Passed, "failures: %v", result.Errors)
	// Only init committed.
	require.Len(t, result.Trace, 1)
	assert.Equal(t, "init", result.Trace[0].Op)
}

func TestRun_UnexpectedSuccessFails(t *testing.T) {
	result := runInline(t, `
name: unexpected-success
description: expecting a rejection that does not happen fails the run
genesis:
  owner: owner
flow:
  - op: register_user
    caller: alice
    expect:
      error: NOT_AUTHORIZED
`)
	assert.False(t, result.Passed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected rejection NOT_AUTHORIZED")
}

func TestRun_WrongRejectionCodeFails(t *testing.T) {
	result := runInline(t, `
name: wrong-code
description: a rejection with a different code fails the run
genesis:
  owner: owner
flow:
  - op: advance_height
    caller: mallory
    args: {delta: 1}
    expect:
      error: INSUFFICIENT_TOKENS
`)
	assert.False(t, result.Passed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "NOT_AUTHORIZED")
}

func TestRun_ResultMismatchFails(t *testing.T) {
	result := runInline(t, `
name: result-mismatch
description: a wrong expected result field fails the run
genesis:
  owner: owner
flow:
  - op: advance_height
    caller: owner
    args: {delta: 5}
    expect:
      result: {height: 6}
`)
	assert.False(t, result.Passed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `field "height"`)
}

func TestRun_AssertionFailureReported(t *testing.T) {
	result := runInline(t, `
name: assertion-failure
description: a wrong balance expectation fails the run
genesis:
  owner: owner
flow:
  - op: register_user
    caller: alice
assertions:
  - type: balance
    principal: alice
    amount: 99
`)
	assert.False(t, result.Passed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "balance of alice is 0, want 99")
}

func TestRun_UnknownOpIsScenarioBug(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: unknown-op
description: an op the engine does not know aborts the run
genesis:
  owner: owner
flow:
  - op: levitate
    caller: alice
`))
	require.NoError(t, err)

	_, err = Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown op "levitate"`)
}

func TestRun_MissingArgIsScenarioBug(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: missing-arg
description: a missing argument aborts the run
genesis:
  owner: owner
flow:
  - op: transfer_tokens
    caller: alice
    args: {amount: 5}
`))
	require.NoError(t, err)

	_, err = Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing arg "recipient"`)
}
