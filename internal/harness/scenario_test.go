package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: smallest valid scenario
genesis:
  owner: owner
flow:
  - op: register_user
    caller: alice
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, "owner", s.Genesis.Owner)
	require.Len(t, s.Flow, 1)
	assert.Equal(t, "register_user", s.Flow[0].Op)
	assert.Nil(t, s.Flow[0].Expect)
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	src := `
name: typo
description: assertion instead of assertions
genesis:
  owner: owner
flow:
  - op: register_user
    caller: alice
assertion:
  - type: supply
`
	_, err := ParseScenario([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  string
		wantErr string
	}{
		{
			"missing name",
			`
description: d
genesis: {owner: o}
flow: [{op: register_user, caller: a}]
`,
			"name is required",
		},
		{
			"missing owner",
			`
name: n
description: d
genesis: {verifiers: [v]}
flow: [{op: register_user, caller: a}]
`,
			"genesis.owner is required",
		},
		{
			"empty flow",
			`
name: n
description: d
genesis: {owner: o}
flow: []
`,
			"flow list is required",
		},
		{
			"step without caller",
			`
name: n
description: d
genesis: {owner: o}
flow: [{op: register_user}]
`,
			"caller is required",
		},
		{
			"error and result together",
			`
name: n
description: d
genesis: {owner: o}
flow:
  - op: record_workout
    caller: a
    args: {duration: 60}
    expect:
      error: INVALID_DURATION
      result: {workout_id: 1}
`,
			"mutually exclusive",
		},
		{
			"unknown assertion type",
			`
name: n
description: d
genesis: {owner: o}
flow: [{op: register_user, caller: a}]
assertions: [{type: nonsense}]
`,
			"unknown assertion type",
		},
		{
			"balance without principal",
			`
name: n
description: d
genesis: {owner: o}
flow: [{op: register_user, caller: a}]
assertions: [{type: balance, amount: 5}]
`,
			"principal is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.mutate))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestScenarioFixturesParse(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)
			assert.NotEmpty(t, s.Assertions)
		})
	}
}
