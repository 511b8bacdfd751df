package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenesis_Valid(t *testing.T) {
	src := []byte(`
owner: "owner-principal"
verifiers: ["vera", "victor"]
`)
	g, err := ParseGenesis("genesis.cue", src)
	require.NoError(t, err)
	assert.Equal(t, "owner-principal", g.Owner)
	assert.Equal(t, []string{"vera", "victor"}, g.Verifiers)
}

func TestParseGenesis_VerifiersOptional(t *testing.T) {
	g, err := ParseGenesis("genesis.cue", []byte(`owner: "solo"`))
	require.NoError(t, err)
	assert.Equal(t, "solo", g.Owner)
	assert.Empty(t, g.Verifiers)
}

func TestParseGenesis_Rejections(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing owner", `verifiers: ["vera"]`},
		{"empty owner", `owner: ""`},
		{"owner wrong type", `owner: 42`},
		{"empty verifier entry", `owner: "o", verifiers: ["vera", ""]`},
		{"verifiers wrong type", `owner: "o", verifiers: "vera"`},
		{"duplicate verifier", `owner: "o", verifiers: ["vera", "vera"]`},
		{"syntax error", `owner: "o" verifiers:`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGenesis("genesis.cue", []byte(tt.src))
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, "genesis.cue", loadErr.Path)
		})
	}
}

func TestLoadGenesis_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genesis.cue")
	require.NoError(t, os.WriteFile(path, []byte(`
owner: "owner-principal"
verifiers: ["vera"]
`), 0o644))

	g, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "owner-principal", g.Owner)
	assert.Equal(t, []string{"vera"}, g.Verifiers)
}

func TestLoadGenesis_MissingFile(t *testing.T) {
	_, err := LoadGenesis(filepath.Join(t.TempDir(), "absent.cue"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}
