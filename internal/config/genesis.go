// Package config loads and validates host-supplied configuration files.
// Genesis files are written in CUE and checked against an embedded schema
// before the ledger is initialized from them.
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/fitledger/fitledger/internal/engine"
)

// genesisSchema constrains a genesis file. The owner principal is
// required and non-empty; the verifier set is optional.
const genesisSchema = `
{
	owner: string & !=""
	verifiers?: [...string & !=""]
}
`

// LoadError describes a genesis file that failed to load or validate.
type LoadError struct {
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// LoadGenesis reads a CUE genesis file and returns the validated
// initialization parameters.
func LoadGenesis(path string) (engine.Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Genesis{}, &LoadError{Path: path, Message: fmt.Sprintf("reading genesis file: %v", err)}
	}
	return ParseGenesis(path, data)
}

// ParseGenesis validates raw CUE source against the genesis schema and
// decodes it. The path is used only for error reporting.
func ParseGenesis(path string, data []byte) (engine.Genesis, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(genesisSchema)
	if err := schema.Err(); err != nil {
		return engine.Genesis{}, &LoadError{Path: path, Message: fmt.Sprintf("compiling genesis schema: %v", err)}
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return engine.Genesis{}, &LoadError{Path: path, Message: fmt.Sprintf("compiling genesis file: %v", err)}
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return engine.Genesis{}, &LoadError{Path: path, Message: fmt.Sprintf("validating genesis file: %v", err)}
	}

	var raw struct {
		Owner     string   `json:"owner"`
		Verifiers []string `json:"verifiers"`
	}
	if err := unified.Decode(&raw); err != nil {
		return engine.Genesis{}, &LoadError{Path: path, Message: fmt.Sprintf("decoding genesis file: %v", err)}
	}

	seen := make(map[string]bool, len(raw.Verifiers))
	for _, v := range raw.Verifiers {
		if seen[v] {
			return engine.Genesis{}, &LoadError{Path: path, Message: fmt.Sprintf("duplicate verifier %q", v)}
		}
		seen[v] = true
	}

	return engine.Genesis{Owner: raw.Owner, Verifiers: raw.Verifiers}, nil
}
