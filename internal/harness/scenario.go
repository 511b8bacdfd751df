package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test: a genesis configuration, a flow
// of engine calls with expected outcomes, and assertions on the final
// ledger state.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Genesis initializes the ledger before the flow runs.
	Genesis GenesisSpec `yaml:"genesis"`

	// Flow contains the engine calls to execute in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final ledger state after the flow.
	Assertions []Assertion `yaml:"assertions"`
}

// GenesisSpec mirrors the deploy-time configuration.
type GenesisSpec struct {
	Owner     string   `yaml:"owner"`
	Verifiers []string `yaml:"verifiers,omitempty"`
}

// FlowStep is a single engine call.
type FlowStep struct {
	// Op names the operation, e.g. "record_workout".
	Op string `yaml:"op"`

	// Caller is the principal making the call.
	Caller string `yaml:"caller"`

	// Args contains the operation arguments.
	Args map[string]interface{} `yaml:"args,omitempty"`

	// Expect specifies the expected outcome. A nil Expect means the
	// call must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies an expected call outcome.
type ExpectClause struct {
	// Error is the expected rejection code, e.g. "INSUFFICIENT_TOKENS".
	// Empty means the call must succeed.
	Error string `yaml:"error,omitempty"`

	// Result contains expected result field values. Subset match: only
	// the fields named here are compared.
	Result map[string]interface{} `yaml:"result,omitempty"`
}

// Assertion validates final ledger state or the audit trail.
type Assertion struct {
	// Type selects the assertion:
	//   balance, supply, height, streak, profile, challenge,
	//   participation, verifier, trace_count, trace_order
	Type string `yaml:"type"`

	// Principal names the account (balance, verifier).
	Principal string `yaml:"principal,omitempty"`

	// User names the account (streak, profile, participation).
	User string `yaml:"user,omitempty"`

	// Amount is the expected quantity (balance, supply).
	Amount uint64 `yaml:"amount,omitempty"`

	// Value is the expected height (height).
	Value int64 `yaml:"value,omitempty"`

	// Current and Longest are the expected streaks (streak).
	Current uint64 `yaml:"current,omitempty"`
	Longest uint64 `yaml:"longest,omitempty"`

	// Challenge is the challenge id (challenge, participation).
	Challenge uint64 `yaml:"challenge,omitempty"`

	// Expect holds expected field values, subset matched (profile,
	// challenge, participation).
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Authorized is the expected verifier status (verifier).
	Authorized bool `yaml:"authorized,omitempty"`

	// Op and Count check audit trail cardinality (trace_count).
	Op    string `yaml:"op,omitempty"`
	Count int    `yaml:"count,omitempty"`

	// Ops is the expected operation order over the whole trail
	// (trace_order).
	Ops []string `yaml:"ops,omitempty"`
}

// Assertion type constants.
const (
	AssertBalance       = "balance"
	AssertSupply        = "supply"
	AssertHeight        = "height"
	AssertStreak        = "streak"
	AssertProfile       = "profile"
	AssertChallenge     = "challenge"
	AssertParticipation = "participation"
	AssertVerifier      = "verifier"
	AssertTraceCount    = "trace_count"
	AssertTraceOrder    = "trace_order"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly instead of being ignored.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Genesis.Owner == "" {
		return fmt.Errorf("genesis.owner is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if step.Op == "" {
			return fmt.Errorf("flow[%d]: op is required", i)
		}
		if step.Caller == "" {
			return fmt.Errorf("flow[%d]: caller is required", i)
		}
		if step.Expect != nil && step.Expect.Error != "" && step.Expect.Result != nil {
			return fmt.Errorf("flow[%d].expect: error and result are mutually exclusive", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertBalance:
		if a.Principal == "" {
			return fmt.Errorf("assertions[%d]: principal is required for balance", index)
		}
	case AssertSupply, AssertHeight:
		// amount/value of zero is a valid expectation
	case AssertStreak, AssertProfile:
		if a.User == "" {
			return fmt.Errorf("assertions[%d]: user is required for %s", index, a.Type)
		}
		if a.Type == AssertProfile && len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for profile", index)
		}
	case AssertChallenge:
		if a.Challenge == 0 {
			return fmt.Errorf("assertions[%d]: challenge is required for challenge", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for challenge", index)
		}
	case AssertParticipation:
		if a.Challenge == 0 || a.User == "" {
			return fmt.Errorf("assertions[%d]: challenge and user are required for participation", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for participation", index)
		}
	case AssertVerifier:
		if a.Principal == "" {
			return fmt.Errorf("assertions[%d]: principal is required for verifier", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
