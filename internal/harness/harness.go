// Package harness runs YAML conformance scenarios against the real
// ledger engine.
//
// Each scenario gets a fresh in-memory store and a sequential call
// token generator, so the resulting audit trail is fully deterministic
// and can be compared against golden files.
package harness

import (
	"context"
	"fmt"

	"github.com/fitledger/fitledger/internal/audit"
	"github.com/fitledger/fitledger/internal/engine"
	"github.com/fitledger/fitledger/internal/ledger"
)

// Result holds the outcome of running a scenario.
type Result struct {
	// Passed is true when every flow expectation and assertion held.
	Passed bool

	// Errors lists every expectation or assertion that failed.
	Errors []string

	// Trace is the committed audit trail in commit order.
	Trace []ledger.Event
}

// NewResult creates an empty passing result.
func NewResult() *Result {
	return &Result{Passed: true}
}

// AddError records a failure and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Passed = false
	r.Errors = append(r.Errors, msg)
}

// Run executes a scenario against a fresh in-memory ledger.
//
// Execution flow:
//  1. Open an in-memory store and initialize from the genesis spec.
//  2. Execute flow steps, checking each expect clause against the
//     real engine outcome.
//  3. Evaluate final-state assertions.
//  4. Check the supply conservation invariant.
//  5. Read back the audit trail for golden comparison.
func Run(scenario *Scenario) (*Result, error) {
	store, err := ledger.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer store.Close()

	eng := engine.New(store, &audit.SeqGenerator{})
	ctx := context.Background()

	if err := eng.Init(ctx, engine.Genesis{
		Owner:     scenario.Genesis.Owner,
		Verifiers: scenario.Genesis.Verifiers,
	}); err != nil {
		return nil, fmt.Errorf("genesis init: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		if err := executeStep(ctx, eng, i, step, result); err != nil {
			return nil, err
		}
	}

	evaluateAssertions(ctx, eng, scenario.Assertions, result)

	if err := eng.CheckInvariants(ctx); err != nil {
		result.AddError(fmt.Sprintf("invariant violated after flow: %v", err))
	}

	trace, err := eng.ReadTrace(ctx, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit trail: %w", err)
	}
	result.Trace = trace

	return result, nil
}

// executeStep dispatches one flow step to the engine and checks its
// expect clause. Argument extraction errors are scenario bugs and fail
// the run; engine rejections are outcomes to compare against Expect.
func executeStep(ctx context.Context, eng *engine.Engine, i int, step FlowStep, result *Result) error {
	callResult, err := dispatch(ctx, eng, step)
	if argErr, ok := err.(*argError); ok {
		return fmt.Errorf("flow[%d] %s: %v", i, step.Op, argErr)
	}

	wantCode := ""
	if step.Expect != nil {
		wantCode = step.Expect.Error
	}

	if wantCode == "" {
		if err != nil {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected success, got %v", i, step.Op, err))
			return nil
		}
		if step.Expect != nil {
			checkSubset(fmt.Sprintf("flow[%d] %s result", i, step.Op), step.Expect.Result, callResult, result)
		}
		return nil
	}

	if err == nil {
		result.AddError(fmt.Sprintf("flow[%d] %s: expected rejection %s, call succeeded", i, step.Op, wantCode))
		return nil
	}
	if got := string(engine.CodeOf(err)); got != wantCode {
		result.AddError(fmt.Sprintf("flow[%d] %s: expected rejection %s, got %q (%v)", i, step.Op, wantCode, got, err))
	}
	return nil
}

// dispatch maps an op name to the engine call and returns the result
// fields a success produces.
func dispatch(ctx context.Context, eng *engine.Engine, step FlowStep) (map[string]interface{}, error) {
	args := step.Args

	switch step.Op {
	case "advance_height":
		delta, err := argUint(args, "delta")
		if err != nil {
			return nil, err
		}
		height, err := eng.AdvanceHeight(ctx, step.Caller, delta)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"height": height}, nil

	case "register_user":
		return map[string]interface{}{}, eng.RegisterUser(ctx, step.Caller)

	case "record_workout":
		duration, err := argUint(args, "duration")
		if err != nil {
			return nil, err
		}
		workoutType, err := argStringOpt(args, "workout_type")
		if err != nil {
			return nil, err
		}
		id, err := eng.RecordWorkout(ctx, step.Caller, duration, workoutType)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"workout_id": id}, nil

	case "verify_workout":
		user, err := argString(args, "user")
		if err != nil {
			return nil, err
		}
		workoutID, err := argUint(args, "workout_id")
		if err != nil {
			return nil, err
		}
		tokens, err := eng.VerifyWorkout(ctx, step.Caller, user, workoutID)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"reward": tokens}, nil

	case "transfer_tokens":
		recipient, err := argString(args, "recipient")
		if err != nil {
			return nil, err
		}
		amount, err := argUint(args, "amount")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{}, eng.TransferTokens(ctx, step.Caller, recipient, amount)

	case "add_verifier":
		principal, err := argString(args, "principal")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{}, eng.AddVerifier(ctx, step.Caller, principal)

	case "remove_verifier":
		principal, err := argString(args, "principal")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{}, eng.RemoveVerifier(ctx, step.Caller, principal)

	case "create_challenge":
		name, err := argString(args, "name")
		if err != nil {
			return nil, err
		}
		description, err := argStringOpt(args, "description")
		if err != nil {
			return nil, err
		}
		start, err := argInt(args, "start")
		if err != nil {
			return nil, err
		}
		end, err := argInt(args, "end")
		if err != nil {
			return nil, err
		}
		stake, err := argUint(args, "stake")
		if err != nil {
			return nil, err
		}
		id, err := eng.CreateChallenge(ctx, step.Caller, name, description, start, end, stake)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"challenge_id": id}, nil

	case "join_challenge":
		challengeID, err := argUint(args, "challenge_id")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{}, eng.JoinChallenge(ctx, step.Caller, challengeID)

	case "record_challenge_workout":
		challengeID, err := argUint(args, "challenge_id")
		if err != nil {
			return nil, err
		}
		workoutID, err := argUint(args, "workout_id")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{}, eng.RecordChallengeWorkout(ctx, step.Caller, challengeID, workoutID)

	case "end_challenge":
		challengeID, err := argUint(args, "challenge_id")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{}, eng.EndChallenge(ctx, step.Caller, challengeID)

	default:
		return nil, &argError{fmt.Sprintf("unknown op %q", step.Op)}
	}
}

// argError marks scenario argument problems, as opposed to engine
// rejections.
type argError struct {
	msg string
}

func (e *argError) Error() string { return e.msg }

func argString(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", &argError{fmt.Sprintf("missing arg %q", key)}
	}
	s, ok := v.(string)
	if !ok {
		return "", &argError{fmt.Sprintf("arg %q: expected string, got %T", key, v)}
	}
	return s, nil
}

func argStringOpt(args map[string]interface{}, key string) (string, error) {
	if _, ok := args[key]; !ok {
		return "", nil
	}
	return argString(args, key)
}

func argUint(args map[string]interface{}, key string) (uint64, error) {
	v, ok := args[key]
	if !ok {
		return 0, &argError{fmt.Sprintf("missing arg %q", key)}
	}
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0, &argError{fmt.Sprintf("arg %q: must be non-negative", key)}
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, &argError{fmt.Sprintf("arg %q: must be non-negative", key)}
		}
		return uint64(n), nil
	case uint64:
		return n, nil
	default:
		return 0, &argError{fmt.Sprintf("arg %q: expected integer, got %T", key, v)}
	}
}

func argInt(args map[string]interface{}, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, &argError{fmt.Sprintf("missing arg %q", key)}
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, &argError{fmt.Sprintf("arg %q: expected integer, got %T", key, v)}
	}
}
