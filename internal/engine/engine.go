// Package engine implements the ledger state machine: every rule by
// which accounts, token supply, workouts, milestones, and challenges
// may evolve.
//
// Each public entry point executes as exactly one store transaction.
// The method either commits all of its effects together with one audit
// event, or returns an error having changed nothing. The store's
// single connection serializes calls, so no two entry points ever
// interleave their reads and writes.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/fitledger/fitledger/internal/audit"
	"github.com/fitledger/fitledger/internal/ledger"
)

// Genesis is the deploy-time configuration bound at Init: the immutable
// contract owner and any verifiers authorized from the start.
type Genesis struct {
	Owner     string
	Verifiers []string
}

// Engine executes state transitions against a ledger store.
//
// Thread-safety: Engine is safe for concurrent use. Serialization of
// effects is provided by the store's single-connection transaction
// boundary, not by locks here.
type Engine struct {
	store  *ledger.Store
	tokens audit.TokenGenerator
}

// New creates an Engine. tokens stamps every committed call's audit
// event; production uses audit.UUIDv7Generator, tests use fixed or
// sequential generators for deterministic traces.
func New(store *ledger.Store, tokens audit.TokenGenerator) *Engine {
	return &Engine{store: store, tokens: tokens}
}

// Init performs one-time system initialization: binds the owner
// principal and authorizes the genesis verifiers. A second Init is
// rejected - the owner is immutable after deployment.
func (e *Engine) Init(ctx context.Context, gen Genesis) error {
	if gen.Owner == "" {
		return fmt.Errorf("init: owner principal is required")
	}

	return e.exec(ctx, gen.Owner, "init",
		map[string]any{"owner": gen.Owner, "verifiers": toAnySlice(gen.Verifiers)},
		func(st *ledger.State, height int64) (map[string]any, error) {
			if _, found, err := st.GetConfig(ledger.ConfigInitialized); err != nil {
				return nil, err
			} else if found {
				return nil, fmt.Errorf("init: already initialized")
			}

			if err := st.PutConfig(ledger.ConfigOwner, gen.Owner); err != nil {
				return nil, err
			}
			if err := st.PutConfig(ledger.ConfigInitialized, "1"); err != nil {
				return nil, err
			}
			for _, v := range gen.Verifiers {
				if err := st.PutVerifier(v); err != nil {
					return nil, err
				}
			}
			return map[string]any{"ok": true}, nil
		})
}

// AdvanceHeight moves the logical clock forward by delta units. Only
// the owner may advance the clock; height never decreases.
func (e *Engine) AdvanceHeight(ctx context.Context, caller string, delta uint64) (int64, error) {
	const op = "advance_height"
	if delta == 0 {
		return 0, fmt.Errorf("%s: delta must be positive", op)
	}

	var newHeight int64
	err := e.exec(ctx, caller, op, map[string]any{"delta": delta},
		func(st *ledger.State, height int64) (map[string]any, error) {
			owner, err := e.owner(st)
			if err != nil {
				return nil, err
			}
			if caller != owner {
				return nil, reject(ErrCodeNotAuthorized, op, caller, "only the owner advances the clock")
			}

			next, err := addHeight(height, delta)
			if err != nil {
				return nil, &Error{Code: ErrCodeAmountOverflow, Message: "height overflow", Op: op}
			}
			if err := st.PutCounter(ledger.CounterHeight, next); err != nil {
				return nil, err
			}
			newHeight = next
			return map[string]any{"height": next}, nil
		})
	if err != nil {
		return 0, err
	}
	return newHeight, nil
}

// exec runs one entry point as one transaction: read the current
// height, apply fn, append the audit event, commit. Any error from fn
// rolls the whole call back, audit event included.
func (e *Engine) exec(
	ctx context.Context,
	caller, op string,
	args map[string]any,
	fn func(st *ledger.State, height int64) (map[string]any, error),
) error {
	callToken := e.tokens.Generate()

	err := e.store.ExecTx(ctx, func(st *ledger.State) error {
		height, err := st.GetCounter(ledger.CounterHeight)
		if err != nil {
			return err
		}

		result, err := fn(st, height)
		if err != nil {
			return err
		}

		if err := e.appendEvent(st, callToken, caller, op, args, result, height); err != nil {
			return err
		}

		slog.Debug("call committed",
			"op", op,
			"caller", caller,
			"height", height,
			"call_token", callToken,
		)
		return nil
	})
	if err != nil {
		slog.Debug("call rejected", "op", op, "caller", caller, "error", err)
	}
	return err
}

// appendEvent writes the audit row for a committed call.
func (e *Engine) appendEvent(
	st *ledger.State,
	callToken, caller, op string,
	args, result map[string]any,
	height int64,
) error {
	id, err := audit.EventID(callToken, op, caller, args, height)
	if err != nil {
		return err
	}

	argsJSON, err := audit.MarshalCanonical(normalizeArgs(args))
	if err != nil {
		return fmt.Errorf("marshal args for %s: %w", op, err)
	}
	resultJSON, err := audit.MarshalCanonical(normalizeArgs(result))
	if err != nil {
		return fmt.Errorf("marshal result for %s: %w", op, err)
	}

	return st.AppendEvent(ledger.Event{
		ID:        id,
		CallToken: callToken,
		Height:    height,
		Caller:    caller,
		Op:        op,
		Args:      string(argsJSON),
		Result:    string(resultJSON),
	})
}

// owner returns the owner principal bound at Init.
func (e *Engine) owner(st *ledger.State) (string, error) {
	owner, found, err := st.GetConfig(ledger.ConfigOwner)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("system not initialized")
	}
	return owner, nil
}

// addChecked adds two token or counter quantities, aborting on
// overflow. Quantities are capped at MaxInt64 so they round-trip
// through storage unchanged; exceeding the cap rejects the call rather
// than saturating.
func addChecked(a, b uint64, op string) (uint64, error) {
	sum := a + b
	if sum < a || sum > math.MaxInt64 {
		return 0, &Error{
			Code:    ErrCodeAmountOverflow,
			Message: "amount overflow",
			Op:      op,
			Details: map[string]string{
				"a": fmt.Sprintf("%d", a),
				"b": fmt.Sprintf("%d", b),
			},
		}
	}
	return sum, nil
}

func addHeight(h int64, delta uint64) (int64, error) {
	if delta > math.MaxInt64 || h > math.MaxInt64-int64(delta) {
		return 0, fmt.Errorf("height overflow")
	}
	return h + int64(delta), nil
}

func normalizeArgs(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
