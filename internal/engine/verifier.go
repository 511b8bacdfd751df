package engine

import (
	"context"

	"github.com/fitledger/fitledger/internal/ledger"
)

// AddVerifier authorizes a principal to verify workouts and manage
// challenges. Owner-only.
func (e *Engine) AddVerifier(ctx context.Context, caller, principal string) error {
	const op = "add_verifier"

	return e.exec(ctx, caller, op,
		map[string]any{"principal": principal},
		func(st *ledger.State, height int64) (map[string]any, error) {
			if err := e.requireOwner(st, op, caller); err != nil {
				return nil, err
			}
			if err := st.PutVerifier(principal); err != nil {
				return nil, err
			}
			return map[string]any{"ok": true}, nil
		})
}

// RemoveVerifier revokes a principal's verifier authorization.
// Owner-only; removing a non-verifier is a committed no-op.
func (e *Engine) RemoveVerifier(ctx context.Context, caller, principal string) error {
	const op = "remove_verifier"

	return e.exec(ctx, caller, op,
		map[string]any{"principal": principal},
		func(st *ledger.State, height int64) (map[string]any, error) {
			if err := e.requireOwner(st, op, caller); err != nil {
				return nil, err
			}
			if err := st.DeleteVerifier(principal); err != nil {
				return nil, err
			}
			return map[string]any{"ok": true}, nil
		})
}

func (e *Engine) requireOwner(st *ledger.State, op, caller string) error {
	owner, err := e.owner(st)
	if err != nil {
		return err
	}
	if caller != owner {
		return reject(ErrCodeNotAuthorized, op, caller, "owner-only operation")
	}
	return nil
}
