package engine

import (
	"context"

	"github.com/fitledger/fitledger/internal/ledger"
)

// RegisterUser creates the caller's account, balance entry, and workout
// counter if they do not exist yet. Idempotent: a second registration
// is a committed no-op, never an error.
func (e *Engine) RegisterUser(ctx context.Context, caller string) error {
	const op = "register_user"

	return e.exec(ctx, caller, op, nil,
		func(st *ledger.State, height int64) (map[string]any, error) {
			if err := ensureRegistered(st, caller); err != nil {
				return nil, err
			}
			return map[string]any{"ok": true}, nil
		})
}

// TransferTokens moves amount from the caller to recipient. The
// recipient needs no prior registration - a balance row appears on
// first credit. No fee, no self-transfer restriction, no zero-amount
// restriction.
func (e *Engine) TransferTokens(ctx context.Context, caller, recipient string, amount uint64) error {
	const op = "transfer_tokens"

	return e.exec(ctx, caller, op,
		map[string]any{"recipient": recipient, "amount": amount},
		func(st *ledger.State, height int64) (map[string]any, error) {
			senderBal, err := st.GetBalance(caller)
			if err != nil {
				return nil, err
			}
			if amount > senderBal {
				return nil, reject(ErrCodeInsufficientTokens, op, caller, "balance cannot cover transfer")
			}

			// Debit before reading the recipient so a self-transfer
			// credits the already-debited balance and nets to zero.
			if err := st.PutBalance(caller, senderBal-amount); err != nil {
				return nil, err
			}

			recipientBal, err := st.GetBalance(recipient)
			if err != nil {
				return nil, err
			}
			newRecipientBal, err := addChecked(recipientBal, amount, op)
			if err != nil {
				return nil, err
			}
			if err := st.PutBalance(recipient, newRecipientBal); err != nil {
				return nil, err
			}
			return map[string]any{"ok": true}, nil
		})
}

// ensureRegistered lazily creates the account and balance rows for a
// principal. Existing rows are left untouched.
func ensureRegistered(st *ledger.State, principal string) error {
	_, found, err := st.GetAccount(principal)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	if err := st.PutAccount(ledger.Account{Principal: principal, NextWorkoutID: 1}); err != nil {
		return err
	}
	bal, err := st.GetBalance(principal)
	if err != nil {
		return err
	}
	return st.PutBalance(principal, bal)
}

// mint credits amount to a principal's balance and grows the total
// supply by the same amount. Minting is internal: only workout
// verification reaches it, so supply growth is always backed by a
// verified workout.
func mint(st *ledger.State, principal string, amount uint64, op string) error {
	bal, err := st.GetBalance(principal)
	if err != nil {
		return err
	}
	newBal, err := addChecked(bal, amount, op)
	if err != nil {
		return err
	}

	supply, err := st.GetSupply()
	if err != nil {
		return err
	}
	newSupply, err := addChecked(supply, amount, op)
	if err != nil {
		return err
	}

	if err := st.PutBalance(principal, newBal); err != nil {
		return err
	}
	return st.PutSupply(newSupply)
}
