package engine

import (
	"context"

	"github.com/fitledger/fitledger/internal/ledger"
	"github.com/fitledger/fitledger/internal/reward"
)

// UnclaimedMilestones returns the milestones a user has reached but not
// claimed, in ascending threshold order.
//
// Pure query. No entry point sets the claimed flag or pays milestone
// rewards today, so every reached milestone stays in this list forever.
// Claiming is detectable but not actionable - a carried-over gap, kept
// until the payout design exists.
func (e *Engine) UnclaimedMilestones(ctx context.Context, user string) ([]reward.Milestone, error) {
	var out []reward.Milestone
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		account, found, err := st.GetAccount(user)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		for _, m := range reward.Reached(account.TotalWorkouts) {
			claimed, err := st.IsMilestoneClaimed(user, m.Threshold)
			if err != nil {
				return err
			}
			if !claimed {
				out = append(out, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
