package engine

import (
	"context"
	"fmt"

	"github.com/fitledger/fitledger/internal/ledger"
)

// Read-only queries. None of these mutate state; absent keys return
// declared defaults rather than errors, matching the ledger's
// get-or-default contract.

// GetUserProfile returns a user's account. found is false for an
// unknown principal.
func (e *Engine) GetUserProfile(ctx context.Context, user string) (ledger.Account, bool, error) {
	var (
		account ledger.Account
		found   bool
	)
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		var err error
		account, found, err = st.GetAccount(user)
		return err
	})
	return account, found, err
}

// GetTokenBalance returns a principal's balance, 0 when absent.
func (e *Engine) GetTokenBalance(ctx context.Context, principal string) (uint64, error) {
	var balance uint64
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		var err error
		balance, err = st.GetBalance(principal)
		return err
	})
	return balance, err
}

// GetTokenSupply returns the total minted supply.
func (e *Engine) GetTokenSupply(ctx context.Context) (uint64, error) {
	var supply uint64
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		var err error
		supply, err = st.GetSupply()
		return err
	})
	return supply, err
}

// GetWorkout returns one workout record.
func (e *Engine) GetWorkout(ctx context.Context, user string, workoutID uint64) (ledger.Workout, bool, error) {
	var (
		workout ledger.Workout
		found   bool
	)
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		var err error
		workout, found, err = st.GetWorkout(user, workoutID)
		return err
	})
	return workout, found, err
}

// GetChallenge returns one challenge.
func (e *Engine) GetChallenge(ctx context.Context, challengeID uint64) (ledger.Challenge, bool, error) {
	var (
		challenge ledger.Challenge
		found     bool
	)
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		var err error
		challenge, found, err = st.GetChallenge(challengeID)
		return err
	})
	return challenge, found, err
}

// GetChallengeParticipation returns one participation record.
func (e *Engine) GetChallengeParticipation(ctx context.Context, challengeID uint64, user string) (ledger.Participation, bool, error) {
	var (
		participation ledger.Participation
		found         bool
	)
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		var err error
		participation, found, err = st.GetParticipation(challengeID, user)
		return err
	})
	return participation, found, err
}

// GetUserStreak returns a user's current and longest streak, both 0
// for an unknown principal.
func (e *Engine) GetUserStreak(ctx context.Context, user string) (current, longest uint64, err error) {
	err = e.store.ViewTx(ctx, func(st *ledger.State) error {
		account, _, err := st.GetAccount(user)
		if err != nil {
			return err
		}
		current = account.CurrentStreak
		longest = account.LongestStreak
		return nil
	})
	return current, longest, err
}

// IsMilestoneClaimed reports the (user, threshold) claimed flag.
func (e *Engine) IsMilestoneClaimed(ctx context.Context, user string, threshold uint64) (bool, error) {
	var claimed bool
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		var err error
		claimed, err = st.IsMilestoneClaimed(user, threshold)
		return err
	})
	return claimed, err
}

// IsAuthorizedVerifier reports whether a principal may verify workouts.
func (e *Engine) IsAuthorizedVerifier(ctx context.Context, principal string) (bool, error) {
	var authorized bool
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		var err error
		authorized, err = st.IsVerifier(principal)
		return err
	})
	return authorized, err
}

// CurrentHeight returns the logical clock position.
func (e *Engine) CurrentHeight(ctx context.Context) (int64, error) {
	var height int64
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		var err error
		height, err = st.GetCounter(ledger.CounterHeight)
		return err
	})
	return height, err
}

// ReadTrace returns the audit trail in commit order, optionally
// filtered by caller and capped at limit rows.
func (e *Engine) ReadTrace(ctx context.Context, caller string, limit int) ([]ledger.Event, error) {
	var events []ledger.Event
	err := e.store.ViewTx(ctx, func(st *ledger.State) error {
		var err error
		events, err = st.ReadEvents(caller, limit)
		return err
	})
	return events, err
}

// CheckInvariants verifies the supply equation:
//
//	sum(balances) + sum(reward pools) == total supply
//
// Holds in every reachable state; a violation means the store was
// mutated outside the engine or there is a bug in a transition.
func (e *Engine) CheckInvariants(ctx context.Context) error {
	return e.store.ViewTx(ctx, func(st *ledger.State) error {
		balances, err := st.SumBalances()
		if err != nil {
			return err
		}
		pools, err := st.SumRewardPools()
		if err != nil {
			return err
		}
		supply, err := st.GetSupply()
		if err != nil {
			return err
		}
		if balances+pools != supply {
			return fmt.Errorf("supply invariant violated: balances=%d pools=%d supply=%d",
				balances, pools, supply)
		}
		return nil
	})
}
