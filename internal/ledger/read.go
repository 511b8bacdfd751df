package ledger

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetAccount returns the account for a principal.
// found is false when no account row exists; the returned Account is
// then the declared zero value.
func (st *State) GetAccount(principal string) (Account, bool, error) {
	var a Account
	err := st.tx.QueryRowContext(st.ctx, `
		SELECT principal, total_workouts, current_streak, longest_streak,
		       last_workout_time, total_tokens_earned, total_duration, next_workout_id
		FROM accounts
		WHERE principal = ?
	`, principal).Scan(
		&a.Principal, &a.TotalWorkouts, &a.CurrentStreak, &a.LongestStreak,
		&a.LastWorkoutTime, &a.TotalTokensEarned, &a.TotalDuration, &a.NextWorkoutID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, false, nil
	}
	if err != nil {
		return Account{}, false, fmt.Errorf("get account %q: %w", principal, err)
	}
	return a, true, nil
}

// GetBalance returns a principal's token balance, defaulting to 0 when
// no balance row exists.
func (st *State) GetBalance(principal string) (uint64, error) {
	var amount int64
	err := st.tx.QueryRowContext(st.ctx,
		`SELECT amount FROM balances WHERE principal = ?`, principal,
	).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance %q: %w", principal, err)
	}
	return uint64(amount), nil
}

// GetSupply returns the total minted token supply.
func (st *State) GetSupply() (uint64, error) {
	var total int64
	if err := st.tx.QueryRowContext(st.ctx,
		`SELECT total FROM supply WHERE id = 1`,
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("get supply: %w", err)
	}
	return uint64(total), nil
}

// GetWorkout returns the workout record for (principal, workout id).
func (st *State) GetWorkout(principal string, workoutID uint64) (Workout, bool, error) {
	var w Workout
	err := st.tx.QueryRowContext(st.ctx, `
		SELECT principal, workout_id, recorded_at, duration, workout_type, verified, tokens_earned
		FROM workouts
		WHERE principal = ? AND workout_id = ?
	`, principal, int64(workoutID)).Scan(
		&w.Principal, &w.WorkoutID, &w.RecordedAt, &w.Duration,
		&w.WorkoutType, &w.Verified, &w.TokensEarned,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Workout{}, false, nil
	}
	if err != nil {
		return Workout{}, false, fmt.Errorf("get workout %q/%d: %w", principal, workoutID, err)
	}
	return w, true, nil
}

// GetChallenge returns the challenge with the given id.
func (st *State) GetChallenge(challengeID uint64) (Challenge, bool, error) {
	var c Challenge
	err := st.tx.QueryRowContext(st.ctx, `
		SELECT challenge_id, name, description, start_time, end_time,
		       stake_amount, reward_pool, participant_count, is_active
		FROM challenges
		WHERE challenge_id = ?
	`, int64(challengeID)).Scan(
		&c.ChallengeID, &c.Name, &c.Description, &c.StartTime, &c.EndTime,
		&c.StakeAmount, &c.RewardPool, &c.ParticipantCount, &c.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Challenge{}, false, nil
	}
	if err != nil {
		return Challenge{}, false, fmt.Errorf("get challenge %d: %w", challengeID, err)
	}
	return c, true, nil
}

// GetParticipation returns the participation row for (challenge, principal).
func (st *State) GetParticipation(challengeID uint64, principal string) (Participation, bool, error) {
	var p Participation
	err := st.tx.QueryRowContext(st.ctx, `
		SELECT challenge_id, principal, stake_amount, workouts_completed, reward_claimed
		FROM participations
		WHERE challenge_id = ? AND principal = ?
	`, int64(challengeID), principal).Scan(
		&p.ChallengeID, &p.Principal, &p.StakeAmount, &p.WorkoutsCompleted, &p.RewardClaimed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Participation{}, false, nil
	}
	if err != nil {
		return Participation{}, false, fmt.Errorf("get participation %d/%q: %w", challengeID, principal, err)
	}
	return p, true, nil
}

// IsVerifier reports whether a principal is an authorized verifier.
func (st *State) IsVerifier(principal string) (bool, error) {
	var one int
	err := st.tx.QueryRowContext(st.ctx,
		`SELECT 1 FROM verifiers WHERE principal = ?`, principal,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is verifier %q: %w", principal, err)
	}
	return true, nil
}

// IsMilestoneClaimed reports whether the (principal, threshold) claimed
// flag is present.
func (st *State) IsMilestoneClaimed(principal string, threshold uint64) (bool, error) {
	var one int
	err := st.tx.QueryRowContext(st.ctx,
		`SELECT 1 FROM claimed_milestones WHERE principal = ? AND threshold = ?`,
		principal, int64(threshold),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is milestone claimed %q/%d: %w", principal, threshold, err)
	}
	return true, nil
}

// GetCounter returns a named monotone counter.
// Counters are seeded by the schema, so a missing row is an error.
func (st *State) GetCounter(name string) (int64, error) {
	var value int64
	if err := st.tx.QueryRowContext(st.ctx,
		`SELECT value FROM counters WHERE name = ?`, name,
	).Scan(&value); err != nil {
		return 0, fmt.Errorf("get counter %q: %w", name, err)
	}
	return value, nil
}

// GetConfig returns a config value. found is false when the key is absent.
func (st *State) GetConfig(name string) (string, bool, error) {
	var value string
	err := st.tx.QueryRowContext(st.ctx,
		`SELECT value FROM config WHERE name = ?`, name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", name, err)
	}
	return value, true, nil
}

// SumBalances returns the sum of all token balances.
// Used by the supply invariant check.
func (st *State) SumBalances() (uint64, error) {
	var sum int64
	if err := st.tx.QueryRowContext(st.ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM balances`,
	).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum balances: %w", err)
	}
	return uint64(sum), nil
}

// SumRewardPools returns the sum of all challenge reward pools.
// Used by the supply invariant check.
func (st *State) SumRewardPools() (uint64, error) {
	var sum int64
	if err := st.tx.QueryRowContext(st.ctx,
		`SELECT COALESCE(SUM(reward_pool), 0) FROM challenges`,
	).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum reward pools: %w", err)
	}
	return uint64(sum), nil
}
