package ledger

import (
	"fmt"
)

// PutAccount writes an account row, inserting or overwriting the whole
// row. §4.1 set semantics: unconditional overwrite.
func (st *State) PutAccount(a Account) error {
	_, err := st.tx.ExecContext(st.ctx, `
		INSERT INTO accounts
		(principal, total_workouts, current_streak, longest_streak,
		 last_workout_time, total_tokens_earned, total_duration, next_workout_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (principal) DO UPDATE SET
			total_workouts      = excluded.total_workouts,
			current_streak      = excluded.current_streak,
			longest_streak      = excluded.longest_streak,
			last_workout_time   = excluded.last_workout_time,
			total_tokens_earned = excluded.total_tokens_earned,
			total_duration      = excluded.total_duration,
			next_workout_id     = excluded.next_workout_id
	`, a.Principal, int64(a.TotalWorkouts), int64(a.CurrentStreak), int64(a.LongestStreak),
		a.LastWorkoutTime, int64(a.TotalTokensEarned), int64(a.TotalDuration), int64(a.NextWorkoutID))
	if err != nil {
		return fmt.Errorf("put account %q: %w", a.Principal, err)
	}
	return nil
}

// PutBalance writes a principal's token balance.
// A row is created on first write; recipients of transfers need no
// prior registration.
func (st *State) PutBalance(principal string, amount uint64) error {
	_, err := st.tx.ExecContext(st.ctx, `
		INSERT INTO balances (principal, amount) VALUES (?, ?)
		ON CONFLICT (principal) DO UPDATE SET amount = excluded.amount
	`, principal, int64(amount))
	if err != nil {
		return fmt.Errorf("put balance %q: %w", principal, err)
	}
	return nil
}

// PutSupply overwrites the total token supply.
func (st *State) PutSupply(total uint64) error {
	_, err := st.tx.ExecContext(st.ctx,
		`UPDATE supply SET total = ? WHERE id = 1`, int64(total))
	if err != nil {
		return fmt.Errorf("put supply: %w", err)
	}
	return nil
}

// PutWorkout writes a workout record.
func (st *State) PutWorkout(w Workout) error {
	_, err := st.tx.ExecContext(st.ctx, `
		INSERT INTO workouts
		(principal, workout_id, recorded_at, duration, workout_type, verified, tokens_earned)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (principal, workout_id) DO UPDATE SET
			recorded_at   = excluded.recorded_at,
			duration      = excluded.duration,
			workout_type  = excluded.workout_type,
			verified      = excluded.verified,
			tokens_earned = excluded.tokens_earned
	`, w.Principal, int64(w.WorkoutID), w.RecordedAt, int64(w.Duration),
		w.WorkoutType, w.Verified, int64(w.TokensEarned))
	if err != nil {
		return fmt.Errorf("put workout %q/%d: %w", w.Principal, w.WorkoutID, err)
	}
	return nil
}

// PutChallenge writes a challenge row.
func (st *State) PutChallenge(c Challenge) error {
	_, err := st.tx.ExecContext(st.ctx, `
		INSERT INTO challenges
		(challenge_id, name, description, start_time, end_time,
		 stake_amount, reward_pool, participant_count, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (challenge_id) DO UPDATE SET
			name              = excluded.name,
			description       = excluded.description,
			start_time        = excluded.start_time,
			end_time          = excluded.end_time,
			stake_amount      = excluded.stake_amount,
			reward_pool       = excluded.reward_pool,
			participant_count = excluded.participant_count,
			is_active         = excluded.is_active
	`, int64(c.ChallengeID), c.Name, c.Description, c.StartTime, c.EndTime,
		int64(c.StakeAmount), int64(c.RewardPool), int64(c.ParticipantCount), c.IsActive)
	if err != nil {
		return fmt.Errorf("put challenge %d: %w", c.ChallengeID, err)
	}
	return nil
}

// PutParticipation writes a participation row.
func (st *State) PutParticipation(p Participation) error {
	_, err := st.tx.ExecContext(st.ctx, `
		INSERT INTO participations
		(challenge_id, principal, stake_amount, workouts_completed, reward_claimed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (challenge_id, principal) DO UPDATE SET
			stake_amount       = excluded.stake_amount,
			workouts_completed = excluded.workouts_completed,
			reward_claimed     = excluded.reward_claimed
	`, int64(p.ChallengeID), p.Principal, int64(p.StakeAmount),
		int64(p.WorkoutsCompleted), p.RewardClaimed)
	if err != nil {
		return fmt.Errorf("put participation %d/%q: %w", p.ChallengeID, p.Principal, err)
	}
	return nil
}

// PutVerifier adds a principal to the authorized verifier set.
// Idempotent: adding an existing verifier is a no-op.
func (st *State) PutVerifier(principal string) error {
	_, err := st.tx.ExecContext(st.ctx, `
		INSERT INTO verifiers (principal) VALUES (?)
		ON CONFLICT (principal) DO NOTHING
	`, principal)
	if err != nil {
		return fmt.Errorf("put verifier %q: %w", principal, err)
	}
	return nil
}

// DeleteVerifier removes a principal from the authorized verifier set.
// Removing an absent verifier is a no-op.
func (st *State) DeleteVerifier(principal string) error {
	_, err := st.tx.ExecContext(st.ctx,
		`DELETE FROM verifiers WHERE principal = ?`, principal)
	if err != nil {
		return fmt.Errorf("delete verifier %q: %w", principal, err)
	}
	return nil
}

// PutClaimedMilestone sets the (principal, threshold) claimed flag.
// Write-once conceptually; re-setting is a no-op.
//
// No public entry point calls this today - milestone claiming is a
// known gap carried over from the original design.
func (st *State) PutClaimedMilestone(principal string, threshold uint64) error {
	_, err := st.tx.ExecContext(st.ctx, `
		INSERT INTO claimed_milestones (principal, threshold) VALUES (?, ?)
		ON CONFLICT (principal, threshold) DO NOTHING
	`, principal, int64(threshold))
	if err != nil {
		return fmt.Errorf("put claimed milestone %q/%d: %w", principal, threshold, err)
	}
	return nil
}

// PutCounter overwrites a named counter.
func (st *State) PutCounter(name string, value int64) error {
	_, err := st.tx.ExecContext(st.ctx, `
		INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value
	`, name, value)
	if err != nil {
		return fmt.Errorf("put counter %q: %w", name, err)
	}
	return nil
}

// PutConfig writes a config value.
func (st *State) PutConfig(name, value string) error {
	_, err := st.tx.ExecContext(st.ctx, `
		INSERT INTO config (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value
	`, name, value)
	if err != nil {
		return fmt.Errorf("put config %q: %w", name, err)
	}
	return nil
}
