package engine

import (
	"context"
	"fmt"

	"github.com/fitledger/fitledger/internal/ledger"
	"github.com/fitledger/fitledger/internal/reward"
)

// maxWorkoutTypeLen bounds the workout type label.
const maxWorkoutTypeLen = 50

// RecordWorkout stores a new unverified workout for the caller and
// returns its assigned id. The caller is registered as a side effect if
// needed. Workout ids come from the caller's private counter: they
// start at 1, increase by 1, and are never reused.
func (e *Engine) RecordWorkout(ctx context.Context, caller string, duration uint64, workoutType string) (uint64, error) {
	const op = "record_workout"

	if len(workoutType) > maxWorkoutTypeLen {
		return 0, fmt.Errorf("%s: workout type longer than %d bytes", op, maxWorkoutTypeLen)
	}

	var workoutID uint64
	err := e.exec(ctx, caller, op,
		map[string]any{"duration": duration, "workout_type": workoutType},
		func(st *ledger.State, height int64) (map[string]any, error) {
			if duration < reward.MinWorkoutDuration {
				return nil, reject(ErrCodeInvalidDuration, op, caller,
					fmt.Sprintf("duration below minimum of %d minutes", reward.MinWorkoutDuration))
			}

			if err := ensureRegistered(st, caller); err != nil {
				return nil, err
			}
			account, _, err := st.GetAccount(caller)
			if err != nil {
				return nil, err
			}

			workoutID = account.NextWorkoutID
			nextID, err := addChecked(workoutID, 1, op)
			if err != nil {
				return nil, err
			}
			account.NextWorkoutID = nextID
			if err := st.PutAccount(account); err != nil {
				return nil, err
			}

			if err := st.PutWorkout(ledger.Workout{
				Principal:    caller,
				WorkoutID:    workoutID,
				RecordedAt:   height,
				Duration:     duration,
				WorkoutType:  workoutType,
				Verified:     false,
				TokensEarned: 0,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"workout_id": workoutID}, nil
		})
	if err != nil {
		return 0, err
	}
	return workoutID, nil
}

// VerifyWorkout attests a recorded workout. Only an authorized verifier
// may call it; a workout verifies at most once. On success the user's
// streak advances, the reward is computed from the new streak and the
// recorded duration, the record flips to verified, the profile totals
// update, and the reward is minted to the user. Returns the reward.
//
// Challenge progress is NOT touched here - crediting a workout toward a
// challenge takes a separate RecordChallengeWorkout call.
func (e *Engine) VerifyWorkout(ctx context.Context, verifier, user string, workoutID uint64) (uint64, error) {
	const op = "verify_workout"

	var minted uint64
	err := e.exec(ctx, verifier, op,
		map[string]any{"user": user, "workout_id": workoutID},
		func(st *ledger.State, height int64) (map[string]any, error) {
			authorized, err := st.IsVerifier(verifier)
			if err != nil {
				return nil, err
			}
			if !authorized {
				return nil, reject(ErrCodeUnauthorizedVerifier, op, verifier, "caller is not an authorized verifier")
			}

			workout, found, err := st.GetWorkout(user, workoutID)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, reject(ErrCodeWorkoutNotFound, op, verifier,
					fmt.Sprintf("no workout %d for user %s", workoutID, user))
			}
			if workout.Verified {
				return nil, reject(ErrCodeAlreadyVerified, op, verifier,
					fmt.Sprintf("workout %d already verified", workoutID))
			}

			account, found, err := st.GetAccount(user)
			if err != nil {
				return nil, err
			}
			if !found {
				// RecordWorkout registers the user, so this only fires
				// on a corrupted store.
				return nil, reject(ErrCodeUserNotFound, op, verifier, "no account for workout owner")
			}

			newStreak := reward.NextStreak(account.CurrentStreak, account.LastWorkoutTime, height)
			tokens := reward.Calculate(newStreak, workout.Duration)

			workout.Verified = true
			workout.TokensEarned = tokens
			if err := st.PutWorkout(workout); err != nil {
				return nil, err
			}

			account.CurrentStreak = newStreak
			account.LongestStreak = reward.MaxU64(newStreak, account.LongestStreak)
			account.LastWorkoutTime = height
			if account.TotalWorkouts, err = addChecked(account.TotalWorkouts, 1, op); err != nil {
				return nil, err
			}
			if account.TotalDuration, err = addChecked(account.TotalDuration, workout.Duration, op); err != nil {
				return nil, err
			}
			if account.TotalTokensEarned, err = addChecked(account.TotalTokensEarned, tokens, op); err != nil {
				return nil, err
			}
			if err := st.PutAccount(account); err != nil {
				return nil, err
			}

			if err := mint(st, user, tokens, op); err != nil {
				return nil, err
			}

			minted = tokens
			return map[string]any{"reward": tokens}, nil
		})
	if err != nil {
		return 0, err
	}
	return minted, nil
}
