package engine

import (
	"context"
	"fmt"

	"github.com/fitledger/fitledger/internal/ledger"
)

// CreateChallenge opens a new stake-based challenge and returns its id.
// Only authorized verifiers create challenges. Ids come from a global
// counter starting at 1, strictly increasing.
func (e *Engine) CreateChallenge(ctx context.Context, caller, name, description string, start, end int64, stake uint64) (uint64, error) {
	const op = "create_challenge"

	var challengeID uint64
	err := e.exec(ctx, caller, op,
		map[string]any{
			"name":        name,
			"description": description,
			"start":       start,
			"end":         end,
			"stake":       stake,
		},
		func(st *ledger.State, height int64) (map[string]any, error) {
			authorized, err := st.IsVerifier(caller)
			if err != nil {
				return nil, err
			}
			if !authorized {
				return nil, reject(ErrCodeNotAuthorized, op, caller, "only verifiers create challenges")
			}

			next, err := st.GetCounter(ledger.CounterNextChallengeID)
			if err != nil {
				return nil, err
			}
			challengeID = uint64(next)
			if err := st.PutCounter(ledger.CounterNextChallengeID, next+1); err != nil {
				return nil, err
			}

			if err := st.PutChallenge(ledger.Challenge{
				ChallengeID:      challengeID,
				Name:             name,
				Description:      description,
				StartTime:        start,
				EndTime:          end,
				StakeAmount:      stake,
				RewardPool:       0,
				ParticipantCount: 0,
				IsActive:         true,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"challenge_id": challengeID}, nil
		})
	if err != nil {
		return 0, err
	}
	return challengeID, nil
}

// JoinChallenge stakes the challenge's stake amount from the caller's
// balance into the reward pool and records the participation. There is
// no leave or withdraw path: once joined, the stake belongs to the pool
// permanently.
func (e *Engine) JoinChallenge(ctx context.Context, caller string, challengeID uint64) error {
	const op = "join_challenge"

	return e.exec(ctx, caller, op,
		map[string]any{"challenge_id": challengeID},
		func(st *ledger.State, height int64) (map[string]any, error) {
			challenge, found, err := st.GetChallenge(challengeID)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, reject(ErrCodeChallengeNotFound, op, caller,
					fmt.Sprintf("no challenge %d", challengeID))
			}
			if !challenge.IsActive || height < challenge.StartTime {
				return nil, reject(ErrCodeChallengeNotActive, op, caller, "challenge closed or not started")
			}
			if height >= challenge.EndTime {
				return nil, reject(ErrCodeChallengeExpired, op, caller, "challenge window has ended")
			}

			balance, err := st.GetBalance(caller)
			if err != nil {
				return nil, err
			}
			if balance < challenge.StakeAmount {
				return nil, reject(ErrCodeInsufficientTokens, op, caller, "balance cannot cover stake")
			}

			if _, joined, err := st.GetParticipation(challengeID, caller); err != nil {
				return nil, err
			} else if joined {
				return nil, reject(ErrCodeAlreadyJoined, op, caller, "already participating")
			}

			// Escrow: the stake leaves the balance and moves into the
			// pool; it is not burned, so supply is unchanged.
			if err := st.PutBalance(caller, balance-challenge.StakeAmount); err != nil {
				return nil, err
			}
			if challenge.RewardPool, err = addChecked(challenge.RewardPool, challenge.StakeAmount, op); err != nil {
				return nil, err
			}
			if challenge.ParticipantCount, err = addChecked(challenge.ParticipantCount, 1, op); err != nil {
				return nil, err
			}
			if err := st.PutChallenge(challenge); err != nil {
				return nil, err
			}

			if err := st.PutParticipation(ledger.Participation{
				ChallengeID:       challengeID,
				Principal:         caller,
				StakeAmount:       challenge.StakeAmount,
				WorkoutsCompleted: 0,
				RewardClaimed:     false,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"ok": true}, nil
		})
}

// RecordChallengeWorkout credits one of the caller's verified workouts
// toward their challenge progress.
//
// There is deliberately no uniqueness check on the workout id: the same
// verified workout can be submitted repeatedly and will inflate
// workouts_completed each time. Known defect carried over from the
// original rules; callers should not rely on the counter being unique
// per workout.
func (e *Engine) RecordChallengeWorkout(ctx context.Context, caller string, challengeID, workoutID uint64) error {
	const op = "record_challenge_workout"

	return e.exec(ctx, caller, op,
		map[string]any{"challenge_id": challengeID, "workout_id": workoutID},
		func(st *ledger.State, height int64) (map[string]any, error) {
			challenge, found, err := st.GetChallenge(challengeID)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, reject(ErrCodeChallengeNotFound, op, caller,
					fmt.Sprintf("no challenge %d", challengeID))
			}

			participation, found, err := st.GetParticipation(challengeID, caller)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, reject(ErrCodeParticipationNotFound, op, caller, "caller never joined this challenge")
			}

			workout, found, err := st.GetWorkout(caller, workoutID)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, reject(ErrCodeWorkoutNotFound, op, caller,
					fmt.Sprintf("no workout %d", workoutID))
			}

			if !challenge.IsActive || height < challenge.StartTime {
				return nil, reject(ErrCodeChallengeNotActive, op, caller, "challenge closed or not started")
			}
			if height >= challenge.EndTime {
				return nil, reject(ErrCodeChallengeExpired, op, caller, "challenge window has ended")
			}
			if !workout.Verified {
				return nil, reject(ErrCodeWorkoutNotVerified, op, caller, "workout has not been verified")
			}

			if participation.WorkoutsCompleted, err = addChecked(participation.WorkoutsCompleted, 1, op); err != nil {
				return nil, err
			}
			if err := st.PutParticipation(participation); err != nil {
				return nil, err
			}
			return map[string]any{"ok": true}, nil
		})
}

// EndChallenge closes a challenge: is_active flips to false and stays
// false. Owner or any authorized verifier may close.
//
// No reward distribution happens here. There is no payout path in the
// current rules, so the escrowed pool stays where it is after close.
func (e *Engine) EndChallenge(ctx context.Context, caller string, challengeID uint64) error {
	const op = "end_challenge"

	return e.exec(ctx, caller, op,
		map[string]any{"challenge_id": challengeID},
		func(st *ledger.State, height int64) (map[string]any, error) {
			owner, err := e.owner(st)
			if err != nil {
				return nil, err
			}
			authorized := caller == owner
			if !authorized {
				if authorized, err = st.IsVerifier(caller); err != nil {
					return nil, err
				}
			}
			if !authorized {
				return nil, reject(ErrCodeNotAuthorized, op, caller, "owner or verifier only")
			}

			challenge, found, err := st.GetChallenge(challengeID)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, reject(ErrCodeChallengeNotFound, op, caller,
					fmt.Sprintf("no challenge %d", challengeID))
			}

			challenge.IsActive = false
			if err := st.PutChallenge(challenge); err != nil {
				return nil, err
			}
			return map[string]any{"ok": true}, nil
		})
}
