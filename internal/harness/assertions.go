package harness

import (
	"context"
	"fmt"

	"github.com/fitledger/fitledger/internal/engine"
)

// evaluateAssertions checks each final-state assertion against the real
// engine and records every mismatch on the result.
func evaluateAssertions(ctx context.Context, eng *engine.Engine, assertions []Assertion, result *Result) {
	for i, a := range assertions {
		label := fmt.Sprintf("assertions[%d] %s", i, a.Type)

		switch a.Type {
		case AssertBalance:
			balance, err := eng.GetTokenBalance(ctx, a.Principal)
			if err != nil {
				result.AddError(fmt.Sprintf("%s: %v", label, err))
				continue
			}
			if balance != a.Amount {
				result.AddError(fmt.Sprintf("%s: balance of %s is %d, want %d", label, a.Principal, balance, a.Amount))
			}

		case AssertSupply:
			supply, err := eng.GetTokenSupply(ctx)
			if err != nil {
				result.AddError(fmt.Sprintf("%s: %v", label, err))
				continue
			}
			if supply != a.Amount {
				result.AddError(fmt.Sprintf("%s: supply is %d, want %d", label, supply, a.Amount))
			}

		case AssertHeight:
			height, err := eng.CurrentHeight(ctx)
			if err != nil {
				result.AddError(fmt.Sprintf("%s: %v", label, err))
				continue
			}
			if height != a.Value {
				result.AddError(fmt.Sprintf("%s: height is %d, want %d", label, height, a.Value))
			}

		case AssertStreak:
			current, longest, err := eng.GetUserStreak(ctx, a.User)
			if err != nil {
				result.AddError(fmt.Sprintf("%s: %v", label, err))
				continue
			}
			if current != a.Current || longest != a.Longest {
				result.AddError(fmt.Sprintf("%s: streak of %s is %d/%d, want %d/%d",
					label, a.User, current, longest, a.Current, a.Longest))
			}

		case AssertProfile:
			acct, found, err := eng.GetUserProfile(ctx, a.User)
			if err != nil {
				result.AddError(fmt.Sprintf("%s: %v", label, err))
				continue
			}
			if !found {
				result.AddError(fmt.Sprintf("%s: no account for %s", label, a.User))
				continue
			}
			checkSubset(label, a.Expect, map[string]interface{}{
				"total_workouts":      acct.TotalWorkouts,
				"current_streak":      acct.CurrentStreak,
				"longest_streak":      acct.LongestStreak,
				"last_workout_time":   acct.LastWorkoutTime,
				"total_tokens_earned": acct.TotalTokensEarned,
				"total_duration":      acct.TotalDuration,
			}, result)

		case AssertChallenge:
			c, found, err := eng.GetChallenge(ctx, a.Challenge)
			if err != nil {
				result.AddError(fmt.Sprintf("%s: %v", label, err))
				continue
			}
			if !found {
				result.AddError(fmt.Sprintf("%s: no challenge %d", label, a.Challenge))
				continue
			}
			checkSubset(label, a.Expect, map[string]interface{}{
				"name":              c.Name,
				"start_time":        c.StartTime,
				"end_time":          c.EndTime,
				"stake_amount":      c.StakeAmount,
				"reward_pool":       c.RewardPool,
				"participant_count": c.ParticipantCount,
				"is_active":         c.IsActive,
			}, result)

		case AssertParticipation:
			p, found, err := eng.GetChallengeParticipation(ctx, a.Challenge, a.User)
			if err != nil {
				result.AddError(fmt.Sprintf("%s: %v", label, err))
				continue
			}
			if !found {
				result.AddError(fmt.Sprintf("%s: %s never joined challenge %d", label, a.User, a.Challenge))
				continue
			}
			checkSubset(label, a.Expect, map[string]interface{}{
				"stake_amount":       p.StakeAmount,
				"workouts_completed": p.WorkoutsCompleted,
				"reward_claimed":     p.RewardClaimed,
			}, result)

		case AssertVerifier:
			authorized, err := eng.IsAuthorizedVerifier(ctx, a.Principal)
			if err != nil {
				result.AddError(fmt.Sprintf("%s: %v", label, err))
				continue
			}
			if authorized != a.Authorized {
				result.AddError(fmt.Sprintf("%s: verifier status of %s is %t, want %t",
					label, a.Principal, authorized, a.Authorized))
			}

		case AssertTraceCount:
			events, err := eng.ReadTrace(ctx, "", 0)
			if err != nil {
				result.AddError(fmt.Sprintf("%s: %v", label, err))
				continue
			}
			count := 0
			for _, ev := range events {
				if ev.Op == a.Op {
					count++
				}
			}
			if count != a.Count {
				result.AddError(fmt.Sprintf("%s: op %s appears %d times, want %d", label, a.Op, count, a.Count))
			}

		case AssertTraceOrder:
			events, err := eng.ReadTrace(ctx, "", 0)
			if err != nil {
				result.AddError(fmt.Sprintf("%s: %v", label, err))
				continue
			}
			if len(events) != len(a.Ops) {
				result.AddError(fmt.Sprintf("%s: trail has %d events, want %d", label, len(events), len(a.Ops)))
				continue
			}
			for j, ev := range events {
				if ev.Op != a.Ops[j] {
					result.AddError(fmt.Sprintf("%s: event %d is %s, want %s", label, j, ev.Op, a.Ops[j]))
				}
			}
		}
	}
}

// checkSubset verifies that every expected field matches the actual
// value map. Fields absent from expected are not compared.
func checkSubset(label string, expected, actual map[string]interface{}, result *Result) {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok {
			result.AddError(fmt.Sprintf("%s: unknown field %q", label, key))
			continue
		}
		if !equalLoose(want, got) {
			result.AddError(fmt.Sprintf("%s: field %q is %v, want %v", label, key, got, want))
		}
	}
}

// equalLoose compares scenario values (YAML ints) against engine values
// (sized integers, booleans, strings) without caring about the exact
// integer type.
func equalLoose(want, got interface{}) bool {
	if wi, ok := asInt64(want); ok {
		gi, ok := asInt64(got)
		return ok && wi == gi
	}
	return want == got
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}
