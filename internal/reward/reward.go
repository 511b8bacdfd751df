// Package reward holds the pure reward and streak arithmetic. Nothing
// here touches storage; the engine feeds it state and applies the
// results inside its own transaction.
package reward

// Reward formula constants. These are fixed protocol values, not
// configuration.
const (
	BaseReward       = 10
	StreakMultiplier = 1
	MaxStreakBonus   = 50

	// MinWorkoutDuration is the shortest recordable workout, in minutes.
	MinWorkoutDuration = 15

	// OneDay is one day expressed in logical height units.
	OneDay = 144
)

// Calculate returns the token reward for a verified workout.
//
//	reward = BaseReward + min(MaxStreakBonus, StreakMultiplier*streak) * (duration / 60)
//
// duration/60 is integer division: any workout under 60 minutes has a
// duration factor of 0, so the reward collapses to exactly BaseReward
// no matter how long the streak is. That cliff is part of the protocol
// and must not be smoothed out.
func Calculate(currentStreak, duration uint64) uint64 {
	bonus := StreakMultiplier * currentStreak
	if bonus > MaxStreakBonus {
		bonus = MaxStreakBonus
	}
	return BaseReward + bonus*(duration/60)
}

// NextStreak advances the streak state machine for a workout verified
// at the given height.
//
//	first workout or gap > 2 days  -> streak resets to 1
//	1 day < gap < 2 days           -> streak increments (next-day workout)
//	gap <= 1 day                   -> streak holds (same-day repeat)
//
// lastWorkoutTime == 0 means the user has never had a verified workout.
func NextStreak(currentStreak uint64, lastWorkoutTime, height int64) uint64 {
	if lastWorkoutTime == 0 {
		return 1
	}
	gap := height - lastWorkoutTime
	switch {
	case gap > 2*OneDay:
		return 1
	case gap > OneDay:
		return currentStreak + 1
	default:
		return currentStreak
	}
}

// MaxU64 returns the larger of a and b.
func MaxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
