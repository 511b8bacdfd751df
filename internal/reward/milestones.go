package reward

// Milestone is one entry of the fixed milestone schedule: reach
// Threshold total workouts, earn Reward tokens.
type Milestone struct {
	Threshold uint64
	Reward    uint64
}

// Schedule is the static milestone table, ordered by ascending
// threshold. It is deliberately not storage-backed: the schedule is
// protocol data, not mutable state.
var Schedule = []Milestone{
	{Threshold: 10, Reward: 50},
	{Threshold: 50, Reward: 300},
	{Threshold: 100, Reward: 700},
	{Threshold: 250, Reward: 2000},
	{Threshold: 500, Reward: 5000},
}

// Reached returns the milestones a user with the given total workout
// count has reached, in schedule order. Claimed filtering is the
// engine's job; this is pure threshold arithmetic.
func Reached(totalWorkouts uint64) []Milestone {
	var out []Milestone
	for _, m := range Schedule {
		if totalWorkouts >= m.Threshold {
			out = append(out, m)
		}
	}
	return out
}
