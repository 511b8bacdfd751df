package ledger

// Account is a user profile row, keyed by principal. Created lazily on
// first registration or first workout record; never deleted.
//
// NextWorkoutID is the per-user monotone workout counter: it starts at
// 1 and is consumed (then advanced) each time a workout is recorded.
// Assigned workout ids are never reused.
type Account struct {
	Principal         string
	TotalWorkouts     uint64
	CurrentStreak     uint64
	LongestStreak     uint64
	LastWorkoutTime   int64 // height of the most recent verified workout, 0 = never
	TotalTokensEarned uint64
	TotalDuration     uint64
	NextWorkoutID     uint64
}

// Workout is an immutable-after-verification workout record, keyed by
// (principal, workout id). Created unverified with TokensEarned = 0;
// flips to verified exactly once.
type Workout struct {
	Principal    string
	WorkoutID    uint64
	RecordedAt   int64 // height at record time
	Duration     uint64
	WorkoutType  string
	Verified     bool
	TokensEarned uint64
}

// Challenge is a stake-based group challenge, keyed by an
// auto-incrementing id starting at 1. RewardPool holds the escrowed
// stakes; IsActive transitions true -> false exactly once.
type Challenge struct {
	ChallengeID      uint64
	Name             string
	Description      string
	StartTime        int64
	EndTime          int64
	StakeAmount      uint64
	RewardPool       uint64
	ParticipantCount uint64
	IsActive         bool
}

// Participation records one user's membership in one challenge.
// StakeAmount is copied from the challenge at join time; a later change
// to the challenge never touches existing stakers.
type Participation struct {
	ChallengeID       uint64
	Principal         string
	StakeAmount       uint64
	WorkoutsCompleted uint64
	RewardClaimed     bool
}

// Counter names used in the counters table.
const (
	CounterHeight          = "height"
	CounterNextChallengeID = "next_challenge_id"
)

// Config keys used in the config table.
const (
	ConfigOwner       = "owner"
	ConfigInitialized = "initialized"
)
