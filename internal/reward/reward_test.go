package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate_SubHourCollapsesToBase(t *testing.T) {
	// Any duration in [15, 59] pays exactly BaseReward, for any streak.
	for _, streak := range []uint64{0, 1, 7, 50, 1000} {
		for _, duration := range []uint64{15, 30, 45, 59} {
			got := Calculate(streak, duration)
			assert.Equal(t, uint64(BaseReward), got,
				"streak=%d duration=%d", streak, duration)
		}
	}
}

func TestCalculate_Table(t *testing.T) {
	tests := []struct {
		name     string
		streak   uint64
		duration uint64
		want     uint64
	}{
		{"first hour streak 1", 1, 60, 11},
		{"90 minutes streak 1", 1, 90, 11},
		{"two hours streak 1", 1, 120, 12},
		{"hour streak 10", 10, 60, 20},
		{"hour streak 50 hits cap", 50, 60, 60},
		{"hour streak 200 capped", 200, 60, 60},
		{"two hours streak 200 capped", 200, 120, 110},
		{"zero streak hour", 0, 60, 10},
		{"three hours streak 3", 3, 180, 19},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.streak, tt.duration))
		})
	}
}

func TestNextStreak_FirstWorkout(t *testing.T) {
	assert.Equal(t, uint64(1), NextStreak(0, 0, 100))
	// lastWorkoutTime 0 is "never", even with a nonzero stored streak.
	assert.Equal(t, uint64(1), NextStreak(5, 0, 100))
}

func TestNextStreak_Table(t *testing.T) {
	tests := []struct {
		name   string
		streak uint64
		last   int64
		height int64
		want   uint64
	}{
		{"same height repeat", 3, 500, 500, 3},
		{"same day holds", 3, 500, 400 + OneDay, 3},
		{"exactly one day holds", 3, 500, 500 + OneDay, 3},
		{"next day increments", 3, 500, 500 + OneDay + 1, 4},
		{"just under two days increments", 3, 500, 500 + 2*OneDay - 1, 4},
		{"exactly two days increments", 3, 500, 500 + 2*OneDay, 4},
		{"over two days resets", 9, 500, 500 + 2*OneDay + 1, 1},
		{"long gap resets", 9, 500, 500 + 40*OneDay, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.streak, tt.last, tt.height))
		})
	}
}

func TestReached(t *testing.T) {
	assert.Nil(t, Reached(0))
	assert.Nil(t, Reached(9))

	got := Reached(10)
	assert.Equal(t, []Milestone{{10, 50}}, got)

	got = Reached(120)
	assert.Equal(t, []Milestone{{10, 50}, {50, 300}, {100, 700}}, got)

	got = Reached(100000)
	assert.Len(t, got, len(Schedule))
}

func TestScheduleIsAscending(t *testing.T) {
	for i := 1; i < len(Schedule); i++ {
		assert.Greater(t, Schedule[i].Threshold, Schedule[i-1].Threshold)
	}
}
