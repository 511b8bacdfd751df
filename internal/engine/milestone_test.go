package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitledger/fitledger/internal/reward"
)

func TestUnclaimedMilestones_UnknownUser(t *testing.T) {
	e := newTestEngine(t)

	pending, err := e.UnclaimedMilestones(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUnclaimedMilestones_BelowThreshold(t *testing.T) {
	e := newTestEngine(t)

	for i := 0; i < 9; i++ {
		recordAndVerify(t, e, "alice", 60)
	}

	pending, err := e.UnclaimedMilestones(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUnclaimedMilestones_FirstTierReached(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		recordAndVerify(t, e, "alice", 60)
	}

	pending, err := e.UnclaimedMilestones(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, reward.Milestone{Threshold: 10, Reward: 50}, pending[0])

	// Nothing claims the milestone, so it stays pending.
	claimed, err := e.IsMilestoneClaimed(ctx, "alice", 10)
	require.NoError(t, err)
	assert.False(t, claimed)

	again, err := e.UnclaimedMilestones(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, pending, again)
}
