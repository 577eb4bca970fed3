package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofiasare/susu/internal/pkg/apperrors"
)

func TestCommunityRepositoryCreateEnrollsAdmin(t *testing.T) {
	pool := testPool(t)
	adminID := createTestUser(t, pool, "admin@example.com")

	community := createTestCommunity(t, pool, adminID, 5, 3)

	assert.Equal(t, 1, community.MemberCount)
	assert.Equal(t, 1, countRows(t, pool, `
		SELECT COUNT(*) FROM community_members
		WHERE community_id = $1 AND user_id = $2 AND position = 1`,
		community.ID, adminID))
}

func TestCommunityRepositoryJoinAssignsSequentialPositions(t *testing.T) {
	pool := testPool(t)
	repo := NewCommunityRepository(pool)
	adminID := createTestUser(t, pool, "admin@example.com")
	community := createTestCommunity(t, pool, adminID, 5, 5)

	first := createTestUser(t, pool, "first@example.com")
	second := createTestUser(t, pool, "second@example.com")

	result, err := repo.Join(context.Background(), community.ID, first)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Position)

	result, err = repo.Join(context.Background(), community.ID, second)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Position)
	assert.Equal(t, 3, result.MemberCount)
}

func TestCommunityRepositoryJoinRejectsDuplicate(t *testing.T) {
	pool := testPool(t)
	repo := NewCommunityRepository(pool)
	adminID := createTestUser(t, pool, "admin@example.com")
	community := createTestCommunity(t, pool, adminID, 5, 5)
	userID := createTestUser(t, pool, "member@example.com")

	_, err := repo.Join(context.Background(), community.ID, userID)
	require.NoError(t, err)

	_, err = repo.Join(context.Background(), community.ID, userID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
}

func TestCommunityRepositoryJoinEnforcesCapacityAtBoundary(t *testing.T) {
	pool := testPool(t)
	repo := NewCommunityRepository(pool)
	adminID := createTestUser(t, pool, "admin@example.com")
	community := createTestCommunity(t, pool, adminID, 2, 2)

	fits := createTestUser(t, pool, "fits@example.com")
	_, err := repo.Join(context.Background(), community.ID, fits)
	require.NoError(t, err)

	overflow := createTestUser(t, pool, "overflow@example.com")
	_, err = repo.Join(context.Background(), community.ID, overflow)
	assert.ErrorIs(t, err, apperrors.ErrCommunityFull)

	assert.Equal(t, 2, countRows(t, pool, `
		SELECT COUNT(*) FROM community_members WHERE community_id = $1`, community.ID))
}

func TestCommunityRepositoryJoinActivationOpensCycleAndSlots(t *testing.T) {
	pool := testPool(t)
	repo := NewCommunityRepository(pool)
	adminID := createTestUser(t, pool, "admin@example.com")
	community := createTestCommunity(t, pool, adminID, 5, 3)

	second := createTestUser(t, pool, "second@example.com")
	result, err := repo.Join(context.Background(), community.ID, second)
	require.NoError(t, err)
	assert.False(t, result.Activated)

	third := createTestUser(t, pool, "third@example.com")
	result, err = repo.Join(context.Background(), community.ID, third)
	require.NoError(t, err)
	assert.True(t, result.Activated)

	assert.Equal(t, 1, countRows(t, pool, `
		SELECT COUNT(*) FROM community_cycles WHERE community_id = $1`, community.ID))

	cycle, err := repo.LatestCycle(context.Background(), community.ID)
	require.NoError(t, err)
	require.NotNil(t, cycle)
	assert.Equal(t, 1, cycle.CycleNumber)
	assert.False(t, cycle.IsComplete)

	slots, err := repo.MidCyclesByCycleID(context.Background(), cycle.ID)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for i, slot := range slots {
		assert.False(t, slot.IsComplete)
		assert.Nil(t, slot.PayoutMemberID)
		if i > 0 {
			assert.True(t, slot.PayoutDate.After(slots[i-1].PayoutDate))
		}
	}
}

func TestCommunityRepositoryLateJoinerGetsPayoutSlot(t *testing.T) {
	pool := testPool(t)
	repo := NewCommunityRepository(pool)
	community, cycle, _ := seedActiveCommunity(t, pool, "late")

	late := createTestUser(t, pool, "late@example.com")
	result, err := repo.Join(context.Background(), community.ID, late)
	require.NoError(t, err)
	assert.False(t, result.Activated)
	assert.Equal(t, 4, result.Position)

	slots, err := repo.MidCyclesByCycleID(context.Background(), cycle.ID)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	last := slots[len(slots)-1]
	assert.True(t, last.PayoutDate.After(slots[len(slots)-2].PayoutDate))
}
