package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/pkg/apperrors"
)

func TestWalletRepositoryWithdrawInsufficientLeavesStateUnchanged(t *testing.T) {
	pool := testPool(t)
	repo := NewWalletRepository(pool)
	userID := createTestUser(t, pool, "saver@example.com")
	createTestWallet(t, pool, userID, decimal.NewFromInt(40))

	err := repo.Withdraw(context.Background(), userID, decimal.NewFromInt(41), "too much")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	wallet, err := repo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, wallet.AvailableBalance.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 0, countRows(t, pool, `
		SELECT COUNT(*) FROM wallet_transactions WHERE user_id = $1`, userID))
}

func TestWalletRepositoryFrozenWalletBlocksSpending(t *testing.T) {
	pool := testPool(t)
	repo := NewWalletRepository(pool)
	userID := createTestUser(t, pool, "frozen@example.com")
	otherID := createTestUser(t, pool, "other@example.com")
	createTestWallet(t, pool, userID, decimal.NewFromInt(100))
	createTestWallet(t, pool, otherID, decimal.Zero)
	require.NoError(t, repo.SetFrozen(context.Background(), userID, true))

	ten := decimal.NewFromInt(10)
	assert.ErrorIs(t, repo.Withdraw(context.Background(), userID, ten, "w"), apperrors.ErrWalletFrozen)
	assert.ErrorIs(t, repo.Fix(context.Background(), userID, ten, time.Now().AddDate(0, 0, 30), "f"), apperrors.ErrWalletFrozen)
	assert.ErrorIs(t, repo.Transfer(context.Background(), userID, otherID, ten, "s", "r"), apperrors.ErrWalletFrozen)

	wallet, err := repo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, wallet.AvailableBalance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 0, countRows(t, pool, `
		SELECT COUNT(*) FROM wallet_transactions WHERE user_id = $1`, userID))
}

func TestWalletRepositoryTransferMovesFundsAtomically(t *testing.T) {
	pool := testPool(t)
	repo := NewWalletRepository(pool)
	senderID := createTestUser(t, pool, "sender@example.com")
	recipientID := createTestUser(t, pool, "recipient@example.com")
	createTestWallet(t, pool, senderID, decimal.NewFromInt(100))
	createTestWallet(t, pool, recipientID, decimal.Zero)

	err := repo.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(40), "out", "in")
	require.NoError(t, err)

	sender, err := repo.GetByUserID(context.Background(), senderID)
	require.NoError(t, err)
	recipient, err := repo.GetByUserID(context.Background(), recipientID)
	require.NoError(t, err)
	assert.True(t, sender.AvailableBalance.Equal(decimal.NewFromInt(60)))
	assert.True(t, recipient.AvailableBalance.Equal(decimal.NewFromInt(40)))

	assert.Equal(t, 2, countRows(t, pool, `
		SELECT COUNT(*) FROM wallet_transactions WHERE type = $1`, models.TransactionTransfer))
}

func TestWalletRepositoryContributeRecordsCycle(t *testing.T) {
	pool := testPool(t)
	repo := NewWalletRepository(pool)
	community, cycle, userIDs := seedActiveCommunity(t, pool, "contrib")
	memberID := userIDs[1]
	createTestWallet(t, pool, memberID, decimal.NewFromInt(200))

	err := repo.Contribute(context.Background(), memberID, community.ID, &cycle.ID, decimal.NewFromInt(50), "weekly contribution")
	require.NoError(t, err)

	wallet, err := repo.GetByUserID(context.Background(), memberID)
	require.NoError(t, err)
	assert.True(t, wallet.AvailableBalance.Equal(decimal.NewFromInt(150)))

	var recordedCycle int64
	require.NoError(t, pool.QueryRow(context.Background(), `
		SELECT cycle_id FROM wallet_transactions
		WHERE user_id = $1 AND type = $2`,
		memberID, models.TransactionContribution).Scan(&recordedCycle))
	assert.Equal(t, cycle.ID, recordedCycle)

	var backupFund, totalContribution decimal.Decimal
	require.NoError(t, pool.QueryRow(context.Background(), `
		SELECT backup_fund, total_contribution FROM communities WHERE id = $1`,
		community.ID).Scan(&backupFund, &totalContribution))
	assert.True(t, backupFund.Equal(decimal.NewFromInt(5)))
	assert.True(t, totalContribution.Equal(decimal.NewFromInt(50)))
}

func TestWalletRepositoryContributeRejectsForeignCycle(t *testing.T) {
	pool := testPool(t)
	repo := NewWalletRepository(pool)
	community, _, userIDs := seedActiveCommunity(t, pool, "home")
	_, foreignCycle, _ := seedActiveCommunity(t, pool, "foreign")
	memberID := userIDs[1]
	createTestWallet(t, pool, memberID, decimal.NewFromInt(200))

	err := repo.Contribute(context.Background(), memberID, community.ID, &foreignCycle.ID, decimal.NewFromInt(50), "misdirected")
	require.Error(t, err)

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.ErrorIs(t, customErr.Err, apperrors.ErrBadRequest)

	wallet, err := repo.GetByUserID(context.Background(), memberID)
	require.NoError(t, err)
	assert.True(t, wallet.AvailableBalance.Equal(decimal.NewFromInt(200)))
}

func TestWalletRepositoryPayoutCompletesSlot(t *testing.T) {
	pool := testPool(t)
	walletRepo := NewWalletRepository(pool)
	communityRepo := NewCommunityRepository(pool)
	community, cycle, userIDs := seedActiveCommunity(t, pool, "payout")
	memberID := userIDs[1]
	createTestWallet(t, pool, memberID, decimal.Zero)

	slots, err := communityRepo.MidCyclesByCycleID(context.Background(), cycle.ID)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	amount := decimal.NewFromInt(150)
	err = walletRepo.Payout(context.Background(), memberID, community.ID, slots[0].ID, amount, "first payout")
	require.NoError(t, err)

	wallet, err := walletRepo.GetByUserID(context.Background(), memberID)
	require.NoError(t, err)
	assert.True(t, wallet.AvailableBalance.Equal(amount))

	slots, err = communityRepo.MidCyclesByCycleID(context.Background(), cycle.ID)
	require.NoError(t, err)
	assert.True(t, slots[0].IsComplete)
	require.NotNil(t, slots[0].PayoutMemberID)
	assert.Equal(t, memberID, *slots[0].PayoutMemberID)

	// a completed slot cannot be paid again
	err = walletRepo.Payout(context.Background(), memberID, community.ID, slots[0].ID, amount, "double payout")
	require.Error(t, err)
}

func TestWalletRepositoryPayoutScopedToCommunity(t *testing.T) {
	pool := testPool(t)
	walletRepo := NewWalletRepository(pool)
	communityRepo := NewCommunityRepository(pool)
	homeCommunity, _, userIDs := seedActiveCommunity(t, pool, "home")
	_, foreignCycle, _ := seedActiveCommunity(t, pool, "foreign")
	memberID := userIDs[1]
	createTestWallet(t, pool, memberID, decimal.Zero)

	foreignSlots, err := communityRepo.MidCyclesByCycleID(context.Background(), foreignCycle.ID)
	require.NoError(t, err)
	require.NotEmpty(t, foreignSlots)

	err = walletRepo.Payout(context.Background(), memberID, homeCommunity.ID, foreignSlots[0].ID, decimal.NewFromInt(150), "cross payout")
	require.Error(t, err)

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.ErrorIs(t, customErr.Err, apperrors.ErrConflict)

	foreignSlots, err = communityRepo.MidCyclesByCycleID(context.Background(), foreignCycle.ID)
	require.NoError(t, err)
	assert.False(t, foreignSlots[0].IsComplete)

	wallet, err := walletRepo.GetByUserID(context.Background(), memberID)
	require.NoError(t, err)
	assert.True(t, wallet.AvailableBalance.Equal(decimal.Zero))
}

func TestWalletRepositoryPenaltyMayGoNegative(t *testing.T) {
	pool := testPool(t)
	repo := NewWalletRepository(pool)
	community, _, userIDs := seedActiveCommunity(t, pool, "penalty")
	memberID := userIDs[1]
	createTestWallet(t, pool, memberID, decimal.NewFromInt(5))

	err := repo.ApplyPenalty(context.Background(), memberID, community.ID, decimal.NewFromInt(20), "missed contribution")
	require.NoError(t, err)

	wallet, err := repo.GetByUserID(context.Background(), memberID)
	require.NoError(t, err)
	assert.True(t, wallet.AvailableBalance.Equal(decimal.NewFromInt(-15)))
}
