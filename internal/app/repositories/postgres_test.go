package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kofiasare/susu/internal/app/models"
)

// testPool connects to the database named by TEST_DATABASE_URL, applies the
// schema and truncates every table. Tests using it are skipped when the
// variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		TRUNCATE users, refresh_tokens, communities, community_members,
		         community_cycles, community_mid_cycles, user_wallets,
		         fixed_deposits, wallet_transactions, community_activity_logs
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool, email string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO users (email, password, first_name, last_name)
		VALUES ($1, 'hashed', 'Test', 'User')
		RETURNING id`,
		email).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestWallet(t *testing.T, pool *pgxpool.Pool, userID int64, available decimal.Decimal) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO user_wallets (user_id, available_balance)
		VALUES ($1, $2)`,
		userID, available)
	require.NoError(t, err)
}

func createTestCommunity(t *testing.T, pool *pgxpool.Pool, adminID int64, maxMembers, firstCycleMin int) *models.Community {
	t.Helper()

	repo := NewCommunityRepository(pool)
	community := &models.Community{
		Name:                 "Market Circle",
		AdminID:              adminID,
		MinContribution:      decimal.NewFromInt(50),
		MaxMembers:           maxMembers,
		FirstCycleMin:        firstCycleMin,
		BackupFundPercentage: decimal.NewFromInt(10),
		PositioningMode:      models.PositioningRandom,
		ContributionGoal:     decimal.NewFromInt(500),
	}
	require.NoError(t, repo.Create(context.Background(), community))
	return community
}

// seedActiveCommunity creates a community with firstCycleMin members so it
// activates during the last join, and returns it with its open cycle.
func seedActiveCommunity(t *testing.T, pool *pgxpool.Pool, prefix string) (*models.Community, *models.CommunityCycle, []int64) {
	t.Helper()

	repo := NewCommunityRepository(pool)
	adminID := createTestUser(t, pool, prefix+"-admin@example.com")
	community := createTestCommunity(t, pool, adminID, 5, 3)
	userIDs := []int64{adminID}

	for i := 0; i < 2; i++ {
		userID := createTestUser(t, pool, prefix+"-member"+string(rune('a'+i))+"@example.com")
		_, err := repo.Join(context.Background(), community.ID, userID)
		require.NoError(t, err)
		userIDs = append(userIDs, userID)
	}

	cycle, err := repo.LatestCycle(context.Background(), community.ID)
	require.NoError(t, err)
	require.NotNil(t, cycle)
	return community, cycle, userIDs
}

func countRows(t *testing.T, pool *pgxpool.Pool, query string, args ...interface{}) int {
	t.Helper()

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}
