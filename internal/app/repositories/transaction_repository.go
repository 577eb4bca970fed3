package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/pkg/helpers"
)

// transactionRepository handles ledger read operations
type transactionRepository struct {
	db *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{db: pool}
}

// ListByUserID retrieves a user's ledger entries newest first with pagination
func (r *transactionRepository) ListByUserID(ctx context.Context, userID int64, page, size int) ([]models.WalletTransaction, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	rows, err := r.db.Query(ctx, `
		SELECT id, reference, user_id, amount, type, description, community_id, cycle_id, recipient_id, created_at,
		       COUNT(*) OVER() AS total_count
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.WalletTransaction{}
	var total int64
	for rows.Next() {
		var t models.WalletTransaction
		err := rows.Scan(&t.ID, &t.Reference, &t.UserID, &t.Amount, &t.Type,
			&t.Description, &t.CommunityID, &t.CycleID, &t.RecipientID, &t.CreatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, total, nil
}
