package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/pkg/helpers"
)

// activityLogRepository handles audit trail persistence
type activityLogRepository struct {
	db *pgxpool.Pool
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(pool *pgxpool.Pool) ActivityLogRepository {
	return &activityLogRepository{db: pool}
}

// Save appends an audit trail entry
func (r *activityLogRepository) Save(ctx context.Context, entry models.ActivityLog) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("error encoding activity details: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO community_activity_logs (community_id, user_id, action, details)
		VALUES ($1, $2, $3, $4)`,
		entry.CommunityID, entry.UserID, entry.Action, details)
	if err != nil {
		return fmt.Errorf("error saving activity log: %w", err)
	}

	return nil
}

// ListByCommunity retrieves a community's audit trail newest first with pagination
func (r *activityLogRepository) ListByCommunity(ctx context.Context, communityID int64, page, size int) ([]models.ActivityLog, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	rows, err := r.db.Query(ctx, `
		SELECT id, community_id, user_id, action, details, created_at,
		       COUNT(*) OVER() AS total_count
		FROM community_activity_logs
		WHERE community_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		communityID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing activity logs: %w", err)
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	var total int64
	for rows.Next() {
		var entry models.ActivityLog
		var details []byte
		err := rows.Scan(&entry.ID, &entry.CommunityID, &entry.UserID,
			&entry.Action, &details, &entry.CreatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning activity log row: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, 0, fmt.Errorf("error decoding activity details: %w", err)
			}
		}
		logs = append(logs, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activity log rows: %w", err)
	}

	return logs, total, nil
}
