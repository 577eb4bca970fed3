package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/app/models/dto"
	"github.com/kofiasare/susu/internal/db"
	"github.com/kofiasare/susu/internal/pkg/apperrors"
	"github.com/kofiasare/susu/internal/pkg/dberrors"
	"github.com/kofiasare/susu/internal/pkg/helpers"
	"github.com/kofiasare/susu/internal/pkg/logger"
)

// payoutIntervalDays spaces consecutive payout slots within a cycle.
const payoutIntervalDays = 30

const communityColumns = `
	id, name, description, admin_id, min_contribution, max_members, member_count,
	first_cycle_min, backup_fund, backup_fund_percentage, positioning_mode, status,
	total_contribution, contribution_goal, is_private, created_at, updated_at`

// communityRepository handles database operations for savings circles
type communityRepository struct {
	db *pgxpool.Pool
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(pool *pgxpool.Pool) CommunityRepository {
	return &communityRepository{db: pool}
}

func scanCommunity(row pgx.Row, c *models.Community) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Description, &c.AdminID, &c.MinContribution, &c.MaxMembers,
		&c.MemberCount, &c.FirstCycleMin, &c.BackupFund, &c.BackupFundPercentage,
		&c.PositioningMode, &c.Status, &c.TotalContribution, &c.ContributionGoal,
		&c.IsPrivate, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a new community and enrolls its creator as the member at
// position 1, in one transaction. The community starts Locked with a member
// count of 1.
func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO communities (
				name, description, admin_id, min_contribution, max_members, member_count,
				first_cycle_min, backup_fund, backup_fund_percentage, positioning_mode,
				status, total_contribution, contribution_goal, is_private)
			VALUES ($1, $2, $3, $4, $5, 1, $6, 0, $7, $8, $9, 0, $10, $11)
			RETURNING id, created_at, updated_at`,
			community.Name, community.Description, community.AdminID,
			community.MinContribution, community.MaxMembers, community.FirstCycleMin,
			community.BackupFundPercentage, community.PositioningMode,
			models.CommunityLocked, community.ContributionGoal, community.IsPrivate).
			Scan(&community.ID, &community.CreatedAt, &community.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating community: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO community_members (community_id, user_id, position, status, contribution_paid, penalty)
			VALUES ($1, $2, 1, $3, 0, 0)`,
			community.ID, community.AdminID, models.MemberActive)
		if err != nil {
			return fmt.Errorf("error enrolling community admin: %w", err)
		}

		community.MemberCount = 1
		community.Status = models.CommunityLocked
		return nil
	})
}

// GetByID retrieves a community by ID
func (r *communityRepository) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	community := &models.Community{}
	row := r.db.QueryRow(ctx, `SELECT`+communityColumns+` FROM communities WHERE id = $1`, id)
	if err := scanCommunity(row, community); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("error retrieving community: %w", err)
	}
	return community, nil
}

// List retrieves communities with filtering and pagination. Scope "my"
// restricts to communities the user belongs to; otherwise private circles
// are hidden unless the user is a member.
func (r *communityRepository) List(ctx context.Context, filter *dto.CommunityFilter) ([]models.Community, int64, error) {
	query := `
		SELECT ` + communityColumns + `, COUNT(*) OVER() AS total_count
		FROM communities c
		WHERE 1=1`

	args := []interface{}{}
	argIndex := 1

	switch filter.Scope {
	case "my":
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM community_members m
			WHERE m.community_id = c.id AND m.user_id = $%d)`, argIndex)
		args = append(args, filter.UserID)
		argIndex++
	default:
		query += fmt.Sprintf(` AND (c.is_private = false OR EXISTS (
			SELECT 1 FROM community_members m
			WHERE m.community_id = c.id AND m.user_id = $%d))`, argIndex)
		args = append(args, filter.UserID)
		argIndex++
	}

	if filter.Search != nil && *filter.Search != "" {
		query += fmt.Sprintf(" AND (c.name ILIKE $%d OR c.description ILIKE $%d)", argIndex, argIndex+1)
		pattern := "%" + *filter.Search + "%"
		args = append(args, pattern, pattern)
		argIndex += 2
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	query += fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing communities: %w", err)
	}
	defer rows.Close()

	communities := []models.Community{}
	var total int64
	for rows.Next() {
		var c models.Community
		err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.AdminID, &c.MinContribution, &c.MaxMembers,
			&c.MemberCount, &c.FirstCycleMin, &c.BackupFund, &c.BackupFundPercentage,
			&c.PositioningMode, &c.Status, &c.TotalContribution, &c.ContributionGoal,
			&c.IsPrivate, &c.CreatedAt, &c.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning community row: %w", err)
		}
		communities = append(communities, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating community rows: %w", err)
	}

	return communities, total, nil
}

// UpdateSettings applies a partial update to mutable community settings.
// The caller supplies column names already validated against the allowed set.
func (r *communityRepository) UpdateSettings(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	query := "UPDATE communities SET "
	args := []interface{}{}
	argIndex := 1
	for column, value := range updates {
		if argIndex > 1 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", column, argIndex)
		args = append(args, value)
		argIndex++
	}
	query += fmt.Sprintf(", updated_at = $%d WHERE id = $%d", argIndex, argIndex+1)
	args = append(args, time.Now(), id)

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating community settings: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommunityNotFound
	}

	return nil
}

// Join admits a user into a community atomically. The community row is locked
// for the duration so concurrent joins serialize: capacity and duplicate
// checks, position assignment and the member count increment all see a
// consistent row. When the member count reaches the first cycle minimum the
// community activates and its first cycle is opened in the same transaction,
// with one payout slot per member spaced payoutIntervalDays apart. A member
// joining an already active community gets a slot appended to the open cycle.
func (r *communityRepository) Join(ctx context.Context, communityID, userID int64) (*JoinResult, error) {
	result := &JoinResult{}

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var status models.CommunityStatus
		var memberCount, maxMembers, firstCycleMin int
		err := tx.QueryRow(ctx, `
			SELECT status, member_count, max_members, first_cycle_min
			FROM communities
			WHERE id = $1
			FOR UPDATE`,
			communityID).Scan(&status, &memberCount, &maxMembers, &firstCycleMin)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCommunityNotFound
			}
			return fmt.Errorf("error locking community: %w", err)
		}

		if memberCount >= maxMembers {
			return apperrors.ErrCommunityFull
		}

		var alreadyMember bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM community_members WHERE community_id = $1 AND user_id = $2)`,
			communityID, userID).Scan(&alreadyMember)
		if err != nil {
			return fmt.Errorf("error checking membership: %w", err)
		}
		if alreadyMember {
			return apperrors.ErrAlreadyMember
		}

		var position int
		err = tx.QueryRow(ctx, `
			SELECT COALESCE(MAX(position), 0) + 1
			FROM community_members
			WHERE community_id = $1`,
			communityID).Scan(&position)
		if err != nil {
			return fmt.Errorf("error assigning position: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO community_members (community_id, user_id, position, status, contribution_paid, penalty)
			VALUES ($1, $2, $3, $4, 0, 0)`,
			communityID, userID, position, models.MemberActive)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "community_members_community_id_user_id_key") {
				return apperrors.ErrAlreadyMember
			}
			return fmt.Errorf("error inserting member: %w", err)
		}

		memberCount++
		result.Position = position
		result.MemberCount = memberCount

		if status == models.CommunityLocked && memberCount >= firstCycleMin {
			_, err = tx.Exec(ctx, `
				UPDATE communities
				SET member_count = $1, status = $2, updated_at = $3
				WHERE id = $4`,
				memberCount, models.CommunityActive, time.Now(), communityID)
			if err != nil {
				return fmt.Errorf("error activating community: %w", err)
			}

			startDate := time.Now()
			var cycleID int64
			err = tx.QueryRow(ctx, `
				INSERT INTO community_cycles (community_id, cycle_number, start_date, is_complete)
				VALUES ($1, 1, $2, false)
				RETURNING id`,
				communityID, startDate).Scan(&cycleID)
			if err != nil {
				return fmt.Errorf("error opening first cycle: %w", err)
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO community_mid_cycles (cycle_id, payout_date)
				SELECT $1, $2::timestamptz + make_interval(days => (position - 1) * $3)
				FROM community_members
				WHERE community_id = $4`,
				cycleID, startDate, payoutIntervalDays, communityID)
			if err != nil {
				return fmt.Errorf("error creating payout slots: %w", err)
			}

			result.Activated = true
			logger.Info().Int64("communityID", communityID).Int("memberCount", memberCount).
				Msg("Community activated, first cycle opened")
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE communities
				SET member_count = $1, updated_at = $2
				WHERE id = $3`,
				memberCount, time.Now(), communityID)
			if err != nil {
				return fmt.Errorf("error updating member count: %w", err)
			}

			if status == models.CommunityActive {
				_, err = tx.Exec(ctx, `
					INSERT INTO community_mid_cycles (cycle_id, payout_date)
					SELECT c.id, c.start_date + make_interval(days => ($2 - 1) * $3)
					FROM community_cycles c
					WHERE c.community_id = $1 AND c.is_complete = false
					ORDER BY c.cycle_number DESC
					LIMIT 1`,
					communityID, position, payoutIntervalDays)
				if err != nil {
					return fmt.Errorf("error appending payout slot: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// LatestCycle returns the most recent cycle of a community, or nil, nil when
// the community has not activated yet.
func (r *communityRepository) LatestCycle(ctx context.Context, communityID int64) (*models.CommunityCycle, error) {
	cycle := &models.CommunityCycle{}
	err := r.db.QueryRow(ctx, `
		SELECT id, community_id, cycle_number, start_date, end_date, is_complete
		FROM community_cycles
		WHERE community_id = $1
		ORDER BY cycle_number DESC
		LIMIT 1`,
		communityID).Scan(
		&cycle.ID, &cycle.CommunityID, &cycle.CycleNumber,
		&cycle.StartDate, &cycle.EndDate, &cycle.IsComplete)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving latest cycle: %w", err)
	}

	return cycle, nil
}

// MidCyclesByCycleID returns the payout slots of a cycle ordered by payout date
func (r *communityRepository) MidCyclesByCycleID(ctx context.Context, cycleID int64) ([]models.CommunityMidCycle, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, cycle_id, payout_date, is_complete, payout_member_id, amount
		FROM community_mid_cycles
		WHERE cycle_id = $1
		ORDER BY payout_date`,
		cycleID)
	if err != nil {
		return nil, fmt.Errorf("error listing mid-cycles: %w", err)
	}
	defer rows.Close()

	midCycles := []models.CommunityMidCycle{}
	for rows.Next() {
		var mc models.CommunityMidCycle
		err := rows.Scan(&mc.ID, &mc.CycleID, &mc.PayoutDate, &mc.IsComplete, &mc.PayoutMemberID, &mc.Amount)
		if err != nil {
			return nil, fmt.Errorf("error scanning mid-cycle row: %w", err)
		}
		midCycles = append(midCycles, mc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mid-cycle rows: %w", err)
	}

	return midCycles, nil
}
