package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kofiasare/susu/internal/app/models"
)

// memberRepository handles membership read operations
type memberRepository struct {
	db *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{db: pool}
}

// GetByCommunityAndUser retrieves a membership row. Returns nil, nil when the
// user is not a member.
func (r *memberRepository) GetByCommunityAndUser(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
	member := &models.CommunityMember{}
	err := r.db.QueryRow(ctx, `
		SELECT id, community_id, user_id, position, status, contribution_paid, penalty, joined_at
		FROM community_members
		WHERE community_id = $1 AND user_id = $2`,
		communityID, userID).Scan(
		&member.ID, &member.CommunityID, &member.UserID, &member.Position,
		&member.Status, &member.ContributionPaid, &member.Penalty, &member.JoinedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving membership: %w", err)
	}

	return member, nil
}

// ListByCommunity retrieves all members of a community ordered by position,
// with their user profiles attached.
func (r *memberRepository) ListByCommunity(ctx context.Context, communityID int64) ([]models.CommunityMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.community_id, m.user_id, m.position, m.status,
		       m.contribution_paid, m.penalty, m.joined_at,
		       u.id, u.email, u.first_name, u.last_name, u.role_type, u.created_at, u.updated_at
		FROM community_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.community_id = $1
		ORDER BY m.position`,
		communityID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	members := []models.CommunityMember{}
	for rows.Next() {
		var m models.CommunityMember
		var u models.User
		err := rows.Scan(
			&m.ID, &m.CommunityID, &m.UserID, &m.Position, &m.Status,
			&m.ContributionPaid, &m.Penalty, &m.JoinedAt,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.RoleType, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		m.User = &u
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}
