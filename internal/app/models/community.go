package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Community represents a rotating savings circle
type Community struct {
	ID                   int64           `json:"id" db:"id"`
	Name                 string          `json:"name" db:"name"`
	Description          string          `json:"description" db:"description"`
	AdminID              int64           `json:"adminId" db:"admin_id"`
	MinContribution      decimal.Decimal `json:"minContribution" db:"min_contribution"`
	MaxMembers           int             `json:"maxMembers" db:"max_members"`
	MemberCount          int             `json:"memberCount" db:"member_count"`
	FirstCycleMin        int             `json:"firstCycleMin" db:"first_cycle_min"`
	BackupFund           decimal.Decimal `json:"backupFund" db:"backup_fund"`
	BackupFundPercentage decimal.Decimal `json:"backupFundPercentage" db:"backup_fund_percentage"`
	PositioningMode      PositioningMode `json:"positioningMode" db:"positioning_mode"`
	Status               CommunityStatus `json:"status" db:"status"`
	TotalContribution    decimal.Decimal `json:"totalContribution" db:"total_contribution"`
	ContributionGoal     decimal.Decimal `json:"contributionGoal" db:"contribution_goal"`
	IsPrivate            bool            `json:"isPrivate" db:"is_private"`
	CreatedAt            time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time       `json:"updatedAt" db:"updated_at"`

	// Related entities
	Admin   *User              `json:"admin,omitempty"`
	Members []*CommunityMember `json:"members,omitempty"`
}

// HasCapacity reports whether the community can admit another member.
func (c *Community) HasCapacity() bool {
	return c.MemberCount < c.MaxMembers
}

// CommunityMember represents a user's membership in a community
type CommunityMember struct {
	ID               int64           `json:"id" db:"id"`
	CommunityID      int64           `json:"communityId" db:"community_id"`
	UserID           int64           `json:"userId" db:"user_id"`
	Position         int             `json:"position" db:"position"`
	Status           MemberStatus    `json:"status" db:"status"`
	ContributionPaid decimal.Decimal `json:"contributionPaid" db:"contribution_paid"`
	Penalty          decimal.Decimal `json:"penalty" db:"penalty"`
	JoinedAt         time.Time       `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}
