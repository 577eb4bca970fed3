package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kofiasare/susu/internal/app/models"
)

// CreateCommunityRequest represents the payload for creating a savings circle
type CreateCommunityRequest struct {
	Name                 string          `json:"name" binding:"required,min=3,max=100"`
	Description          string          `json:"description" binding:"max=500"`
	MinContribution      decimal.Decimal `json:"minContribution" binding:"required"`
	MaxMembers           int             `json:"maxMembers" binding:"required,min=2,max=100"`
	FirstCycleMin        int             `json:"firstCycleMin" binding:"omitempty,min=2"`
	BackupFundPercentage decimal.Decimal `json:"backupFundPercentage"`
	PositioningMode      string          `json:"positioningMode" binding:"omitempty,oneof=Random Fixed"`
	IsPrivate            bool            `json:"isPrivate"`
}

// UpdateCommunityRequest represents a partial settings update. Only the
// provided fields are written.
type UpdateCommunityRequest struct {
	Description          *string          `json:"description" binding:"omitempty,max=500"`
	MinContribution      *decimal.Decimal `json:"minContribution"`
	MaxMembers           *int             `json:"maxMembers" binding:"omitempty,min=2,max=100"`
	BackupFundPercentage *decimal.Decimal `json:"backupFundPercentage"`
	PositioningMode      *string          `json:"positioningMode" binding:"omitempty,oneof=Random Fixed"`
	IsPrivate            *bool            `json:"isPrivate"`
}

// CommunityFilter carries list query parameters
type CommunityFilter struct {
	Scope    string // "my" or "public"
	UserID   int64
	Search   *string
	Page     int
	PageSize int
}

// CommunityResponse represents a community in list and detail views
type CommunityResponse struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Status               string          `json:"status"`
	AdminID              int64           `json:"adminId"`
	Admin                *UserBasicResponse `json:"admin,omitempty"`
	MinContribution      decimal.Decimal `json:"minContribution"`
	MaxMembers           int             `json:"maxMembers"`
	MemberCount          int             `json:"memberCount"`
	FirstCycleMin        int             `json:"firstCycleMin"`
	BackupFund           decimal.Decimal `json:"backupFund"`
	BackupFundPercentage decimal.Decimal `json:"backupFundPercentage"`
	PositioningMode      string          `json:"positioningMode"`
	TotalContribution    decimal.Decimal `json:"totalContribution"`
	ContributionGoal     decimal.Decimal `json:"contributionGoal"`
	IsPrivate            bool            `json:"isPrivate"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// CommunityMemberResponse represents one membership row in a detail view
type CommunityMemberResponse struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"userId"`
	Position         int             `json:"position"`
	Status           string          `json:"status"`
	ContributionPaid decimal.Decimal `json:"contributionPaid"`
	Penalty          decimal.Decimal `json:"penalty"`
	JoinedAt         time.Time       `json:"joinedAt"`
	User             *UserBasicResponse `json:"user,omitempty"`
}

// MidCycleResponse represents one payout slot of the current cycle
type MidCycleResponse struct {
	ID             int64            `json:"id"`
	PayoutDate     time.Time        `json:"payoutDate"`
	IsComplete     bool             `json:"isComplete"`
	PayoutMemberID *int64           `json:"payoutMemberId,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
}

// CycleResponse represents the latest cycle of a community
type CycleResponse struct {
	ID          int64              `json:"id"`
	CycleNumber int                `json:"cycleNumber"`
	StartDate   time.Time          `json:"startDate"`
	EndDate     *time.Time         `json:"endDate,omitempty"`
	IsComplete  bool               `json:"isComplete"`
	MidCycles   []MidCycleResponse `json:"midCycles"`
}

// UserStatusResponse carries the caller's relation to a community
type UserStatusResponse struct {
	IsMember bool `json:"isMember"`
	IsAdmin  bool `json:"isAdmin"`
}

// CommunityDetailResponse is the full detail view of a community
type CommunityDetailResponse struct {
	CommunityResponse
	Members    []CommunityMemberResponse `json:"members"`
	Cycle      *CycleResponse            `json:"cycle,omitempty"`
	UserStatus UserStatusResponse        `json:"userStatus"`
}

// CommunityListResponse is a paginated list of communities
type CommunityListResponse struct {
	Communities []CommunityResponse `json:"communities"`
	Pagination  PaginationInfo      `json:"pagination"`
}

// JoinCommunityResponse reports the outcome of a join
type JoinCommunityResponse struct {
	CommunityID int64 `json:"communityId"`
	Position    int   `json:"position"`
	Activated   bool  `json:"activated"`
}

// ActivityLogResponse represents one audit trail entry
type ActivityLogResponse struct {
	ID        int64                  `json:"id"`
	UserID    int64                  `json:"userId"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt time.Time              `json:"createdAt"`
}

// ActivityLogListResponse is a paginated list of audit entries
type ActivityLogListResponse struct {
	Logs       []ActivityLogResponse `json:"logs"`
	Pagination PaginationInfo        `json:"pagination"`
}

// PayoutRequest represents an admin-triggered payout for a mid-cycle slot
type PayoutRequest struct {
	MidCycleID int64           `json:"midCycleId" binding:"required"`
	UserID     int64           `json:"userId" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// NewCommunityResponse maps a community model to its response form.
func NewCommunityResponse(c *models.Community) CommunityResponse {
	resp := CommunityResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		Description:          c.Description,
		Status:               string(c.Status),
		AdminID:              c.AdminID,
		MinContribution:      c.MinContribution,
		MaxMembers:           c.MaxMembers,
		MemberCount:          c.MemberCount,
		FirstCycleMin:        c.FirstCycleMin,
		BackupFund:           c.BackupFund,
		BackupFundPercentage: c.BackupFundPercentage,
		PositioningMode:      string(c.PositioningMode),
		TotalContribution:    c.TotalContribution,
		ContributionGoal:     c.ContributionGoal,
		IsPrivate:            c.IsPrivate,
		CreatedAt:            c.CreatedAt,
	}
	if c.Admin != nil {
		resp.Admin = &UserBasicResponse{
			ID:        c.Admin.ID,
			FirstName: c.Admin.FirstName,
			LastName:  c.Admin.LastName,
			Email:     c.Admin.Email,
		}
	}
	return resp
}
