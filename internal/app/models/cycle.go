package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommunityCycle represents one full rotation of payouts in a community
type CommunityCycle struct {
	ID          int64      `json:"id" db:"id"`
	CommunityID int64      `json:"communityId" db:"community_id"`
	CycleNumber int        `json:"cycleNumber" db:"cycle_number"`
	StartDate   time.Time  `json:"startDate" db:"start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	IsComplete  bool       `json:"isComplete" db:"is_complete"`
}

// CommunityMidCycle represents a single payout slot within a cycle
type CommunityMidCycle struct {
	ID             int64            `json:"id" db:"id"`
	CycleID        int64            `json:"cycleId" db:"cycle_id"`
	PayoutDate     time.Time        `json:"payoutDate" db:"payout_date"`
	IsComplete     bool             `json:"isComplete" db:"is_complete"`
	PayoutMemberID *int64           `json:"payoutMemberId,omitempty" db:"payout_member_id"`
	Amount         *decimal.Decimal `json:"amount,omitempty" db:"amount"`
}
