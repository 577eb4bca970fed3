package models

import "time"

// Activity actions recorded against a community
const (
	ActivityCreated         = "created"
	ActivityJoined          = "joined"
	ActivitySettingsUpdated = "settings_updated"
	ActivityContributed     = "contributed"
	ActivityPayout          = "payout"
	ActivityPenaltyApplied  = "penalty_applied"
)

// ActivityLog is an append-only audit trail entry for a community.
// Writes are best-effort and never block the primary operation.
type ActivityLog struct {
	ID          int64                  `json:"id" db:"id"`
	CommunityID int64                  `json:"communityId" db:"community_id"`
	UserID      int64                  `json:"userId" db:"user_id"`
	Action      string                 `json:"action" db:"action"`
	Details     map[string]interface{} `json:"details" db:"details"`
	CreatedAt   time.Time              `json:"createdAt" db:"created_at"`
}
