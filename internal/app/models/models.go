package models

// RoleType defines the user role type
type RoleType string

const (
	RoleMember RoleType = "MEMBER"
	RoleAdmin  RoleType = "ADMIN"
)

// CommunityStatus defines the lifecycle state of a savings circle
type CommunityStatus string

const (
	CommunityLocked    CommunityStatus = "Locked"
	CommunityActive    CommunityStatus = "Active"
	CommunityCompleted CommunityStatus = "Completed"
)

// PositioningMode defines how payout positions are assigned
type PositioningMode string

const (
	PositioningRandom PositioningMode = "Random"
	PositioningFixed  PositioningMode = "Fixed"
)

// MemberStatus defines the state of a community membership
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
	MemberPending  MemberStatus = "pending"
)

// TransactionType classifies wallet ledger entries
type TransactionType string

const (
	TransactionDeposit      TransactionType = "deposit"
	TransactionWithdrawal   TransactionType = "withdrawal"
	TransactionContribution TransactionType = "contribution"
	TransactionPenalty      TransactionType = "penalty"
	TransactionTransfer     TransactionType = "transfer"
	TransactionPayout       TransactionType = "payout"
	TransactionFixed        TransactionType = "fixed"
)
