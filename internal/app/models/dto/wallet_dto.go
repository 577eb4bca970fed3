package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountRequest carries a single monetary amount (deposit, withdrawal)
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// FixFundsRequest locks funds for a number of days
type FixFundsRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	DurationDays int             `json:"durationDays" binding:"required,min=1,max=365"`
}

// TransferRequest moves funds to another user identified by email
type TransferRequest struct {
	RecipientEmail string          `json:"recipientEmail" binding:"required,email"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
}

// ContributionRequest pays into a community from the caller's wallet
type ContributionRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	CycleID *int64          `json:"cycleId"`
}

// PenaltyRequest applies a penalty to a community member's wallet
type PenaltyRequest struct {
	UserID int64           `json:"userId" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required,max=200"`
}

// WalletStatusRequest freezes or unfreezes a wallet
type WalletStatusRequest struct {
	IsFrozen bool    `json:"isFrozen"`
	Reason   *string `json:"reason" binding:"omitempty,max=200"`
}

// WalletBalanceResponse is the caller's wallet summary
type WalletBalanceResponse struct {
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	FixedBalance     decimal.Decimal `json:"fixedBalance"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	IsFrozen         bool            `json:"isFrozen"`
}

// WalletResponse is the admin view of a wallet
type WalletResponse struct {
	UserID           int64           `json:"userId"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	FixedBalance     decimal.Decimal `json:"fixedBalance"`
	IsFrozen         bool            `json:"isFrozen"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// TransactionResponse represents one ledger entry
type TransactionResponse struct {
	ID          int64           `json:"id"`
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	CommunityID *int64          `json:"communityId,omitempty"`
	CycleID     *int64          `json:"cycleId,omitempty"`
	RecipientID *int64          `json:"recipientId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TransactionListResponse is a paginated ledger history
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationInfo        `json:"pagination"`
}
