package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents a user's wallet. The total balance is always
// available + fixed and is never stored separately.
type Wallet struct {
	ID               int64           `json:"id" db:"id"`
	UserID           int64           `json:"userId" db:"user_id"`
	AvailableBalance decimal.Decimal `json:"availableBalance" db:"available_balance"`
	FixedBalance     decimal.Decimal `json:"fixedBalance" db:"fixed_balance"`
	IsFrozen         bool            `json:"isFrozen" db:"is_frozen"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
}

// TotalBalance returns available plus fixed funds.
func (w *Wallet) TotalBalance() decimal.Decimal {
	return w.AvailableBalance.Add(w.FixedBalance)
}

// CanSpend reports whether the wallet may pay out the given amount.
func (w *Wallet) CanSpend(amount decimal.Decimal) bool {
	return !w.IsFrozen && w.AvailableBalance.GreaterThanOrEqual(amount)
}

// WalletTransaction is an append-only ledger entry. Rows are never
// mutated after creation.
type WalletTransaction struct {
	ID          int64           `json:"id" db:"id"`
	Reference   string          `json:"reference" db:"reference"`
	UserID      int64           `json:"userId" db:"user_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Type        TransactionType `json:"type" db:"type"`
	Description string          `json:"description" db:"description"`
	CommunityID *int64          `json:"communityId,omitempty" db:"community_id"`
	CycleID     *int64          `json:"cycleId,omitempty" db:"cycle_id"`
	RecipientID *int64          `json:"recipientId,omitempty" db:"recipient_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}
