package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/app/models/dto"
)

// UserRepository defines user persistence operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, userID int64, firstName, lastName string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// TokenRepository defines refresh token persistence operations
type TokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// JoinResult reports the outcome of an atomic community join
type JoinResult struct {
	Position    int
	MemberCount int
	Activated   bool
}

// CommunityRepository defines community persistence operations. Create and
// Join are transactional: either every row they touch is written or none is.
type CommunityRepository interface {
	Create(ctx context.Context, community *models.Community) error
	GetByID(ctx context.Context, id int64) (*models.Community, error)
	List(ctx context.Context, filter *dto.CommunityFilter) ([]models.Community, int64, error)
	UpdateSettings(ctx context.Context, id int64, updates map[string]interface{}) error
	Join(ctx context.Context, communityID, userID int64) (*JoinResult, error)
	LatestCycle(ctx context.Context, communityID int64) (*models.CommunityCycle, error)
	MidCyclesByCycleID(ctx context.Context, cycleID int64) ([]models.CommunityMidCycle, error)
}

// MemberRepository defines membership read operations
type MemberRepository interface {
	// GetByCommunityAndUser returns nil, nil when no membership exists.
	GetByCommunityAndUser(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error)
	ListByCommunity(ctx context.Context, communityID int64) ([]models.CommunityMember, error)
}

// WalletRepository defines wallet persistence operations. Every balance
// mutation locks the wallet row and appends its ledger entry in the same
// transaction.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error)
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) error
	Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) error
	Fix(ctx context.Context, userID int64, amount decimal.Decimal, releaseDate time.Time, description string) error
	Transfer(ctx context.Context, senderID, recipientID int64, amount decimal.Decimal, senderDesc, recipientDesc string) error
	Contribute(ctx context.Context, userID, communityID int64, cycleID *int64, amount decimal.Decimal, description string) error
	Payout(ctx context.Context, userID, communityID, midCycleID int64, amount decimal.Decimal, description string) error
	ApplyPenalty(ctx context.Context, userID, communityID int64, amount decimal.Decimal, description string) error
	SetFrozen(ctx context.Context, userID int64, frozen bool) error
	ListFlagged(ctx context.Context) ([]models.Wallet, error)
}

// TransactionRepository defines ledger read operations
type TransactionRepository interface {
	ListByUserID(ctx context.Context, userID int64, page, size int) ([]models.WalletTransaction, int64, error)
}

// ActivityLogRepository defines audit trail persistence operations
type ActivityLogRepository interface {
	Save(ctx context.Context, entry models.ActivityLog) error
	ListByCommunity(ctx context.Context, communityID int64, page, size int) ([]models.ActivityLog, int64, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        UserRepository
	TokenRepository       TokenRepository
	CommunityRepository   CommunityRepository
	MemberRepository      MemberRepository
	WalletRepository      WalletRepository
	TransactionRepository TransactionRepository
	ActivityLogRepository ActivityLogRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		TokenRepository:       NewTokenRepository(db),
		CommunityRepository:   NewCommunityRepository(db),
		MemberRepository:      NewMemberRepository(db),
		WalletRepository:      NewWalletRepository(db),
		TransactionRepository: NewTransactionRepository(db),
		ActivityLogRepository: NewActivityLogRepository(db),
	}
}
