package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/app/models/dto"
	"github.com/kofiasare/susu/internal/app/repositories"
)

// Function-field fakes for the repository interfaces. Methods without a
// configured function return zero values.

type fakeUserRepo struct {
	CreateFn          func(ctx context.Context, user *models.User) error
	GetByIDFn         func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFn      func(ctx context.Context, email string) (*models.User, error)
	EmailExistsFn     func(ctx context.Context, email string) (bool, error)
	UpdateProfileFn   func(ctx context.Context, userID int64, firstName, lastName string) error
	UpdateLastLoginFn func(ctx context.Context, userID int64) error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, user)
	}
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.GetByEmailFn != nil {
		return f.GetByEmailFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if f.EmailExistsFn != nil {
		return f.EmailExistsFn(ctx, email)
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, userID int64, firstName, lastName string) error {
	if f.UpdateProfileFn != nil {
		return f.UpdateProfileFn(ctx, userID, firstName, lastName)
	}
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	if f.UpdateLastLoginFn != nil {
		return f.UpdateLastLoginFn(ctx, userID)
	}
	return nil
}

type fakeTokenRepo struct {
	CreateTokenFn         func(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValueFn     func(ctx context.Context, token string) (int64, time.Time, bool, error)
	RevokeTokenFn         func(ctx context.Context, token string) error
	RevokeAllUserTokensFn func(ctx context.Context, userID int64) error
}

func (f *fakeTokenRepo) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	if f.CreateTokenFn != nil {
		return f.CreateTokenFn(ctx, token, userID, expiryDate)
	}
	return nil
}

func (f *fakeTokenRepo) GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error) {
	if f.GetTokenByValueFn != nil {
		return f.GetTokenByValueFn(ctx, token)
	}
	return 0, time.Time{}, false, nil
}

func (f *fakeTokenRepo) RevokeToken(ctx context.Context, token string) error {
	if f.RevokeTokenFn != nil {
		return f.RevokeTokenFn(ctx, token)
	}
	return nil
}

func (f *fakeTokenRepo) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	if f.RevokeAllUserTokensFn != nil {
		return f.RevokeAllUserTokensFn(ctx, userID)
	}
	return nil
}

func (f *fakeTokenRepo) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeCommunityRepo struct {
	CreateFn             func(ctx context.Context, community *models.Community) error
	GetByIDFn            func(ctx context.Context, id int64) (*models.Community, error)
	ListFn               func(ctx context.Context, filter *dto.CommunityFilter) ([]models.Community, int64, error)
	UpdateSettingsFn     func(ctx context.Context, id int64, updates map[string]interface{}) error
	JoinFn               func(ctx context.Context, communityID, userID int64) (*repositories.JoinResult, error)
	LatestCycleFn        func(ctx context.Context, communityID int64) (*models.CommunityCycle, error)
	MidCyclesByCycleIDFn func(ctx context.Context, cycleID int64) ([]models.CommunityMidCycle, error)
}

func (f *fakeCommunityRepo) Create(ctx context.Context, community *models.Community) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, community)
	}
	return nil
}

func (f *fakeCommunityRepo) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeCommunityRepo) List(ctx context.Context, filter *dto.CommunityFilter) ([]models.Community, int64, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeCommunityRepo) UpdateSettings(ctx context.Context, id int64, updates map[string]interface{}) error {
	if f.UpdateSettingsFn != nil {
		return f.UpdateSettingsFn(ctx, id, updates)
	}
	return nil
}

func (f *fakeCommunityRepo) Join(ctx context.Context, communityID, userID int64) (*repositories.JoinResult, error) {
	if f.JoinFn != nil {
		return f.JoinFn(ctx, communityID, userID)
	}
	return nil, nil
}

func (f *fakeCommunityRepo) LatestCycle(ctx context.Context, communityID int64) (*models.CommunityCycle, error) {
	if f.LatestCycleFn != nil {
		return f.LatestCycleFn(ctx, communityID)
	}
	return nil, nil
}

func (f *fakeCommunityRepo) MidCyclesByCycleID(ctx context.Context, cycleID int64) ([]models.CommunityMidCycle, error) {
	if f.MidCyclesByCycleIDFn != nil {
		return f.MidCyclesByCycleIDFn(ctx, cycleID)
	}
	return nil, nil
}

type fakeMemberRepo struct {
	GetByCommunityAndUserFn func(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error)
	ListByCommunityFn       func(ctx context.Context, communityID int64) ([]models.CommunityMember, error)
}

func (f *fakeMemberRepo) GetByCommunityAndUser(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
	if f.GetByCommunityAndUserFn != nil {
		return f.GetByCommunityAndUserFn(ctx, communityID, userID)
	}
	return nil, nil
}

func (f *fakeMemberRepo) ListByCommunity(ctx context.Context, communityID int64) ([]models.CommunityMember, error) {
	if f.ListByCommunityFn != nil {
		return f.ListByCommunityFn(ctx, communityID)
	}
	return nil, nil
}

type fakeWalletRepo struct {
	GetByUserIDFn  func(ctx context.Context, userID int64) (*models.Wallet, error)
	DepositFn      func(ctx context.Context, userID int64, amount decimal.Decimal, description string) error
	WithdrawFn     func(ctx context.Context, userID int64, amount decimal.Decimal, description string) error
	FixFn          func(ctx context.Context, userID int64, amount decimal.Decimal, releaseDate time.Time, description string) error
	TransferFn     func(ctx context.Context, senderID, recipientID int64, amount decimal.Decimal, senderDesc, recipientDesc string) error
	ContributeFn   func(ctx context.Context, userID, communityID int64, cycleID *int64, amount decimal.Decimal, description string) error
	PayoutFn       func(ctx context.Context, userID, communityID, midCycleID int64, amount decimal.Decimal, description string) error
	ApplyPenaltyFn func(ctx context.Context, userID, communityID int64, amount decimal.Decimal, description string) error
	SetFrozenFn    func(ctx context.Context, userID int64, frozen bool) error
	ListFlaggedFn  func(ctx context.Context) ([]models.Wallet, error)
}

func (f *fakeWalletRepo) GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error) {
	if f.GetByUserIDFn != nil {
		return f.GetByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeWalletRepo) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) error {
	if f.DepositFn != nil {
		return f.DepositFn(ctx, userID, amount, description)
	}
	return nil
}

func (f *fakeWalletRepo) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) error {
	if f.WithdrawFn != nil {
		return f.WithdrawFn(ctx, userID, amount, description)
	}
	return nil
}

func (f *fakeWalletRepo) Fix(ctx context.Context, userID int64, amount decimal.Decimal, releaseDate time.Time, description string) error {
	if f.FixFn != nil {
		return f.FixFn(ctx, userID, amount, releaseDate, description)
	}
	return nil
}

func (f *fakeWalletRepo) Transfer(ctx context.Context, senderID, recipientID int64, amount decimal.Decimal, senderDesc, recipientDesc string) error {
	if f.TransferFn != nil {
		return f.TransferFn(ctx, senderID, recipientID, amount, senderDesc, recipientDesc)
	}
	return nil
}

func (f *fakeWalletRepo) Contribute(ctx context.Context, userID, communityID int64, cycleID *int64, amount decimal.Decimal, description string) error {
	if f.ContributeFn != nil {
		return f.ContributeFn(ctx, userID, communityID, cycleID, amount, description)
	}
	return nil
}

func (f *fakeWalletRepo) Payout(ctx context.Context, userID, communityID, midCycleID int64, amount decimal.Decimal, description string) error {
	if f.PayoutFn != nil {
		return f.PayoutFn(ctx, userID, communityID, midCycleID, amount, description)
	}
	return nil
}

func (f *fakeWalletRepo) ApplyPenalty(ctx context.Context, userID, communityID int64, amount decimal.Decimal, description string) error {
	if f.ApplyPenaltyFn != nil {
		return f.ApplyPenaltyFn(ctx, userID, communityID, amount, description)
	}
	return nil
}

func (f *fakeWalletRepo) SetFrozen(ctx context.Context, userID int64, frozen bool) error {
	if f.SetFrozenFn != nil {
		return f.SetFrozenFn(ctx, userID, frozen)
	}
	return nil
}

func (f *fakeWalletRepo) ListFlagged(ctx context.Context) ([]models.Wallet, error) {
	if f.ListFlaggedFn != nil {
		return f.ListFlaggedFn(ctx)
	}
	return nil, nil
}

type fakeTransactionRepo struct {
	ListByUserIDFn func(ctx context.Context, userID int64, page, size int) ([]models.WalletTransaction, int64, error)
}

func (f *fakeTransactionRepo) ListByUserID(ctx context.Context, userID int64, page, size int) ([]models.WalletTransaction, int64, error) {
	if f.ListByUserIDFn != nil {
		return f.ListByUserIDFn(ctx, userID, page, size)
	}
	return nil, 0, nil
}

type fakeActivityRepo struct {
	SaveFn            func(ctx context.Context, entry models.ActivityLog) error
	ListByCommunityFn func(ctx context.Context, communityID int64, page, size int) ([]models.ActivityLog, int64, error)
}

func (f *fakeActivityRepo) Save(ctx context.Context, entry models.ActivityLog) error {
	if f.SaveFn != nil {
		return f.SaveFn(ctx, entry)
	}
	return nil
}

func (f *fakeActivityRepo) ListByCommunity(ctx context.Context, communityID int64, page, size int) ([]models.ActivityLog, int64, error) {
	if f.ListByCommunityFn != nil {
		return f.ListByCommunityFn(ctx, communityID, page, size)
	}
	return nil, 0, nil
}
