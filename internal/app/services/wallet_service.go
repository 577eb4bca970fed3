package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/app/models/dto"
	"github.com/kofiasare/susu/internal/app/repositories"
	"github.com/kofiasare/susu/internal/pkg/activity"
	"github.com/kofiasare/susu/internal/pkg/apperrors"
	"github.com/kofiasare/susu/internal/pkg/helpers"
)

// WalletService handles wallet and ledger operations
type WalletService struct {
	walletRepo      repositories.WalletRepository
	transactionRepo repositories.TransactionRepository
	userRepo        repositories.UserRepository
	communityRepo   repositories.CommunityRepository
	memberRepo      repositories.MemberRepository
	recorder        *activity.Recorder
	logger          zerolog.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(
	walletRepo repositories.WalletRepository,
	transactionRepo repositories.TransactionRepository,
	userRepo repositories.UserRepository,
	communityRepo repositories.CommunityRepository,
	memberRepo repositories.MemberRepository,
	recorder *activity.Recorder,
	logger zerolog.Logger,
) *WalletService {
	return &WalletService{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		communityRepo:   communityRepo,
		memberRepo:      memberRepo,
		recorder:        recorder,
		logger:          logger,
	}
}

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.ErrInvalidAmount
	}
	return nil
}

// GetBalance returns the caller's wallet summary. A user without a wallet row
// gets a zero-value summary rather than an error.
func (s *WalletService) GetBalance(ctx context.Context, userID int64) (*dto.WalletBalanceResponse, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrWalletNotFound) {
			return &dto.WalletBalanceResponse{
				AvailableBalance: decimal.Zero,
				FixedBalance:     decimal.Zero,
				TotalBalance:     decimal.Zero,
			}, nil
		}
		return nil, err
	}

	return &dto.WalletBalanceResponse{
		AvailableBalance: wallet.AvailableBalance,
		FixedBalance:     wallet.FixedBalance,
		TotalBalance:     wallet.TotalBalance(),
		IsFrozen:         wallet.IsFrozen,
	}, nil
}

// Deposit credits the caller's available balance
func (s *WalletService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*dto.WalletBalanceResponse, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	if err := s.walletRepo.Deposit(ctx, userID, amount, "Wallet deposit"); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Str("amount", amount.String()).Msg("Deposit completed")
	return s.GetBalance(ctx, userID)
}

// Withdraw debits the caller's available balance
func (s *WalletService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal) (*dto.WalletBalanceResponse, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	if err := s.walletRepo.Withdraw(ctx, userID, amount, "Wallet withdrawal"); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Str("amount", amount.String()).Msg("Withdrawal completed")
	return s.GetBalance(ctx, userID)
}

// FixFunds locks part of the available balance for a term. The total balance
// is unchanged.
func (s *WalletService) FixFunds(ctx context.Context, userID int64, req *dto.FixFundsRequest) (*dto.WalletBalanceResponse, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	releaseDate := time.Now().AddDate(0, 0, req.DurationDays)
	description := fmt.Sprintf("Fixed deposit for %d days", req.DurationDays)
	if err := s.walletRepo.Fix(ctx, userID, req.Amount, releaseDate, description); err != nil {
		return nil, err
	}

	return s.GetBalance(ctx, userID)
}

// Transfer moves funds to another user identified by email
func (s *WalletService) Transfer(ctx context.Context, senderID int64, req *dto.TransferRequest) (*dto.WalletBalanceResponse, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	recipient, err := s.userRepo.GetByEmail(ctx, req.RecipientEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrRecipientNotFound
		}
		return nil, err
	}
	if recipient.ID == senderID {
		return nil, apperrors.ErrSelfTransfer
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	senderDesc := fmt.Sprintf("Transfer to %s", recipient.FullName())
	recipientDesc := fmt.Sprintf("Transfer received from %s", sender.FullName())
	if err := s.walletRepo.Transfer(ctx, senderID, recipient.ID, req.Amount, senderDesc, recipientDesc); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("senderID", senderID).Int64("recipientID", recipient.ID).
		Str("amount", req.Amount.String()).Msg("Transfer completed")
	return s.GetBalance(ctx, senderID)
}

// Contribute pays into a community from the caller's wallet. The caller must
// be an active member of an active community and the amount must meet the
// community's minimum contribution.
func (s *WalletService) Contribute(ctx context.Context, userID, communityID int64, req *dto.ContributionRequest) (*dto.WalletBalanceResponse, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if community.Status != models.CommunityActive {
		return nil, apperrors.NewConflictError("community is not accepting contributions")
	}
	if req.Amount.LessThan(community.MinContribution) {
		return nil, apperrors.ErrBelowMinContribution
	}

	membership, err := s.memberRepo.GetByCommunityAndUser(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperrors.ErrNotMember
	}
	if membership.Status != models.MemberActive {
		return nil, apperrors.ErrMemberInactive
	}

	description := fmt.Sprintf("Contribution to %s", community.Name)
	if err := s.walletRepo.Contribute(ctx, userID, communityID, req.CycleID, req.Amount, description); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Int64("communityID", communityID).
		Str("amount", req.Amount.String()).Msg("Contribution completed")
	s.recorder.Record(communityID, userID, models.ActivityContributed, map[string]interface{}{
		"amount": req.Amount.String(),
	})

	return s.GetBalance(ctx, userID)
}

// ApplyPenalty debits a member's wallet as a penalty. Only the community admin
// may apply penalties, and the member's balance may go negative.
func (s *WalletService) ApplyPenalty(ctx context.Context, communityID, callerID int64, req *dto.PenaltyRequest) error {
	if err := validateAmount(req.Amount); err != nil {
		return err
	}

	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return err
	}
	if community.AdminID != callerID {
		return apperrors.ErrNotCommunityAdmin
	}

	membership, err := s.memberRepo.GetByCommunityAndUser(ctx, communityID, req.UserID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperrors.ErrNotMember
	}

	description := fmt.Sprintf("Penalty: %s", req.Reason)
	if err := s.walletRepo.ApplyPenalty(ctx, req.UserID, communityID, req.Amount, description); err != nil {
		return err
	}

	s.logger.Info().Int64("communityID", communityID).Int64("userID", req.UserID).
		Str("amount", req.Amount.String()).Msg("Penalty applied")
	s.recorder.Record(communityID, req.UserID, models.ActivityPenaltyApplied, map[string]interface{}{
		"amount": req.Amount.String(),
		"reason": req.Reason,
	})

	return nil
}

// SetWalletStatus freezes or unfreezes a user's wallet
func (s *WalletService) SetWalletStatus(ctx context.Context, userID int64, req *dto.WalletStatusRequest) error {
	if err := s.walletRepo.SetFrozen(ctx, userID, req.IsFrozen); err != nil {
		return err
	}

	event := s.logger.Info().Int64("userID", userID).Bool("isFrozen", req.IsFrozen)
	if req.Reason != nil {
		event = event.Str("reason", *req.Reason)
	}
	event.Msg("Wallet status updated")

	return nil
}

// ListFlagged returns all frozen wallets
func (s *WalletService) ListFlagged(ctx context.Context) ([]dto.WalletResponse, error) {
	wallets, err := s.walletRepo.ListFlagged(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.WalletResponse, 0, len(wallets))
	for _, w := range wallets {
		responses = append(responses, dto.WalletResponse{
			UserID:           w.UserID,
			AvailableBalance: w.AvailableBalance,
			FixedBalance:     w.FixedBalance,
			IsFrozen:         w.IsFrozen,
			CreatedAt:        w.CreatedAt,
		})
	}

	return responses, nil
}

// GetTransactions retrieves the caller's ledger history newest first
func (s *WalletService) GetTransactions(ctx context.Context, userID int64, page, size int) (*dto.TransactionListResponse, error) {
	transactions, total, err := s.transactionRepo.ListByUserID(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, dto.TransactionResponse{
			ID:          t.ID,
			Reference:   t.Reference,
			Amount:      t.Amount,
			Type:        string(t.Type),
			Description: t.Description,
			CommunityID: t.CommunityID,
			CycleID:     t.CycleID,
			RecipientID: t.RecipientID,
			CreatedAt:   t.CreatedAt,
		})
	}

	return &dto.TransactionListResponse{
		Transactions: responses,
		Pagination:   helpers.NewPaginationInfo(total, page, size),
	}, nil
}
