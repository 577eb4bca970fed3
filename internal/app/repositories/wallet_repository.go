package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kofiasare/susu/internal/app/models"
	"github.com/kofiasare/susu/internal/db"
	"github.com/kofiasare/susu/internal/pkg/apperrors"
)

// walletRepository handles wallet database operations. Every balance mutation
// runs in a transaction that locks the wallet row and appends the matching
// ledger entry, so the ledger and the balances can never drift apart.
type walletRepository struct {
	db *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(pool *pgxpool.Pool) WalletRepository {
	return &walletRepository{db: pool}
}

// GetByUserID retrieves a user's wallet
func (r *walletRepository) GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error) {
	wallet := &models.Wallet{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, available_balance, fixed_balance, is_frozen, created_at, updated_at
		FROM user_wallets
		WHERE user_id = $1`,
		userID).Scan(
		&wallet.ID, &wallet.UserID, &wallet.AvailableBalance, &wallet.FixedBalance,
		&wallet.IsFrozen, &wallet.CreatedAt, &wallet.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("error retrieving wallet: %w", err)
	}

	return wallet, nil
}

// lockWallet reads a wallet row FOR UPDATE inside a transaction
func lockWallet(ctx context.Context, tx pgx.Tx, userID int64) (*models.Wallet, error) {
	wallet := &models.Wallet{}
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, available_balance, fixed_balance, is_frozen, created_at, updated_at
		FROM user_wallets
		WHERE user_id = $1
		FOR UPDATE`,
		userID).Scan(
		&wallet.ID, &wallet.UserID, &wallet.AvailableBalance, &wallet.FixedBalance,
		&wallet.IsFrozen, &wallet.CreatedAt, &wallet.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("error locking wallet: %w", err)
	}

	return wallet, nil
}

func updateBalances(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error {
	_, err := tx.Exec(ctx, `
		UPDATE user_wallets
		SET available_balance = $1, fixed_balance = $2, updated_at = $3
		WHERE id = $4`,
		wallet.AvailableBalance, wallet.FixedBalance, time.Now(), wallet.ID)
	if err != nil {
		return fmt.Errorf("error updating wallet balances: %w", err)
	}
	return nil
}

func insertLedgerEntry(ctx context.Context, tx pgx.Tx, entry *models.WalletTransaction) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO wallet_transactions (reference, user_id, amount, type, description, community_id, cycle_id, recipient_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.NewString(), entry.UserID, entry.Amount, entry.Type,
		entry.Description, entry.CommunityID, entry.CycleID, entry.RecipientID)
	if err != nil {
		return fmt.Errorf("error appending ledger entry: %w", err)
	}
	return nil
}

// Deposit credits a wallet's available balance
func (r *walletRepository) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		wallet, err := lockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		if wallet.IsFrozen {
			return apperrors.ErrWalletFrozen
		}

		wallet.AvailableBalance = wallet.AvailableBalance.Add(amount)
		if err := updateBalances(ctx, tx, wallet); err != nil {
			return err
		}

		return insertLedgerEntry(ctx, tx, &models.WalletTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        models.TransactionDeposit,
			Description: description,
		})
	})
}

// Withdraw debits a wallet's available balance
func (r *walletRepository) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		wallet, err := lockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		if wallet.IsFrozen {
			return apperrors.ErrWalletFrozen
		}
		if !wallet.CanSpend(amount) {
			return apperrors.ErrInsufficientBalance
		}

		wallet.AvailableBalance = wallet.AvailableBalance.Sub(amount)
		if err := updateBalances(ctx, tx, wallet); err != nil {
			return err
		}

		return insertLedgerEntry(ctx, tx, &models.WalletTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        models.TransactionWithdrawal,
			Description: description,
		})
	})
}

// Fix moves funds from the available balance into the fixed balance and
// records the deposit term. The total balance is unchanged.
func (r *walletRepository) Fix(ctx context.Context, userID int64, amount decimal.Decimal, releaseDate time.Time, description string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		wallet, err := lockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		if wallet.IsFrozen {
			return apperrors.ErrWalletFrozen
		}
		if !wallet.CanSpend(amount) {
			return apperrors.ErrInsufficientBalance
		}

		wallet.AvailableBalance = wallet.AvailableBalance.Sub(amount)
		wallet.FixedBalance = wallet.FixedBalance.Add(amount)
		if err := updateBalances(ctx, tx, wallet); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO fixed_deposits (wallet_id, amount, release_date)
			VALUES ($1, $2, $3)`,
			wallet.ID, amount, releaseDate)
		if err != nil {
			return fmt.Errorf("error recording fixed deposit: %w", err)
		}

		return insertLedgerEntry(ctx, tx, &models.WalletTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        models.TransactionFixed,
			Description: description,
		})
	})
}

// Transfer moves funds between two wallets atomically. Wallet rows are locked
// in ascending user id order so two opposing transfers cannot deadlock.
func (r *walletRepository) Transfer(ctx context.Context, senderID, recipientID int64, amount decimal.Decimal, senderDesc, recipientDesc string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		first, second := senderID, recipientID
		if recipientID < senderID {
			first, second = recipientID, senderID
		}

		wallets := make(map[int64]*models.Wallet, 2)
		for _, id := range []int64{first, second} {
			w, err := lockWallet(ctx, tx, id)
			if err != nil {
				if errors.Is(err, apperrors.ErrWalletNotFound) && id == recipientID {
					return apperrors.ErrRecipientNotFound
				}
				return err
			}
			wallets[id] = w
		}

		sender, recipient := wallets[senderID], wallets[recipientID]
		if sender.IsFrozen || recipient.IsFrozen {
			return apperrors.ErrWalletFrozen
		}
		if !sender.CanSpend(amount) {
			return apperrors.ErrInsufficientBalance
		}

		sender.AvailableBalance = sender.AvailableBalance.Sub(amount)
		recipient.AvailableBalance = recipient.AvailableBalance.Add(amount)
		if err := updateBalances(ctx, tx, sender); err != nil {
			return err
		}
		if err := updateBalances(ctx, tx, recipient); err != nil {
			return err
		}

		err := insertLedgerEntry(ctx, tx, &models.WalletTransaction{
			UserID:      senderID,
			Amount:      amount,
			Type:        models.TransactionTransfer,
			Description: senderDesc,
			RecipientID: &recipientID,
		})
		if err != nil {
			return err
		}

		return insertLedgerEntry(ctx, tx, &models.WalletTransaction{
			UserID:      recipientID,
			Amount:      amount,
			Type:        models.TransactionTransfer,
			Description: recipientDesc,
			RecipientID: &senderID,
		})
	})
}

// Contribute debits the member's wallet and applies the contribution to the
// community in one transaction: the community's backup fund grows by its
// configured percentage of the amount, the running total grows by the full
// amount, and the member's paid total is updated. A supplied cycle id must
// belong to the community and is recorded on the ledger row.
func (r *walletRepository) Contribute(ctx context.Context, userID, communityID int64, cycleID *int64, amount decimal.Decimal, description string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		wallet, err := lockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		if wallet.IsFrozen {
			return apperrors.ErrWalletFrozen
		}
		if !wallet.CanSpend(amount) {
			return apperrors.ErrInsufficientBalance
		}

		var backupPct decimal.Decimal
		err = tx.QueryRow(ctx, `
			SELECT backup_fund_percentage
			FROM communities
			WHERE id = $1
			FOR UPDATE`,
			communityID).Scan(&backupPct)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCommunityNotFound
			}
			return fmt.Errorf("error locking community: %w", err)
		}

		if cycleID != nil {
			var cycleExists bool
			err = tx.QueryRow(ctx, `
				SELECT EXISTS(SELECT 1 FROM community_cycles WHERE id = $1 AND community_id = $2)`,
				*cycleID, communityID).Scan(&cycleExists)
			if err != nil {
				return fmt.Errorf("error checking cycle: %w", err)
			}
			if !cycleExists {
				return apperrors.NewBadRequestError("cycle does not belong to this community")
			}
		}

		wallet.AvailableBalance = wallet.AvailableBalance.Sub(amount)
		if err := updateBalances(ctx, tx, wallet); err != nil {
			return err
		}

		backupShare := amount.Mul(backupPct).Div(decimal.NewFromInt(100))
		_, err = tx.Exec(ctx, `
			UPDATE communities
			SET backup_fund = backup_fund + $1,
			    total_contribution = total_contribution + $2,
			    updated_at = $3
			WHERE id = $4`,
			backupShare, amount, time.Now(), communityID)
		if err != nil {
			return fmt.Errorf("error applying contribution to community: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `
			UPDATE community_members
			SET contribution_paid = contribution_paid + $1
			WHERE community_id = $2 AND user_id = $3`,
			amount, communityID, userID)
		if err != nil {
			return fmt.Errorf("error updating member contribution: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotMember
		}

		return insertLedgerEntry(ctx, tx, &models.WalletTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        models.TransactionContribution,
			Description: description,
			CommunityID: &communityID,
			CycleID:     cycleID,
		})
	})
}

// Payout credits the receiving member's wallet and marks the payout slot
// complete in one transaction. The slot must belong to the community the
// payout is issued for.
func (r *walletRepository) Payout(ctx context.Context, userID, communityID, midCycleID int64, amount decimal.Decimal, description string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		wallet, err := lockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		if wallet.IsFrozen {
			return apperrors.ErrWalletFrozen
		}

		cmdTag, err := tx.Exec(ctx, `
			UPDATE community_mid_cycles
			SET is_complete = true, payout_member_id = $1, amount = $2
			WHERE id = $3 AND is_complete = false
			  AND cycle_id IN (SELECT id FROM community_cycles WHERE community_id = $4)`,
			userID, amount, midCycleID, communityID)
		if err != nil {
			return fmt.Errorf("error completing payout slot: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewConflictError("payout slot not found or already paid out")
		}

		wallet.AvailableBalance = wallet.AvailableBalance.Add(amount)
		if err := updateBalances(ctx, tx, wallet); err != nil {
			return err
		}

		return insertLedgerEntry(ctx, tx, &models.WalletTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        models.TransactionPayout,
			Description: description,
			CommunityID: &communityID,
		})
	})
}

// ApplyPenalty debits the member's wallet, records the penalty against their
// membership, and grows the community's backup fund. The available balance may
// go negative, the shortfall is carried as debt.
func (r *walletRepository) ApplyPenalty(ctx context.Context, userID, communityID int64, amount decimal.Decimal, description string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		wallet, err := lockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}

		wallet.AvailableBalance = wallet.AvailableBalance.Sub(amount)
		if err := updateBalances(ctx, tx, wallet); err != nil {
			return err
		}

		cmdTag, err := tx.Exec(ctx, `
			UPDATE community_members
			SET penalty = penalty + $1
			WHERE community_id = $2 AND user_id = $3`,
			amount, communityID, userID)
		if err != nil {
			return fmt.Errorf("error recording member penalty: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotMember
		}

		_, err = tx.Exec(ctx, `
			UPDATE communities
			SET backup_fund = backup_fund + $1, updated_at = $2
			WHERE id = $3`,
			amount, time.Now(), communityID)
		if err != nil {
			return fmt.Errorf("error adding penalty to backup fund: %w", err)
		}

		return insertLedgerEntry(ctx, tx, &models.WalletTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        models.TransactionPenalty,
			Description: description,
			CommunityID: &communityID,
		})
	})
}

// SetFrozen updates a wallet's frozen flag
func (r *walletRepository) SetFrozen(ctx context.Context, userID int64, frozen bool) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE user_wallets
		SET is_frozen = $1, updated_at = $2
		WHERE user_id = $3`,
		frozen, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("error updating wallet status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrWalletNotFound
	}
	return nil
}

// ListFlagged returns all frozen wallets
func (r *walletRepository) ListFlagged(ctx context.Context) ([]models.Wallet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, available_balance, fixed_balance, is_frozen, created_at, updated_at
		FROM user_wallets
		WHERE is_frozen = true
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing flagged wallets: %w", err)
	}
	defer rows.Close()

	wallets := []models.Wallet{}
	for rows.Next() {
		var w models.Wallet
		err := rows.Scan(&w.ID, &w.UserID, &w.AvailableBalance, &w.FixedBalance,
			&w.IsFrozen, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet rows: %w", err)
	}

	return wallets, nil
}
