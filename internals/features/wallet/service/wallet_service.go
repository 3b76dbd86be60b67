package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	"tutorhub_backend/internals/features/wallet/model"
)

var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient coin balance")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

// Ref ties a wallet transaction to the domain record that caused it.
type Ref struct {
	ID        *uuid.UUID
	Kind      string
	PaymentID *uuid.UUID
}

/* ===================== Wallet operations ===================== */

// Ensure creates the user's wallet with the signup grant if it does not
// exist yet. Safe to call on every request; a concurrent create is
// absorbed by re-reading the row.
func Ensure(db *gorm.DB, userID uuid.UUID) (*model.Wallet, error) {
	var w model.Wallet
	err := db.Where("wallet_user_id = ?", userID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	w = model.Wallet{
		WalletUserID:  userID,
		WalletBalance: constants.DefaultWalletBalance,
	}
	if err := db.Create(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race, the other writer's row is ours
			if err2 := db.Where("wallet_user_id = ?", userID).First(&w).Error; err2 == nil {
				return &w, nil
			}
		}
		return nil, err
	}
	return &w, nil
}

// Balance returns the current balance, 0 when no wallet exists. Never
// creates anything.
func Balance(db *gorm.DB, userID uuid.UUID) (int, error) {
	var w model.Wallet
	err := db.Where("wallet_user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return w.WalletBalance, nil
}

// Credit increments the balance and appends a credit/purchase transaction
// in one DB transaction.
func Credit(db *gorm.DB, userID uuid.UUID, amount int, txType, description string, ref Ref) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if txType != model.TxTypeCredit && txType != model.TxTypePurchase {
		return errors.New("credit requires type credit or purchase")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Wallet{}).
			Where("wallet_user_id = ?", userID).
			Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrWalletNotFound
		}

		entry := model.WalletTransaction{
			TxUserID:        userID,
			TxType:          txType,
			TxAmount:        amount,
			TxDescription:   description,
			TxReferenceID:   ref.ID,
			TxReferenceKind: ref.Kind,
			TxPaymentID:     ref.PaymentID,
		}
		return tx.Create(&entry).Error
	})
}

// Debit decrements the balance with a single conditional UPDATE so the
// balance can never go negative, then appends the debit transaction.
// Zero rows affected means either no wallet or not enough coins.
func Debit(db *gorm.DB, userID uuid.UUID, amount int, description string, ref Ref) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Wallet{}).
			Where("wallet_user_id = ? AND wallet_balance >= ?", userID, amount).
			Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Wallet{}).
				Where("wallet_user_id = ?", userID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrWalletNotFound
			}
			return ErrInsufficientFunds
		}

		entry := model.WalletTransaction{
			TxUserID:        userID,
			TxType:          model.TxTypeDebit,
			TxAmount:        amount,
			TxDescription:   description,
			TxReferenceID:   ref.ID,
			TxReferenceKind: ref.Kind,
			TxPaymentID:     ref.PaymentID,
		}
		return tx.Create(&entry).Error
	})
}

// Transactions lists the user's ledger entries newest-first.
func Transactions(db *gorm.DB, userID uuid.UUID, limit, offset int) ([]model.WalletTransaction, int64, error) {
	var total int64
	if err := db.Model(&model.WalletTransaction{}).
		Where("tx_user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.WalletTransaction
	err := db.Where("tx_user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, total, err
}
