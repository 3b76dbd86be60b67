package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tutorhub_backend/internals/constants"
	"tutorhub_backend/internals/features/wallet/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Wallet{}, &model.WalletTransaction{}))
	return db
}

func TestEnsureCreatesWalletWithDefaultBalance(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()

	w, err := Ensure(db, userID)
	require.NoError(t, err)
	require.Equal(t, constants.DefaultWalletBalance, w.WalletBalance)
	require.Equal(t, userID, w.WalletUserID)

	// second call returns the same wallet, no new grant
	again, err := Ensure(db, userID)
	require.NoError(t, err)
	require.Equal(t, w.WalletID, again.WalletID)

	var count int64
	require.NoError(t, db.Model(&model.Wallet{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestBalanceWithoutWalletIsZero(t *testing.T) {
	db := setupDB(t)

	bal, err := Balance(db, uuid.New())
	require.NoError(t, err)
	require.Equal(t, 0, bal)

	// the read must not create a wallet
	var count int64
	require.NoError(t, db.Model(&model.Wallet{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCreditIncrementsAndLogs(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	_, err := Ensure(db, userID)
	require.NoError(t, err)

	refID := uuid.New()
	err = Credit(db, userID, 500, model.TxTypePurchase, "Top-up", Ref{ID: &refID, Kind: model.RefKindPayment})
	require.NoError(t, err)

	bal, err := Balance(db, userID)
	require.NoError(t, err)
	require.Equal(t, constants.DefaultWalletBalance+500, bal)

	var entry model.WalletTransaction
	require.NoError(t, db.Where("tx_user_id = ?", userID).First(&entry).Error)
	require.Equal(t, model.TxTypePurchase, entry.TxType)
	require.Equal(t, 500, entry.TxAmount)
	require.Equal(t, model.RefKindPayment, entry.TxReferenceKind)
	require.Equal(t, refID, *entry.TxReferenceID)
}

func TestCreditRejectsBadInput(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	_, err := Ensure(db, userID)
	require.NoError(t, err)

	require.ErrorIs(t, Credit(db, userID, 0, model.TxTypeCredit, "x", Ref{}), ErrInvalidAmount)
	require.ErrorIs(t, Credit(db, userID, -5, model.TxTypeCredit, "x", Ref{}), ErrInvalidAmount)
	require.Error(t, Credit(db, userID, 10, model.TxTypeDebit, "x", Ref{}))

	require.ErrorIs(t, Credit(db, uuid.New(), 10, model.TxTypeCredit, "x", Ref{}), ErrWalletNotFound)
}

func TestDebitHappyPath(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	_, err := Ensure(db, userID)
	require.NoError(t, err)

	err = Debit(db, userID, constants.ContactCost, "Contacted a tutor", Ref{Kind: model.RefKindContact})
	require.NoError(t, err)

	bal, err := Balance(db, userID)
	require.NoError(t, err)
	require.Equal(t, constants.DefaultWalletBalance-constants.ContactCost, bal)
}

func TestDebitInsufficientFundsLeavesNoTrace(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	_, err := Ensure(db, userID)
	require.NoError(t, err)

	err = Debit(db, userID, constants.DefaultWalletBalance+1, "too much", Ref{})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	bal, err := Balance(db, userID)
	require.NoError(t, err)
	require.Equal(t, constants.DefaultWalletBalance, bal)

	var count int64
	require.NoError(t, db.Model(&model.WalletTransaction{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestDebitWithoutWallet(t *testing.T) {
	db := setupDB(t)
	require.ErrorIs(t, Debit(db, uuid.New(), 10, "x", Ref{}), ErrWalletNotFound)
}

func TestDebitExactBalanceThenNothingMore(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	_, err := Ensure(db, userID)
	require.NoError(t, err)

	require.NoError(t, Debit(db, userID, constants.DefaultWalletBalance, "drain", Ref{}))

	bal, err := Balance(db, userID)
	require.NoError(t, err)
	require.Equal(t, 0, bal)

	require.ErrorIs(t, Debit(db, userID, 1, "one more", Ref{}), ErrInsufficientFunds)
}

func TestConservationAcrossMixedOperations(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	_, err := Ensure(db, userID)
	require.NoError(t, err)

	credits := []int{100, 250, 1000}
	debits := []int{50, 70, 40}

	for i, amt := range credits {
		require.NoError(t, Credit(db, userID, amt, model.TxTypeCredit, fmt.Sprintf("credit %d", i), Ref{}))
	}
	for i, amt := range debits {
		require.NoError(t, Debit(db, userID, amt, fmt.Sprintf("debit %d", i), Ref{}))
	}

	want := constants.DefaultWalletBalance
	for _, amt := range credits {
		want += amt
	}
	for _, amt := range debits {
		want -= amt
	}

	bal, err := Balance(db, userID)
	require.NoError(t, err)
	require.Equal(t, want, bal)

	// ledger agrees with the balance
	var entries []model.WalletTransaction
	require.NoError(t, db.Where("tx_user_id = ?", userID).Find(&entries).Error)
	sum := constants.DefaultWalletBalance
	for _, e := range entries {
		sum += e.SignedAmount()
	}
	require.Equal(t, bal, sum)
}

func TestDebitConcurrentNeverOverdraws(t *testing.T) {
	db := setupDB(t)
	// the in-memory driver needs one shared connection across goroutines
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	userID := uuid.New()
	_, err = Ensure(db, userID)
	require.NoError(t, err)

	// 150 covers exactly three 50-coin debits
	const workers = 8
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- Debit(db, userID, constants.ContactCost, "race", Ref{Kind: model.RefKindContact})
		}()
	}
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, ErrInsufficientFunds)
		insufficient++
	}
	require.Equal(t, 3, ok)
	require.Equal(t, workers-3, insufficient)

	bal, err := Balance(db, userID)
	require.NoError(t, err)
	require.Equal(t, 0, bal)

	var count int64
	require.NoError(t, db.Model(&model.WalletTransaction{}).Count(&count).Error)
	require.EqualValues(t, 3, count)
}

func TestTransactionsNewestFirst(t *testing.T) {
	db := setupDB(t)
	userID := uuid.New()
	_, err := Ensure(db, userID)
	require.NoError(t, err)

	require.NoError(t, Credit(db, userID, 10, model.TxTypeCredit, "first", Ref{}))
	require.NoError(t, Credit(db, userID, 20, model.TxTypeCredit, "second", Ref{}))
	require.NoError(t, Debit(db, userID, 5, "third", Ref{}))

	entries, total, err := Transactions(db, userID, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		require.False(t, entries[i-1].CreatedAt.Before(entries[i].CreatedAt))
	}

	// paging
	page, total, err := Transactions(db, userID, 2, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, page, 2)
}
