package service

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	"tutorhub_backend/internals/features/payments/model"
)

// DeleteAbandoned removes the user's own pending payments older than the
// delete window. Nothing financial ever hung off a pending row.
func DeleteAbandoned(db *gorm.DB, userID uuid.UUID) (int64, error) {
	cutoff := time.Now().Add(-constants.PendingPaymentDeleteAfter)
	res := db.Where(
		"payment_user_id = ? AND payment_status = ? AND created_at < ?",
		userID, model.PaymentStatusPending, cutoff,
	).Delete(&model.Payment{})
	return res.RowsAffected, res.Error
}

// ExpireStale marks all pending payments older than the expiry window as
// expired. Batch update, idempotent, never touches wallets.
func ExpireStale(db *gorm.DB) (int64, error) {
	cutoff := time.Now().Add(-constants.PendingPaymentExpireAfter)
	res := db.Model(&model.Payment{}).
		Where("payment_status = ? AND created_at < ?", model.PaymentStatusPending, cutoff).
		Update("payment_status", model.PaymentStatusExpired)
	return res.RowsAffected, res.Error
}

// StartPaymentCleanupScheduler runs ExpireStale hourly in the
// background.
func StartPaymentCleanupScheduler(db *gorm.DB) {
	go func() {
		for {
			time.Sleep(1 * time.Hour)
			n, err := ExpireStale(db)
			if err != nil {
				log.Printf("[CLEANUP] expire stale payments failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[CLEANUP] ✅ expired %d stale pending payments", n)
			}
		}
	}()
}
