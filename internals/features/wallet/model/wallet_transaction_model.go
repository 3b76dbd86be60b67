package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TxTypeCredit   = "credit"
	TxTypeDebit    = "debit"
	TxTypePurchase = "purchase"
)

const (
	RefKindPost        = "PostRequirement"
	RefKindApplication = "TeacherApplication"
	RefKindPayment     = "Payment"
	RefKindContact     = "Contact"
)

// WalletTransaction rows are append-only: nothing updates or deletes them
// after creation.
type WalletTransaction struct {
	TxID     uuid.UUID `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	TxUserID uuid.UUID `gorm:"column:tx_user_id;type:uuid;not null;index" json:"tx_user_id"`

	TxType        string `gorm:"column:tx_type;type:varchar(20);not null" json:"tx_type"`
	TxAmount      int    `gorm:"column:tx_amount;not null;check:tx_amount > 0" json:"tx_amount"`
	TxDescription string `gorm:"column:tx_description;type:text" json:"tx_description"`

	TxReferenceID   *uuid.UUID `gorm:"column:tx_reference_id;type:uuid" json:"tx_reference_id,omitempty"`
	TxReferenceKind string     `gorm:"column:tx_reference_kind;type:varchar(40)" json:"tx_reference_kind,omitempty"`
	TxPaymentID     *uuid.UUID `gorm:"column:tx_payment_id;type:uuid" json:"tx_payment_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

func (t *WalletTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	return nil
}

// SignedAmount is the display amount: debits show negative.
func (t *WalletTransaction) SignedAmount() int {
	if t.TxType == TxTypeDebit {
		return -t.TxAmount
	}
	return t.TxAmount
}
