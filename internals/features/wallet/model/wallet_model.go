package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
)

type Wallet struct {
	WalletID     uuid.UUID `gorm:"column:wallet_id;type:uuid;primaryKey" json:"wallet_id"`
	WalletUserID uuid.UUID `gorm:"column:wallet_user_id;type:uuid;not null;unique" json:"wallet_user_id"`

	WalletBalance int `gorm:"column:wallet_balance;not null;default:150;check:wallet_balance >= 0" json:"wallet_balance"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.WalletID == uuid.Nil {
		w.WalletID = uuid.New()
	}
	if w.WalletBalance == 0 {
		w.WalletBalance = constants.DefaultWalletBalance
	}
	return nil
}
