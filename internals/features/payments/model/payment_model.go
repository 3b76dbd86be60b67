package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusExpired   = "expired"
)

type Payment struct {
	PaymentID     uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentUserID uuid.UUID `gorm:"column:payment_user_id;type:uuid;not null;index" json:"payment_user_id"`

	PaymentAmount   float64 `gorm:"column:payment_amount;not null" json:"payment_amount"`
	PaymentCurrency string  `gorm:"column:payment_currency;type:varchar(10);default:'USD'" json:"payment_currency"`
	PaymentCoins    int     `gorm:"column:payment_coins;not null" json:"payment_coins"`

	PaymentStatus string `gorm:"column:payment_status;type:varchar(20);default:'pending';index" json:"payment_status"`
	PaymentMethod string `gorm:"column:payment_method;type:varchar(50);default:'midtrans'" json:"payment_method"`

	// gateway order id is assigned after CreateOrder; sparse unique so
	// rows that never reached the gateway do not collide
	PaymentOrderID   *string `gorm:"column:payment_order_id;type:varchar(100);uniqueIndex" json:"payment_order_id,omitempty"`
	PaymentGatewayID string  `gorm:"column:payment_gateway_id;type:varchar(100)" json:"payment_gateway_id,omitempty"`
	PaymentPayerID   string  `gorm:"column:payment_payer_id;type:varchar(100)" json:"payment_payer_id,omitempty"`

	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
