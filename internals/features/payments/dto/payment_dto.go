package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tutorhub_backend/internals/features/payments/model"
)

var validate = validator.New()

type CreatePaymentRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,uppercase,len=3"`
}

func (r *CreatePaymentRequest) Validate() error {
	return validate.Struct(r)
}

type CreatePaymentByCoinsRequest struct {
	Coins int `json:"coins" validate:"required,gt=0"`
}

func (r *CreatePaymentByCoinsRequest) Validate() error {
	return validate.Struct(r)
}

type CapturePaymentRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (r *CapturePaymentRequest) Validate() error {
	return validate.Struct(r)
}

type PaymentResponse struct {
	PaymentID   uuid.UUID  `json:"payment_id"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Coins       int        `json:"coins"`
	Status      string     `json:"status"`
	Method      string     `json:"method"`
	OrderID     string     `json:"order_id,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewPaymentResponse(p *model.Payment) PaymentResponse {
	resp := PaymentResponse{
		PaymentID:   p.PaymentID,
		Amount:      p.PaymentAmount,
		Currency:    p.PaymentCurrency,
		Coins:       p.PaymentCoins,
		Status:      p.PaymentStatus,
		Method:      p.PaymentMethod,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
	}
	if p.PaymentOrderID != nil {
		resp.OrderID = *p.PaymentOrderID
	}
	return resp
}

// CoinPackage is a suggested top-up bundle shown by the client.
type CoinPackage struct {
	Name   string  `json:"name"`
	Coins  int     `json:"coins"`
	Amount float64 `json:"amount"`
}
