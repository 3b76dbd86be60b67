package service

import (
	"context"
	"math"

	"tutorhub_backend/internals/constants"
)

// Order is what we hand the gateway when creating a checkout.
type Order struct {
	Reference   string // our payment id, echoed back by the gateway
	Amount      float64
	Currency    string
	Description string
}

// CaptureResult is the gateway's verdict on a finished checkout.
type CaptureResult struct {
	Success          bool
	Status           string
	GatewayPaymentID string
	PayerID          string
}

// Gateway abstracts the external payment provider. Implementations must
// honor ctx cancellation.
type Gateway interface {
	CreateOrder(ctx context.Context, order Order) (orderID, redirectURL string, err error)
	CaptureOrder(ctx context.Context, orderID string) (CaptureResult, error)
}

/* ===================== Coin math ===================== */

// CoinsForAmount converts real currency to coins, rounding down.
func CoinsForAmount(amount float64) int {
	return int(math.Floor(amount * constants.CoinsPerUSD))
}

// AmountForCoins is the exact inverse for whole coin packs.
func AmountForCoins(coins int) float64 {
	return float64(coins) / constants.CoinsPerUSD
}
