package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorhub_backend/internals/features/wallet/model"
)

type WalletResponse struct {
	WalletID uuid.UUID `json:"wallet_id"`
	UserID   uuid.UUID `json:"user_id"`
	Balance  int       `json:"balance"`
}

func NewWalletResponse(w *model.Wallet) WalletResponse {
	return WalletResponse{
		WalletID: w.WalletID,
		UserID:   w.WalletUserID,
		Balance:  w.WalletBalance,
	}
}

type TransactionResponse struct {
	TxID          uuid.UUID  `json:"tx_id"`
	Type          string     `json:"type"`
	Amount        int        `json:"amount"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty"`
	ReferenceKind string     `json:"reference_kind,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewTransactionResponse renders the ledger row for display: signed
// amount, and a fixed "completed" status since ledger rows only exist
// for settled operations.
func NewTransactionResponse(t *model.WalletTransaction) TransactionResponse {
	return TransactionResponse{
		TxID:          t.TxID,
		Type:          t.TxType,
		Amount:        t.SignedAmount(),
		Description:   t.TxDescription,
		Status:        "completed",
		ReferenceID:   t.TxReferenceID,
		ReferenceKind: t.TxReferenceKind,
		CreatedAt:     t.CreatedAt,
	}
}
