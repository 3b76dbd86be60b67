package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/wallet/dto"
	"tutorhub_backend/internals/features/wallet/service"
	helper "tutorhub_backend/internals/helpers"
)

type WalletController struct {
	DB *gorm.DB
}

func NewWalletController(db *gorm.DB) *WalletController {
	return &WalletController{DB: db}
}

// GetWallet ensures the caller's wallet exists and returns it.
func (ctrl *WalletController) GetWallet(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	w, err := service.Ensure(ctrl.DB, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load wallet")
	}
	return helper.JsonOK(c, "Wallet fetched", dto.NewWalletResponse(w))
}

// GetTransactions returns the caller's ledger, newest-first, paginated.
func (ctrl *WalletController) GetTransactions(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	p := helper.ResolvePaging(c, 20, 100)
	entries, total, err := service.Transactions(ctrl.DB, userID, p.Limit, p.Offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load transactions")
	}

	items := make([]dto.TransactionResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewTransactionResponse(&entries[i]))
	}

	return helper.JsonOK(c, "Transactions fetched", fiber.Map{
		"transactions": items,
		"pagination":   helper.BuildPagination(total, p, len(items)),
	})
}
