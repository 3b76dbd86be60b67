package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/wallet/controller"
)

// WalletUserRoutes mounts the authenticated wallet endpoints.
func WalletUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewWalletController(db)

	wallet := user.Group("/wallet")
	wallet.Get("/", ctrl.GetWallet)
	wallet.Get("/transactions", ctrl.GetTransactions)
}
