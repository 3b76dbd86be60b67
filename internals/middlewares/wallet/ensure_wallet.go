package wallet

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	walletService "tutorhub_backend/internals/features/wallet/service"
	helper "tutorhub_backend/internals/helpers"
)

// EnsureWallet provisions the caller's wallet (with the signup grant)
// before the handler runs. A provisioning failure is logged but does not
// block the request; handlers that actually need the wallet will fail
// with a clearer error.
func EnsureWallet(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := helper.GetUserUUID(c)
		if userID != uuid.Nil {
			if _, err := walletService.Ensure(db, userID); err != nil {
				log.Printf("[WALLET] ensure for %s failed: %v", userID, err)
			}
		}
		return c.Next()
	}
}
