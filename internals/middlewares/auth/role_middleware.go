package auth

import (
	"github.com/gofiber/fiber/v2"

	"tutorhub_backend/internals/constants"
)

/* ===================== Role Middleware ===================== */

// OnlyRoles allows the request through only when the authenticated role
// is one of allowedRoles. Must run after AuthMiddleware.
func OnlyRoles(errorMessage string, allowedRoles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("userRole").(string)
		if !ok || role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Role missing from token")
		}
		if _, ok := allowed[role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, errorMessage)
		}
		return c.Next()
	}
}

// OnlyAdmin is shorthand for the admin surface.
func OnlyAdmin() fiber.Handler {
	return OnlyRoles(constants.RoleErrorAdmin("this endpoint"), constants.RoleAdmin)
}
