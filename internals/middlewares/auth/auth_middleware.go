package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"tutorhub_backend/internals/configs"
)

/* ===================== Auth Middleware ===================== */

// AuthMiddleware validates the Bearer token and stores the caller's
// identity in Locals: "user_id" (uuid.UUID) and "userRole" (string).
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing or invalid token")
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Unexpected signing method")
			}
			return []byte(configs.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		rawID, ok := claims["id"].(string)
		if !ok {
			// some issuers use "sub"
			rawID, ok = claims["sub"].(string)
			if !ok {
				return fiber.NewError(fiber.StatusUnauthorized, "Token missing user id")
			}
		}
		userID, err := uuid.Parse(rawID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token user id is not a valid UUID")
		}

		role, _ := claims["role"].(string)
		if role == "" {
			role = "student"
		}

		c.Locals("user_id", userID)
		c.Locals("userRole", role)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	// fallback for browser EventSource / download links
	return c.Query("token")
}
