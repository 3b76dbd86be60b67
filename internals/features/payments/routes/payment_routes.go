package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/payments/controller"
	"tutorhub_backend/internals/features/payments/service"
	"tutorhub_backend/internals/middlewares"
)

// PaymentUserRoutes mounts the top-up endpoints.
func PaymentUserRoutes(user fiber.Router, db *gorm.DB, gateway service.Gateway) {
	ctrl := controller.NewPaymentController(db, gateway)

	payments := user.Group("/payments")
	payments.Post("/", middlewares.PaymentRateLimiter(), ctrl.CreatePayment)
	payments.Post("/by-coins", middlewares.PaymentRateLimiter(), ctrl.CreatePaymentByCoins)
	payments.Post("/capture", ctrl.CapturePayment)
	payments.Get("/history", ctrl.GetPaymentHistory)
	payments.Get("/packages", ctrl.GetCoinPackages)
	payments.Get("/rate", ctrl.GetConversionRate)
	payments.Delete("/pending", ctrl.DeletePendingPayments)
}

// PaymentAdminRoutes mounts the maintenance endpoints.
func PaymentAdminRoutes(admin fiber.Router, db *gorm.DB, gateway service.Gateway) {
	ctrl := controller.NewPaymentController(db, gateway)

	payments := admin.Group("/payments")
	payments.Post("/cleanup", ctrl.CleanupExpiredPayments)
}
