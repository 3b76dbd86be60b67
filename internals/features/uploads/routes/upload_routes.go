package routes

import (
	"github.com/gofiber/fiber/v2"

	"tutorhub_backend/internals/features/uploads/controller"
	"tutorhub_backend/internals/helpers/oss"
)

// UploadAdminRoutes mounts the content upload endpoints.
func UploadAdminRoutes(admin fiber.Router, blob *oss.Client) {
	ctrl := controller.NewUploadController(blob)

	uploads := admin.Group("/uploads")
	uploads.Post("/image", ctrl.UploadImage)
	uploads.Post("/pdf", ctrl.UploadPDF)
}
