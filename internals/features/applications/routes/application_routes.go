package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/applications/controller"
)

// ApplicationUserRoutes mounts the tutor-facing application endpoints.
func ApplicationUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewApplicationController(db)

	applications := user.Group("/applications")
	applications.Post("/apply/:postId", ctrl.ApplyToPost)
	applications.Get("/contact/:applicationId", ctrl.GetContactInformation)
	applications.Get("/check/:postId", ctrl.CheckApplicationStatus)
	applications.Get("/teacher/:teacherId", ctrl.GetApplicationsByTeacher)
}

// ApplicationAdminRoutes mounts the moderation endpoints.
func ApplicationAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewApplicationController(db)

	applications := admin.Group("/applications")
	applications.Patch("/:applicationId/reject", ctrl.RejectApplication)
}
