package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/contacts/controller"
)

// ContactUserRoutes mounts the authenticated contact endpoints.
func ContactUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewContactController(db)

	contacts := user.Group("/contacts")
	contacts.Get("/teacher", ctrl.GetTeacherContacts)
	contacts.Post("/:teacherId", ctrl.InitiateContact)
	contacts.Get("/:teacherId/status", ctrl.GetContactStatus)
}
