package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/posts/controller"
)

// PostUserRoutes mounts the authenticated post-requirement endpoints.
func PostUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPostController(db)

	posts := user.Group("/posts")
	posts.Post("/", ctrl.CreatePost)
	posts.Patch("/:postId/close", ctrl.ClosePost)
}
