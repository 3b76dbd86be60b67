package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/reviews/controller"
)

// ReviewPublicRoutes mounts the unauthenticated review reads.
func ReviewPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctrl := controller.NewReviewController(db)

	public.Get("/teachers/:teacherId/reviews", ctrl.GetTeacherReviews)
}

// ReviewUserRoutes mounts the authenticated review endpoints.
func ReviewUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewReviewController(db)

	reviews := user.Group("/reviews")
	reviews.Post("/:teacherId", ctrl.SubmitReview)
	reviews.Put("/:reviewId", ctrl.UpdateReview)
	reviews.Delete("/:reviewId", ctrl.DeleteReview)
}
