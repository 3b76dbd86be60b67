package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/catalog/controller"
)

// CatalogPublicRoutes mounts the unauthenticated browse endpoints.
func CatalogPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCatalogController(db)

	public.Get("/subjects", ctrl.ListSubjects)
	public.Get("/courses", ctrl.ListCourses)
	public.Get("/teachers", ctrl.ListTeachers)
	public.Get("/teachers/:teacherId", ctrl.GetTeacher)
	public.Get("/posts", ctrl.ListOpenPosts)
}
