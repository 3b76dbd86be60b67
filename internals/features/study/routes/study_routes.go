package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/study/controller"
	"tutorhub_backend/internals/features/study/service"
	"tutorhub_backend/internals/helpers/oss"
)

// StudyUserRoutes mounts the read side of the resource tree.
func StudyUserRoutes(user fiber.Router, db *gorm.DB, blob *oss.Client) {
	ctrl := controller.NewStudyController(db, blob, nil)

	study := user.Group("/study")
	study.Get("/resources", ctrl.GetSubjectResources)
	study.Get("/resources/course/:courseId", ctrl.GetBatchResourcesByCourse)
}

// StudyAdminRoutes mounts the content-management side.
func StudyAdminRoutes(admin fiber.Router, db *gorm.DB, blob *oss.Client, renderer service.WorksheetRenderer) {
	ctrl := controller.NewStudyController(db, blob, renderer)

	study := admin.Group("/study")
	study.Put("/resources", ctrl.UpsertResources)

	study.Post("/mcq", ctrl.AddMCQ)
	study.Put("/mcq", ctrl.UpdateMCQ)
	study.Delete("/mcq", ctrl.DeleteMCQ)
	study.Post("/mcq/batch", ctrl.AddMultipleMCQs)
	study.Post("/mcq/bulk-import", ctrl.BulkImportMCQs)

	study.Post("/revision-notes", ctrl.AddRevisionNote)
	study.Put("/revision-notes", ctrl.UpdateRevisionNote)
	study.Delete("/revision-notes", ctrl.DeleteRevisionNote)

	study.Post("/past-papers", ctrl.AddPastPaper)
	study.Put("/past-papers", ctrl.UpdatePastPaper)
	study.Delete("/past-papers", ctrl.DeletePastPaper)

	study.Patch("/toggle", ctrl.ToggleResourceType)
}
