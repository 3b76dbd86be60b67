package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	applicationRoutes "tutorhub_backend/internals/features/applications/routes"
	catalogRoutes "tutorhub_backend/internals/features/catalog/routes"
	contactRoutes "tutorhub_backend/internals/features/contacts/routes"
	paymentRoutes "tutorhub_backend/internals/features/payments/routes"
	paymentService "tutorhub_backend/internals/features/payments/service"
	postRoutes "tutorhub_backend/internals/features/posts/routes"
	reviewRoutes "tutorhub_backend/internals/features/reviews/routes"
	studyRoutes "tutorhub_backend/internals/features/study/routes"
	studyService "tutorhub_backend/internals/features/study/service"
	uploadRoutes "tutorhub_backend/internals/features/uploads/routes"
	walletRoutes "tutorhub_backend/internals/features/wallet/routes"
	"tutorhub_backend/internals/helpers/oss"
	"tutorhub_backend/internals/middlewares/auth"
	walletMiddleware "tutorhub_backend/internals/middlewares/wallet"
)

// Deps carries the external collaborators the feature routes need.
type Deps struct {
	Gateway  paymentService.Gateway
	Blob     *oss.Client
	Renderer studyService.WorksheetRenderer
}

// SetupRoutes mounts the three route surfaces:
//
//	/api/public  unauthenticated browse
//	/api/u       authenticated users (wallet auto-provisioned)
//	/api/a       admins
func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	api := app.Group("/api")

	public := api.Group("/public")
	catalogRoutes.CatalogPublicRoutes(public, db)
	reviewRoutes.ReviewPublicRoutes(public, db)

	user := api.Group("/u",
		auth.AuthMiddleware(),
		walletMiddleware.EnsureWallet(db),
	)
	walletRoutes.WalletUserRoutes(user, db)
	contactRoutes.ContactUserRoutes(user, db)
	postRoutes.PostUserRoutes(user, db)
	reviewRoutes.ReviewUserRoutes(user, db)
	applicationRoutes.ApplicationUserRoutes(user, db)
	paymentRoutes.PaymentUserRoutes(user, db, deps.Gateway)
	studyRoutes.StudyUserRoutes(user, db, deps.Blob)

	admin := api.Group("/a",
		auth.AuthMiddleware(),
		auth.OnlyAdmin(),
	)
	applicationRoutes.ApplicationAdminRoutes(admin, db)
	paymentRoutes.PaymentAdminRoutes(admin, db, deps.Gateway)
	studyRoutes.StudyAdminRoutes(admin, db, deps.Blob, deps.Renderer)
	uploadRoutes.UploadAdminRoutes(admin, deps.Blob)
}
