package database

import (
	"log"

	applicationModel "tutorhub_backend/internals/features/applications/model"
	catalogModel "tutorhub_backend/internals/features/catalog/model"
	contactModel "tutorhub_backend/internals/features/contacts/model"
	paymentModel "tutorhub_backend/internals/features/payments/model"
	postModel "tutorhub_backend/internals/features/posts/model"
	reviewModel "tutorhub_backend/internals/features/reviews/model"
	studyModel "tutorhub_backend/internals/features/study/model"
	teacherModel "tutorhub_backend/internals/features/teachers/model"
	userModel "tutorhub_backend/internals/features/users/model"
	walletModel "tutorhub_backend/internals/features/wallet/model"
)

// Migrate keeps the schema in sync with the models. Safe to run on every
// boot; AutoMigrate only adds what is missing.
func Migrate() {
	err := DB.AutoMigrate(
		&userModel.User{},
		&teacherModel.TeacherProfile{},
		&postModel.PostRequirement{},
		&catalogModel.Subject{},
		&catalogModel.Course{},
		&walletModel.Wallet{},
		&walletModel.WalletTransaction{},
		&contactModel.Contact{},
		&applicationModel.TeacherApplication{},
		&reviewModel.Review{},
		&paymentModel.Payment{},
		&studyModel.SubjectResources{},
	)
	if err != nil {
		log.Fatalf("❌ migration failed: %v", err)
	}
	log.Println("✅ schema migrated.")
}
