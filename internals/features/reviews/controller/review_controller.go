package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	contactModel "tutorhub_backend/internals/features/contacts/model"
	"tutorhub_backend/internals/features/reviews/dto"
	"tutorhub_backend/internals/features/reviews/model"
	teacherModel "tutorhub_backend/internals/features/teachers/model"
	userModel "tutorhub_backend/internals/features/users/model"
	helper "tutorhub_backend/internals/helpers"
)

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// refreshTeacherRating recomputes the tutor's aggregate from the rows.
func (ctrl *ReviewController) refreshTeacherRating(tx *gorm.DB, teacherID uuid.UUID) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&model.Review{}).
		Select("COALESCE(AVG(review_rating), 0) AS avg, COUNT(*) AS count").
		Where("review_teacher_id = ?", teacherID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	return tx.Model(&teacherModel.TeacherProfile{}).
		Where("teacher_id = ?", teacherID).
		Updates(map[string]any{
			"teacher_rating":        agg.Avg,
			"teacher_total_reviews": agg.Count,
		}).Error
}

/* ===================== GET /api/public/teachers/:teacherId/reviews ===================== */

func (ctrl *ReviewController) GetTeacherReviews(c *fiber.Ctx) error {
	teacherID, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid teacher id")
	}

	var reviews []model.Review
	if err := ctrl.DB.Where("review_teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return err
	}

	items := make([]dto.TeacherReviewItem, 0, len(reviews))
	for i := range reviews {
		item := dto.TeacherReviewItem{ReviewResponse: dto.NewReviewResponse(&reviews[i])}
		var student userModel.User
		if err := ctrl.DB.Where("user_id = ?", reviews[i].ReviewStudentID).
			First(&student).Error; err == nil {
			item.StudentName = student.UserName
		}
		items = append(items, item)
	}

	return helper.JsonOK(c, "Reviews fetched", fiber.Map{
		"reviews": items,
		"count":   len(items),
	})
}

/* ===================== POST /api/u/reviews/:teacherId ===================== */

// SubmitReview lets a student rate a tutor they have actually unlocked.
// Admins may review without a prior contact.
func (ctrl *ReviewController) SubmitReview(c *fiber.Ctx) error {
	studentID := helper.GetUserUUID(c)
	teacherID, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid teacher id")
	}

	var req dto.SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	var teacher teacherModel.TeacherProfile
	err = ctrl.DB.Where("teacher_id = ?", teacherID).First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Teacher not found")
	}
	if err != nil {
		return err
	}

	if helper.GetUserRole(c) != constants.RoleAdmin {
		var contacted int64
		err = ctrl.DB.Model(&contactModel.Contact{}).
			Where("contact_student_id = ? AND contact_teacher_id = ? AND contact_status = ?",
				studentID, teacherID, contactModel.ContactStatusContacted).
			Count(&contacted).Error
		if err != nil {
			return err
		}
		if contacted == 0 {
			return fiber.NewError(fiber.StatusForbidden,
				"You can only review teachers you have contacted")
		}
	}

	var existing int64
	err = ctrl.DB.Model(&model.Review{}).
		Where("review_teacher_id = ? AND review_student_id = ?", teacherID, studentID).
		Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "You have already reviewed this teacher")
	}

	review := model.Review{
		ReviewTeacherID: teacherID,
		ReviewStudentID: studentID,
		ReviewTitle:     req.Title,
		ReviewText:      req.Text,
		ReviewRating:    req.Rating,
	}
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "You have already reviewed this teacher")
			}
			return err
		}
		return ctrl.refreshTeacherRating(tx, teacherID)
	})
	if err != nil {
		return err
	}

	return helper.JsonCreated(c, "Review submitted", dto.NewReviewResponse(&review))
}

/* ===================== PUT / DELETE /api/u/reviews/:reviewId ===================== */

func (ctrl *ReviewController) loadOwnReview(c *fiber.Ctx) (*model.Review, error) {
	reviewID, err := helper.ParseUUIDParam(c, "reviewId")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid review id")
	}

	var review model.Review
	err = ctrl.DB.Where("review_id = ?", reviewID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Review not found")
	}
	if err != nil {
		return nil, err
	}

	if review.ReviewStudentID != helper.GetUserUUID(c) &&
		helper.GetUserRole(c) != constants.RoleAdmin {
		return nil, fiber.NewError(fiber.StatusForbidden, "Not authorized for this review")
	}
	return &review, nil
}

func (ctrl *ReviewController) UpdateReview(c *fiber.Ctx) error {
	review, err := ctrl.loadOwnReview(c)
	if err != nil {
		return err
	}

	var req dto.SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	review.ReviewTitle = req.Title
	review.ReviewText = req.Text
	review.ReviewRating = req.Rating
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return ctrl.refreshTeacherRating(tx, review.ReviewTeacherID)
	})
	if err != nil {
		return err
	}

	return helper.JsonUpdated(c, "Review updated", dto.NewReviewResponse(review))
}

func (ctrl *ReviewController) DeleteReview(c *fiber.Ctx) error {
	review, err := ctrl.loadOwnReview(c)
	if err != nil {
		return err
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(review).Error; err != nil {
			return err
		}
		return ctrl.refreshTeacherRating(tx, review.ReviewTeacherID)
	})
	if err != nil {
		return err
	}

	return helper.JsonDeleted(c, "Review deleted", fiber.Map{"review_id": review.ReviewID})
}
