package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	"tutorhub_backend/internals/features/applications/dto"
	"tutorhub_backend/internals/features/applications/model"
	"tutorhub_backend/internals/features/applications/service"
	postModel "tutorhub_backend/internals/features/posts/model"
	teacherModel "tutorhub_backend/internals/features/teachers/model"
	userModel "tutorhub_backend/internals/features/users/model"
	walletModel "tutorhub_backend/internals/features/wallet/model"
	walletService "tutorhub_backend/internals/features/wallet/service"
	helper "tutorhub_backend/internals/helpers"
	"tutorhub_backend/internals/helpers/mailer"
)

type ApplicationController struct {
	DB *gorm.DB
}

func NewApplicationController(db *gorm.DB) *ApplicationController {
	return &ApplicationController{DB: db}
}

func (ctrl *ApplicationController) teacherOf(userID uuid.UUID) (*teacherModel.TeacherProfile, error) {
	var teacher teacherModel.TeacherProfile
	err := ctrl.DB.Where("teacher_user_id = ?", userID).First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusForbidden, constants.RoleErrorTeacher("applications"))
	}
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

/* ===================== POST /api/u/applications/apply/:postId ===================== */

// ApplyToPost validates eligibility, prices the application by the
// post's subject count and commits the debit together with the
// application row.
func (ctrl *ApplicationController) ApplyToPost(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	postID, err := helper.ParseUUIDParam(c, "postId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	teacher, err := ctrl.teacherOf(userID)
	if err != nil {
		return err
	}
	if !teacher.TeacherApproved {
		return fiber.NewError(fiber.StatusBadRequest, "Your tutor profile is not approved yet")
	}

	var post postModel.PostRequirement
	if err := ctrl.DB.Where("post_id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		return err
	}
	if post.PostStudentID == userID {
		return fiber.NewError(fiber.StatusBadRequest, "You cannot apply to your own post")
	}
	if post.PostStatus == postModel.PostStatusClosed {
		return fiber.NewError(fiber.StatusBadRequest, "This post is closed")
	}

	var existing model.TeacherApplication
	err = ctrl.DB.Where("application_teacher_id = ? AND application_post_id = ?", teacher.TeacherID, postID).
		First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "You have already applied to this post")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := service.CheckEligibility(teacher, &post); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	postSubjects, err := post.Subjects()
	if err != nil {
		return err
	}
	cost := service.CalculateApplicationCost(len(postSubjects))

	balance, err := walletService.Balance(ctrl.DB, userID)
	if err != nil {
		return err
	}
	if balance < cost {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Insufficient coin balance: applying costs %d coins", cost))
	}

	// pre-check only: the post owner must still be able to afford
	// revealing a contact, the owner's wallet is not touched here
	ownerBalance, err := walletService.Balance(ctrl.DB, post.PostStudentID)
	if err != nil {
		return err
	}
	if ownerBalance < constants.ContactCost {
		return fiber.NewError(fiber.StatusBadRequest, "The post owner cannot receive applications right now")
	}

	application := model.TeacherApplication{
		ApplicationTeacherID: teacher.TeacherID,
		ApplicationPostID:    postID,
		ApplicationStatus:    model.ApplicationStatusAccepted,
		ApplicationCost:      cost,
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&application).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "You have already applied to this post")
			}
			return err
		}

		ref := walletService.Ref{ID: &application.ApplicationID, Kind: walletModel.RefKindApplication}
		desc := fmt.Sprintf("Applied to post %s", postID)
		if err := walletService.Debit(tx, userID, cost, desc, ref); err != nil {
			if errors.Is(err, walletService.ErrInsufficientFunds) {
				return fiber.NewError(fiber.StatusBadRequest, "Insufficient coin balance")
			}
			if errors.Is(err, walletService.ErrWalletNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Wallet not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	ctrl.notifyPostOwner(&post, teacher)

	remaining, err := walletService.Balance(ctrl.DB, userID)
	if err != nil {
		log.Printf("[APPLICATION] balance read after debit failed: %v", err)
	}

	return helper.JsonCreated(c, "Application submitted", fiber.Map{
		"application":       dto.NewApplicationResponse(&application),
		"remaining_balance": remaining,
	})
}

func (ctrl *ApplicationController) notifyPostOwner(post *postModel.PostRequirement, teacher *teacherModel.TeacherProfile) {
	var owner userModel.User
	if err := ctrl.DB.Where("user_id = ?", post.PostStudentID).First(&owner).Error; err != nil {
		log.Printf("[APPLICATION] post owner %s lookup for mail failed: %v", post.PostStudentID, err)
		return
	}
	mailer.SendAsync(
		owner.UserEmail,
		"A tutor applied to your post",
		mailer.ApplicationReceivedBody(owner.UserName, teacher.TeacherName),
	)
}

/* ===================== GET /api/u/applications/contact/:applicationId ===================== */

// GetContactInformation reveals the post owner's contact card to the
// applying tutor. The first successful call moves accepted → contacted;
// repeat calls are idempotent reads.
func (ctrl *ApplicationController) GetContactInformation(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	applicationID, err := helper.ParseUUIDParam(c, "applicationId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid application id")
	}

	var application model.TeacherApplication
	if err := ctrl.DB.Where("application_id = ?", applicationID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Application not found")
		}
		return err
	}

	var teacher teacherModel.TeacherProfile
	if err := ctrl.DB.Where("teacher_id = ?", application.ApplicationTeacherID).First(&teacher).Error; err != nil {
		return err
	}
	if teacher.TeacherUserID != userID {
		return fiber.NewError(fiber.StatusUnauthorized, "This application is not yours")
	}

	switch application.ApplicationStatus {
	case model.ApplicationStatusAccepted:
		now := time.Now()
		res := ctrl.DB.Model(&model.TeacherApplication{}).
			Where("application_id = ? AND application_status = ?", applicationID, model.ApplicationStatusAccepted).
			Updates(map[string]any{
				"application_status": model.ApplicationStatusContacted,
				"contacted_at":       now,
			})
		if res.Error != nil {
			return res.Error
		}
		application.ApplicationStatus = model.ApplicationStatusContacted
		application.ContactedAt = &now
	case model.ApplicationStatusContacted:
		// idempotent re-read
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Contact details are not available for this application")
	}

	var post postModel.PostRequirement
	if err := ctrl.DB.Where("post_id = ?", application.ApplicationPostID).First(&post).Error; err != nil {
		return err
	}
	var owner userModel.User
	if err := ctrl.DB.Where("user_id = ?", post.PostStudentID).First(&owner).Error; err != nil {
		return err
	}

	phone := post.PostPhone
	if phone == "" {
		phone = owner.UserPhone
	}

	return helper.JsonOK(c, "Contact information fetched", dto.ContactInformationResponse{
		StudentName:  owner.UserName,
		StudentEmail: owner.UserEmail,
		StudentPhone: phone,
		Status:       application.ApplicationStatus,
	})
}

/* ===================== GET /api/u/applications/check/:postId ===================== */

// CheckApplicationStatus is a pure read: null data when the caller has
// not applied to the post.
func (ctrl *ApplicationController) CheckApplicationStatus(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	postID, err := helper.ParseUUIDParam(c, "postId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	teacher, err := ctrl.teacherOf(userID)
	if err != nil {
		return err
	}

	var application model.TeacherApplication
	err = ctrl.DB.Where("application_teacher_id = ? AND application_post_id = ?", teacher.TeacherID, postID).
		First(&application).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonOK(c, "No application yet", nil)
	}
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Application status fetched", dto.NewApplicationResponse(&application))
}

/* ===================== GET /api/u/applications/teacher/:teacherId ===================== */

// GetApplicationsByTeacher lists a tutor's applications with derived
// stats (counts per status, coins spent, recency buckets).
func (ctrl *ApplicationController) GetApplicationsByTeacher(c *fiber.Ctx) error {
	teacherID, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid teacher id")
	}

	var applications []model.TeacherApplication
	if err := ctrl.DB.Where("application_teacher_id = ?", teacherID).
		Order("applied_at DESC").
		Find(&applications).Error; err != nil {
		return err
	}

	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	var stats dto.ApplicationStats
	items := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		a := &applications[i]
		items = append(items, dto.NewApplicationResponse(a))

		stats.Total++
		stats.TotalCoinsSpent += int64(a.ApplicationCost)
		switch a.ApplicationStatus {
		case model.ApplicationStatusAccepted:
			stats.Accepted++
		case model.ApplicationStatusRejected:
			stats.Rejected++
		case model.ApplicationStatusContacted:
			stats.Contacted++
		}
		if a.AppliedAt.After(weekAgo) {
			stats.AppliedThisWeek++
		}
		if a.AppliedAt.After(monthAgo) {
			stats.AppliedThisMonth++
		}
	}

	return helper.JsonOK(c, "Applications fetched", fiber.Map{
		"applications": items,
		"stats":        stats,
	})
}

/* ===================== PATCH /api/a/applications/:applicationId/reject ===================== */

// RejectApplication is the moderation overwrite. Only accepted
// applications can be rejected; contacted and rejected are terminal.
func (ctrl *ApplicationController) RejectApplication(c *fiber.Ctx) error {
	applicationID, err := helper.ParseUUIDParam(c, "applicationId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid application id")
	}

	var application model.TeacherApplication
	if err := ctrl.DB.Where("application_id = ?", applicationID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Application not found")
		}
		return err
	}
	if application.ApplicationStatus != model.ApplicationStatusAccepted {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Cannot reject an application in status %s", application.ApplicationStatus))
	}

	if err := ctrl.DB.Model(&application).
		Update("application_status", model.ApplicationStatusRejected).Error; err != nil {
		return err
	}
	application.ApplicationStatus = model.ApplicationStatusRejected
	return helper.JsonUpdated(c, "Application rejected", dto.NewApplicationResponse(&application))
}
