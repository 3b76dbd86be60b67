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
	"tutorhub_backend/internals/features/contacts/dto"
	"tutorhub_backend/internals/features/contacts/model"
	teacherModel "tutorhub_backend/internals/features/teachers/model"
	userModel "tutorhub_backend/internals/features/users/model"
	walletModel "tutorhub_backend/internals/features/wallet/model"
	walletService "tutorhub_backend/internals/features/wallet/service"
	helper "tutorhub_backend/internals/helpers"
	"tutorhub_backend/internals/helpers/mailer"
)

type ContactController struct {
	DB *gorm.DB
}

func NewContactController(db *gorm.DB) *ContactController {
	return &ContactController{DB: db}
}

/* ===================== POST /api/u/contacts/:teacherId ===================== */

// InitiateContact charges the fixed contact cost and unlocks the tutor's
// details. The debit and the contact row commit together; the unique
// (student, teacher) index is the backstop for concurrent double-sends.
func (ctrl *ContactController) InitiateContact(c *fiber.Ctx) error {
	studentID := helper.GetUserUUID(c)
	if studentID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	teacherID, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid teacher id")
	}

	var req dto.InitiateContactRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := req.Validate(); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	var teacher teacherModel.TeacherProfile
	if err := ctrl.DB.Where("teacher_id = ?", teacherID).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Teacher not found")
		}
		return err
	}
	if !teacher.TeacherApproved {
		return fiber.NewError(fiber.StatusBadRequest, "Teacher is not approved yet")
	}
	if teacher.TeacherUserID == studentID {
		return fiber.NewError(fiber.StatusBadRequest, "You cannot contact yourself")
	}

	var existing model.Contact
	err = ctrl.DB.Where("contact_student_id = ? AND contact_teacher_id = ?", studentID, teacherID).
		First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "You have already contacted this teacher")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now()
	contact := model.Contact{
		ContactStudentID: studentID,
		ContactTeacherID: teacherID,
		ContactStatus:    model.ContactStatusContacted,
		ContactCost:      constants.ContactCost,
		ContactMessage:   req.Message,
		InitiatedAt:      now,
		ContactedAt:      &now,
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&contact).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "You have already contacted this teacher")
			}
			return err
		}

		ref := walletService.Ref{ID: &contact.ContactID, Kind: walletModel.RefKindContact}
		desc := fmt.Sprintf("Contacted tutor %s", teacher.TeacherName)
		if err := walletService.Debit(tx, studentID, constants.ContactCost, desc, ref); err != nil {
			switch {
			case errors.Is(err, walletService.ErrInsufficientFunds):
				return fiber.NewError(fiber.StatusBadRequest, "Insufficient coin balance to contact this teacher")
			case errors.Is(err, walletService.ErrWalletNotFound):
				return fiber.NewError(fiber.StatusBadRequest, "Wallet not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	// post-commit, best-effort
	ctrl.notifyTeacher(&teacher, studentID, req.Message)

	balance, err := walletService.Balance(ctrl.DB, studentID)
	if err != nil {
		log.Printf("[CONTACT] balance read after debit failed: %v", err)
	}

	return helper.JsonCreated(c, "Contact initiated", fiber.Map{
		"contact": dto.NewContactResponse(&contact),
		"teacher_contact": fiber.Map{
			"email": teacher.TeacherEmail,
			"phone": teacher.TeacherPhone,
		},
		"remaining_balance": balance,
	})
}

func (ctrl *ContactController) notifyTeacher(teacher *teacherModel.TeacherProfile, studentID uuid.UUID, message string) {
	var student userModel.User
	if err := ctrl.DB.Where("user_id = ?", studentID).First(&student).Error; err != nil {
		log.Printf("[CONTACT] student %s lookup for mail failed: %v", studentID, err)
		return
	}
	mailer.SendAsync(
		teacher.TeacherEmail,
		"A student unlocked your contact details",
		mailer.ContactReceivedBody(teacher.TeacherName, student.UserName, message),
	)
}

/* ===================== GET /api/u/contacts/:teacherId/status ===================== */

// GetContactStatus is a pure read: null data when the pair has no contact.
func (ctrl *ContactController) GetContactStatus(c *fiber.Ctx) error {
	studentID := helper.GetUserUUID(c)
	if studentID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	teacherID, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid teacher id")
	}

	var contact model.Contact
	err = ctrl.DB.Where("contact_student_id = ? AND contact_teacher_id = ?", studentID, teacherID).
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonOK(c, "No contact yet", nil)
	}
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Contact status fetched", dto.NewContactResponse(&contact))
}

/* ===================== GET /api/u/contacts/teacher ===================== */

// GetTeacherContacts lists contacts the calling tutor has received,
// newest-first, with the student's name and email.
func (ctrl *ContactController) GetTeacherContacts(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var teacher teacherModel.TeacherProfile
	if err := ctrl.DB.Where("teacher_user_id = ?", userID).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorTeacher("received contacts"))
		}
		return err
	}

	var contacts []model.Contact
	if err := ctrl.DB.Where("contact_teacher_id = ?", teacher.TeacherID).
		Order("initiated_at DESC").
		Find(&contacts).Error; err != nil {
		return err
	}

	items := make([]dto.TeacherContactItem, 0, len(contacts))
	for i := range contacts {
		item := dto.TeacherContactItem{ContactResponse: dto.NewContactResponse(&contacts[i])}
		var student userModel.User
		if err := ctrl.DB.Where("user_id = ?", contacts[i].ContactStudentID).First(&student).Error; err == nil {
			item.StudentName = student.UserName
			item.StudentEmail = student.UserEmail
		}
		items = append(items, item)
	}

	return helper.JsonOK(c, "Received contacts fetched", fiber.Map{
		"contacts": items,
		"count":    len(items),
	})
}
