package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tutorhub_backend/internals/features/contacts/model"
)

var validate = validator.New()

type InitiateContactRequest struct {
	Message string `json:"message" validate:"omitempty,max=1000"`
}

func (r *InitiateContactRequest) Validate() error {
	return validate.Struct(r)
}

type ContactResponse struct {
	ContactID   uuid.UUID  `json:"contact_id"`
	StudentID   uuid.UUID  `json:"student_id"`
	TeacherID   uuid.UUID  `json:"teacher_id"`
	Status      string     `json:"status"`
	Cost        int        `json:"cost"`
	Message     string     `json:"message,omitempty"`
	InitiatedAt time.Time  `json:"initiated_at"`
	ContactedAt *time.Time `json:"contacted_at,omitempty"`
}

func NewContactResponse(m *model.Contact) ContactResponse {
	return ContactResponse{
		ContactID:   m.ContactID,
		StudentID:   m.ContactStudentID,
		TeacherID:   m.ContactTeacherID,
		Status:      m.ContactStatus,
		Cost:        m.ContactCost,
		Message:     m.ContactMessage,
		InitiatedAt: m.InitiatedAt,
		ContactedAt: m.ContactedAt,
	}
}

// TeacherContactItem is one row of the tutor's received-contacts list.
type TeacherContactItem struct {
	ContactResponse
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}
