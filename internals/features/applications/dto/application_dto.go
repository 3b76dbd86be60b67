package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorhub_backend/internals/features/applications/model"
)

type ApplicationResponse struct {
	ApplicationID uuid.UUID  `json:"application_id"`
	TeacherID     uuid.UUID  `json:"teacher_id"`
	PostID        uuid.UUID  `json:"post_id"`
	Status        string     `json:"status"`
	Cost          int        `json:"cost"`
	AppliedAt     time.Time  `json:"applied_at"`
	ContactedAt   *time.Time `json:"contacted_at,omitempty"`
}

func NewApplicationResponse(m *model.TeacherApplication) ApplicationResponse {
	return ApplicationResponse{
		ApplicationID: m.ApplicationID,
		TeacherID:     m.ApplicationTeacherID,
		PostID:        m.ApplicationPostID,
		Status:        m.ApplicationStatus,
		Cost:          m.ApplicationCost,
		AppliedAt:     m.AppliedAt,
		ContactedAt:   m.ContactedAt,
	}
}

// ContactInformationResponse is the post owner's revealed contact card.
type ContactInformationResponse struct {
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	StudentPhone string `json:"student_phone"`
	Status       string `json:"status"`
}

// ApplicationStats are derived, never stored.
type ApplicationStats struct {
	Total            int64 `json:"total"`
	Accepted         int64 `json:"accepted"`
	Rejected         int64 `json:"rejected"`
	Contacted        int64 `json:"contacted"`
	TotalCoinsSpent  int64 `json:"total_coins_spent"`
	AppliedThisWeek  int64 `json:"applied_this_week"`
	AppliedThisMonth int64 `json:"applied_this_month"`
}
