package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContactStatusPending   = "pending"
	ContactStatusAccepted  = "accepted"
	ContactStatusRejected  = "rejected"
	ContactStatusContacted = "contacted"
)

// Contact records a student unlocking a tutor's contact details. The
// (student, teacher) pair is unique: one charge per pair, ever.
type Contact struct {
	ContactID        uuid.UUID `gorm:"column:contact_id;type:uuid;primaryKey" json:"contact_id"`
	ContactStudentID uuid.UUID `gorm:"column:contact_student_id;type:uuid;not null;uniqueIndex:uq_contact_pair" json:"contact_student_id"`
	ContactTeacherID uuid.UUID `gorm:"column:contact_teacher_id;type:uuid;not null;uniqueIndex:uq_contact_pair" json:"contact_teacher_id"`

	ContactStatus  string `gorm:"column:contact_status;type:varchar(20);default:'pending'" json:"contact_status"`
	ContactCost    int    `gorm:"column:contact_cost;not null" json:"contact_cost"`
	ContactMessage string `gorm:"column:contact_message;type:text" json:"contact_message"`

	InitiatedAt time.Time  `gorm:"column:initiated_at;autoCreateTime" json:"initiated_at"`
	ContactedAt *time.Time `gorm:"column:contacted_at" json:"contacted_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (m *Contact) BeforeCreate(tx *gorm.DB) error {
	if m.ContactID == uuid.Nil {
		m.ContactID = uuid.New()
	}
	return nil
}
