package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusContacted = "contacted"
)

// TeacherApplication records a tutor applying to a student's post. One
// application per (teacher, post); application_cost is immutable once
// written.
type TeacherApplication struct {
	ApplicationID        uuid.UUID `gorm:"column:application_id;type:uuid;primaryKey" json:"application_id"`
	ApplicationTeacherID uuid.UUID `gorm:"column:application_teacher_id;type:uuid;not null;uniqueIndex:uq_application_pair" json:"application_teacher_id"`
	ApplicationPostID    uuid.UUID `gorm:"column:application_post_id;type:uuid;not null;uniqueIndex:uq_application_pair" json:"application_post_id"`

	ApplicationStatus string `gorm:"column:application_status;type:varchar(20);default:'accepted'" json:"application_status"`
	ApplicationCost   int    `gorm:"column:application_cost;not null" json:"application_cost"`

	AppliedAt   time.Time  `gorm:"column:applied_at;autoCreateTime" json:"applied_at"`
	ContactedAt *time.Time `gorm:"column:contacted_at" json:"contacted_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (TeacherApplication) TableName() string {
	return "teacher_applications"
}

func (m *TeacherApplication) BeforeCreate(tx *gorm.DB) error {
	if m.ApplicationID == uuid.Nil {
		m.ApplicationID = uuid.New()
	}
	return nil
}
