package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subject struct {
	SubjectID uuid.UUID `gorm:"column:subject_id;type:uuid;primaryKey" json:"subject_id"`

	SubjectName     string `gorm:"column:subject_name;type:varchar(100);not null;unique" json:"subject_name"`
	SubjectIsActive bool   `gorm:"column:subject_is_active;default:true" json:"subject_is_active"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.SubjectID == uuid.Nil {
		s.SubjectID = uuid.New()
	}
	return nil
}
