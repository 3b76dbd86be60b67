package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a student's rating of a tutor. One review per (teacher,
// student) pair; the teacher's aggregate rating is recomputed from the
// rows, never incremented.
type Review struct {
	ReviewID        uuid.UUID `gorm:"column:review_id;type:uuid;primaryKey" json:"review_id"`
	ReviewTeacherID uuid.UUID `gorm:"column:review_teacher_id;type:uuid;not null;uniqueIndex:uq_review_pair" json:"review_teacher_id"`
	ReviewStudentID uuid.UUID `gorm:"column:review_student_id;type:uuid;not null;uniqueIndex:uq_review_pair" json:"review_student_id"`

	ReviewTitle  string `gorm:"column:review_title;type:varchar(100);not null" json:"review_title"`
	ReviewText   string `gorm:"column:review_text;type:text;not null" json:"review_text"`
	ReviewRating int    `gorm:"column:review_rating;not null;check:review_rating >= 1 AND review_rating <= 5" json:"review_rating"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

func (m *Review) BeforeCreate(tx *gorm.DB) error {
	if m.ReviewID == uuid.Nil {
		m.ReviewID = uuid.New()
	}
	return nil
}
