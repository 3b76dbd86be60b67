package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TeacherSubject is one entry of the teacher_subjects JSONB list. The
// level pair is an inclusive range on the fixed level scale.
type TeacherSubject struct {
	Name      string `json:"name"`
	FromLevel string `json:"fromLevel"`
	ToLevel   string `json:"toLevel"`
}

type TeacherProfile struct {
	TeacherID     uuid.UUID `gorm:"column:teacher_id;type:uuid;primaryKey" json:"teacher_id"`
	TeacherUserID uuid.UUID `gorm:"column:teacher_user_id;type:uuid;not null;unique" json:"teacher_user_id"`

	TeacherName  string `gorm:"column:teacher_name;type:varchar(100);not null" json:"teacher_name"`
	TeacherEmail string `gorm:"column:teacher_email;type:varchar(100);not null" json:"teacher_email"`
	TeacherPhone string `gorm:"column:teacher_phone;type:varchar(30)" json:"teacher_phone"`
	TeacherBio   string `gorm:"column:teacher_bio;type:text" json:"teacher_bio"`

	TeacherSubjects  datatypes.JSON `gorm:"column:teacher_subjects;type:jsonb" json:"teacher_subjects"`
	TeacherLanguages datatypes.JSON `gorm:"column:teacher_languages;type:jsonb" json:"teacher_languages"`

	TeacherHourlyFee int  `gorm:"column:teacher_hourly_fee;default:0" json:"teacher_hourly_fee"`
	TeacherApproved  bool `gorm:"column:teacher_approved;default:false" json:"teacher_approved"`

	// derived from the reviews table, recomputed on every review write
	TeacherRating       float64 `gorm:"column:teacher_rating;default:0" json:"teacher_rating"`
	TeacherTotalReviews int     `gorm:"column:teacher_total_reviews;default:0" json:"teacher_total_reviews"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (TeacherProfile) TableName() string {
	return "teacher_profiles"
}

func (t *TeacherProfile) BeforeCreate(tx *gorm.DB) error {
	if t.TeacherID == uuid.Nil {
		t.TeacherID = uuid.New()
	}
	return nil
}

/* ===================== JSONB accessors ===================== */

func (t *TeacherProfile) Subjects() ([]TeacherSubject, error) {
	if len(t.TeacherSubjects) == 0 {
		return nil, nil
	}
	var out []TeacherSubject
	if err := sonic.Unmarshal(t.TeacherSubjects, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *TeacherProfile) SetSubjects(subjects []TeacherSubject) error {
	raw, err := sonic.Marshal(subjects)
	if err != nil {
		return err
	}
	t.TeacherSubjects = datatypes.JSON(raw)
	return nil
}

func (t *TeacherProfile) Languages() ([]string, error) {
	if len(t.TeacherLanguages) == 0 {
		return nil, nil
	}
	var out []string
	if err := sonic.Unmarshal(t.TeacherLanguages, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *TeacherProfile) SetLanguages(langs []string) error {
	raw, err := sonic.Marshal(langs)
	if err != nil {
		return err
	}
	t.TeacherLanguages = datatypes.JSON(raw)
	return nil
}
