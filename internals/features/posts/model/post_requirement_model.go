package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PostSubject is one entry of the post_subjects JSONB list.
type PostSubject struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

const (
	PostStatusOpen   = "open"
	PostStatusClosed = "closed"
)

type PostRequirement struct {
	PostID        uuid.UUID `gorm:"column:post_id;type:uuid;primaryKey" json:"post_id"`
	PostStudentID uuid.UUID `gorm:"column:post_student_id;type:uuid;not null;index" json:"post_student_id"`

	PostDescription string `gorm:"column:post_description;type:text" json:"post_description"`
	PostPhone       string `gorm:"column:post_phone;type:varchar(30)" json:"post_phone"`
	PostBudget      int    `gorm:"column:post_budget;default:0" json:"post_budget"`

	PostSubjects  datatypes.JSON `gorm:"column:post_subjects;type:jsonb" json:"post_subjects"`
	PostLanguages datatypes.JSON `gorm:"column:post_languages;type:jsonb" json:"post_languages"`

	PostStatus string `gorm:"column:post_status;type:varchar(20);default:'open'" json:"post_status"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (PostRequirement) TableName() string {
	return "post_requirements"
}

func (p *PostRequirement) BeforeCreate(tx *gorm.DB) error {
	if p.PostID == uuid.Nil {
		p.PostID = uuid.New()
	}
	return nil
}

/* ===================== JSONB accessors ===================== */

func (p *PostRequirement) Subjects() ([]PostSubject, error) {
	if len(p.PostSubjects) == 0 {
		return nil, nil
	}
	var out []PostSubject
	if err := sonic.Unmarshal(p.PostSubjects, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *PostRequirement) SetSubjects(subjects []PostSubject) error {
	raw, err := sonic.Marshal(subjects)
	if err != nil {
		return err
	}
	p.PostSubjects = datatypes.JSON(raw)
	return nil
}

func (p *PostRequirement) Languages() ([]string, error) {
	if len(p.PostLanguages) == 0 {
		return nil, nil
	}
	var out []string
	if err := sonic.Unmarshal(p.PostLanguages, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *PostRequirement) SetLanguages(langs []string) error {
	raw, err := sonic.Marshal(langs)
	if err != nil {
		return err
	}
	p.PostLanguages = datatypes.JSON(raw)
	return nil
}
