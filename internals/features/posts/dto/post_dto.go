package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tutorhub_backend/internals/features/posts/model"
)

var validate = validator.New()

type PostSubjectInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Level string `json:"level" validate:"required,max=50"`
}

type CreatePostRequest struct {
	Description string             `json:"description" validate:"required,max=5000"`
	Phone       string             `json:"phone" validate:"required,max=30"`
	Budget      int                `json:"budget" validate:"omitempty,gte=0"`
	Subjects    []PostSubjectInput `json:"subjects" validate:"required,min=1,dive"`
	Languages   []string           `json:"languages" validate:"omitempty,dive,max=50"`
}

func (r *CreatePostRequest) Validate() error {
	return validate.Struct(r)
}

// PostResponse is the owner's view; the phone stays included here because
// the owner already knows it. Public listings strip it.
type PostResponse struct {
	PostID      uuid.UUID           `json:"post_id"`
	StudentID   uuid.UUID           `json:"student_id"`
	Description string              `json:"description"`
	Phone       string              `json:"phone,omitempty"`
	Budget      int                 `json:"budget"`
	Subjects    []model.PostSubject `json:"subjects"`
	Languages   []string            `json:"languages"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
}

func NewPostResponse(m *model.PostRequirement) (PostResponse, error) {
	subjects, err := m.Subjects()
	if err != nil {
		return PostResponse{}, err
	}
	languages, err := m.Languages()
	if err != nil {
		return PostResponse{}, err
	}
	return PostResponse{
		PostID:      m.PostID,
		StudentID:   m.PostStudentID,
		Description: m.PostDescription,
		Phone:       m.PostPhone,
		Budget:      m.PostBudget,
		Subjects:    subjects,
		Languages:   languages,
		Status:      m.PostStatus,
		CreatedAt:   m.CreatedAt,
	}, nil
}
