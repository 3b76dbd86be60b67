package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tutorhub_backend/internals/features/reviews/model"
)

var validate = validator.New()

type SubmitReviewRequest struct {
	Title  string `json:"title" validate:"required,max=100"`
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
}

func (r *SubmitReviewRequest) Validate() error {
	return validate.Struct(r)
}

type ReviewResponse struct {
	ReviewID  uuid.UUID `json:"review_id"`
	TeacherID uuid.UUID `json:"teacher_id"`
	StudentID uuid.UUID `json:"student_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func NewReviewResponse(m *model.Review) ReviewResponse {
	return ReviewResponse{
		ReviewID:  m.ReviewID,
		TeacherID: m.ReviewTeacherID,
		StudentID: m.ReviewStudentID,
		Title:     m.ReviewTitle,
		Text:      m.ReviewText,
		Rating:    m.ReviewRating,
		CreatedAt: m.CreatedAt,
	}
}

// TeacherReviewItem is one row of a tutor's public review list.
type TeacherReviewItem struct {
	ReviewResponse
	StudentName string `json:"student_name"`
}
