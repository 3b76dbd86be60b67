package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tutorhub_backend/internals/features/study/model"
	"tutorhub_backend/internals/features/study/service"
)

var validate = validator.New()

// Triple addresses one resource document.
type Triple struct {
	SubjectID uuid.UUID `json:"subject_id" validate:"required"`
	CourseID  uuid.UUID `json:"course_id" validate:"required"`
	ExamBoard string    `json:"exam_board" validate:"required,max=50"`
}

type UpsertResourcesRequest struct {
	Triple
	Resources model.ResourceDoc `json:"resources"`
}

func (r *UpsertResourcesRequest) Validate() error { return validate.Struct(r) }

/* ===================== MCQs ===================== */

type AddMCQRequest struct {
	Triple
	Topic    string    `json:"topic" validate:"required"`
	SubTopic string    `json:"subTopic" validate:"required"`
	MCQ      model.MCQ `json:"mcq"`
}

func (r *AddMCQRequest) Validate() error { return validate.Struct(r) }

type UpdateMCQRequest struct {
	Triple
	Topic    string    `json:"topic" validate:"required"`
	SubTopic string    `json:"subTopic" validate:"required"`
	Index    int       `json:"index" validate:"min=0"`
	MCQ      model.MCQ `json:"mcq"`
}

func (r *UpdateMCQRequest) Validate() error { return validate.Struct(r) }

type DeleteMCQRequest struct {
	Triple
	Topic    string `json:"topic" validate:"required"`
	SubTopic string `json:"subTopic" validate:"required"`
	Index    int    `json:"index" validate:"min=0"`
}

func (r *DeleteMCQRequest) Validate() error { return validate.Struct(r) }

type AddMultipleMCQsRequest struct {
	Triple
	Topic    string      `json:"topic" validate:"required"`
	SubTopic string      `json:"subTopic" validate:"required"`
	MCQs     []model.MCQ `json:"mcqs" validate:"required,min=1"`
}

func (r *AddMultipleMCQsRequest) Validate() error { return validate.Struct(r) }

type BulkImportMCQsRequest struct {
	Triple
	MCQs []service.IncomingMCQ `json:"mcqs" validate:"required,min=1"`
}

func (r *BulkImportMCQsRequest) Validate() error { return validate.Struct(r) }

// BulkImportResult is the per-item outcome report. The import never
// fails as a whole because single items or PDFs did.
type BulkImportResult struct {
	Added         int                  `json:"added"`
	Skipped       []service.SkippedMCQ `json:"skipped"`
	Errors        []string             `json:"errors"`
	ByTopic       map[string]int       `json:"by_topic"`
	PDFsGenerated int                  `json:"pdfs_generated"`
}

/* ===================== Revision notes ===================== */

type AddRevisionNoteRequest struct {
	Triple
	Note model.NoteTopic `json:"note"`
}

func (r *AddRevisionNoteRequest) Validate() error { return validate.Struct(r) }

type UpdateRevisionNoteRequest struct {
	Triple
	Index int             `json:"index" validate:"min=0"`
	Note  model.NoteTopic `json:"note"`
}

func (r *UpdateRevisionNoteRequest) Validate() error { return validate.Struct(r) }

type DeleteRevisionNoteRequest struct {
	Triple
	Index int `json:"index" validate:"min=0"`
}

func (r *DeleteRevisionNoteRequest) Validate() error { return validate.Struct(r) }

/* ===================== Past papers ===================== */

type AddPastPaperRequest struct {
	Triple
	Paper model.PastPaper `json:"paper"`
}

func (r *AddPastPaperRequest) Validate() error { return validate.Struct(r) }

type UpdatePastPaperRequest struct {
	Triple
	Index int             `json:"index" validate:"min=0"`
	Paper model.PastPaper `json:"paper"`
}

func (r *UpdatePastPaperRequest) Validate() error { return validate.Struct(r) }

type DeletePastPaperRequest struct {
	Triple
	Index int `json:"index" validate:"min=0"`
}

func (r *DeletePastPaperRequest) Validate() error { return validate.Struct(r) }

/* ===================== Toggle ===================== */

type ToggleResourceRequest struct {
	Triple
	ResourceType string `json:"resource_type" validate:"required"`
	Enabled      *bool  `json:"enabled" validate:"required"`
}

func (r *ToggleResourceRequest) Validate() error { return validate.Struct(r) }
