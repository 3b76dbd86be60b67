package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/study/dto"
	"tutorhub_backend/internals/features/study/model"
	"tutorhub_backend/internals/features/study/service"
	helper "tutorhub_backend/internals/helpers"
	"tutorhub_backend/internals/helpers/oss"
)

const staleRetries = 3

type StudyController struct {
	DB       *gorm.DB
	Blob     *oss.Client
	Renderer service.WorksheetRenderer
}

func NewStudyController(db *gorm.DB, blob *oss.Client, renderer service.WorksheetRenderer) *StudyController {
	return &StudyController{DB: db, Blob: blob, Renderer: renderer}
}

func (ctrl *StudyController) signer() service.Signer {
	if ctrl.Blob == nil {
		return nil
	}
	return ctrl.Blob
}

/* ===================== Load / mutate plumbing ===================== */

func (ctrl *StudyController) loadTriple(t dto.Triple) (*model.SubjectResources, error) {
	var row model.SubjectResources
	err := ctrl.DB.Where(
		"resource_subject_id = ? AND resource_course_id = ? AND resource_exam_board = ?",
		t.SubjectID, t.CourseID, t.ExamBoard,
	).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (ctrl *StudyController) loadOrCreateTriple(t dto.Triple) (*model.SubjectResources, error) {
	row, err := ctrl.loadTriple(t)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := model.SubjectResources{
		ResourceSubjectID: t.SubjectID,
		ResourceCourseID:  t.CourseID,
		ResourceExamBoard: t.ExamBoard,
	}
	if err := fresh.SetDoc(&model.ResourceDoc{}); err != nil {
		return nil, err
	}
	if err := ctrl.DB.Create(&fresh).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ctrl.loadTriple(t)
		}
		return nil, err
	}
	return &fresh, nil
}

// mutate runs one load-mutate-save cycle under the revision guard,
// retrying when a concurrent writer bumps the revision first.
func (ctrl *StudyController) mutate(t dto.Triple, fn func(doc *model.ResourceDoc) error) (*model.SubjectResources, *model.ResourceDoc, error) {
	for attempt := 0; attempt < staleRetries; attempt++ {
		row, err := ctrl.loadOrCreateTriple(t)
		if err != nil {
			return nil, nil, err
		}
		doc, err := row.Doc()
		if err != nil {
			return nil, nil, err
		}
		if err := fn(doc); err != nil {
			return nil, nil, err
		}
		err = row.SaveDoc(ctrl.DB, doc)
		if err == nil {
			return row, doc, nil
		}
		if !errors.Is(err, model.ErrStaleDoc) {
			return nil, nil, err
		}
	}
	return nil, nil, fiber.NewError(fiber.StatusConflict, "Resources changed concurrently, try again")
}

/* ===================== PUT /api/a/study/resources ===================== */

// UpsertResources replaces the whole document for a triple.
func (ctrl *StudyController) UpsertResources(c *fiber.Ctx) error {
	var req dto.UpsertResourcesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	row, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		*doc = req.Resources
		service.Recount(doc)
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Resources saved", fiber.Map{
		"resource_id": row.ResourceID,
		"resources":   doc,
	})
}

/* ===================== GET /api/u/study/resources ===================== */

// GetSubjectResources returns the full tree with every owned blob
// reference swapped for a fresh signed URL. A missing triple yields an
// empty skeleton instead of a 404.
func (ctrl *StudyController) GetSubjectResources(c *fiber.Ctx) error {
	triple, err := tripleFromQuery(c)
	if err != nil {
		return err
	}

	row, err := ctrl.loadTriple(triple)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonOK(c, "Resources fetched", fiber.Map{
			"resources": &model.ResourceDoc{},
			"isEmpty":   true,
		})
	}
	if err != nil {
		return err
	}

	doc, err := row.Doc()
	if err != nil {
		return err
	}
	service.RewriteSignedURLs(doc, ctrl.signer())

	return helper.JsonOK(c, "Resources fetched", fiber.Map{
		"resource_id": row.ResourceID,
		"resources":   doc,
		"isEmpty":     service.IsEmpty(doc),
	})
}

func tripleFromQuery(c *fiber.Ctx) (dto.Triple, error) {
	subjectID, err := uuid.Parse(c.Query("subject_id"))
	if err != nil {
		return dto.Triple{}, fiber.NewError(fiber.StatusBadRequest, "Invalid subject_id")
	}
	courseID, err := uuid.Parse(c.Query("course_id"))
	if err != nil {
		return dto.Triple{}, fiber.NewError(fiber.StatusBadRequest, "Invalid course_id")
	}
	examBoard := c.Query("exam_board")
	if examBoard == "" {
		return dto.Triple{}, fiber.NewError(fiber.StatusBadRequest, "exam_board is required")
	}
	return dto.Triple{SubjectID: subjectID, CourseID: courseID, ExamBoard: examBoard}, nil
}

/* ===================== GET /api/u/study/resources/course/:courseId ===================== */

func (ctrl *StudyController) GetBatchResourcesByCourse(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "courseId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid course id")
	}

	var rows []model.SubjectResources
	if err := ctrl.DB.Where("resource_course_id = ?", courseID).Find(&rows).Error; err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(rows))
	for i := range rows {
		doc, err := rows[i].Doc()
		if err != nil {
			return err
		}
		service.RewriteSignedURLs(doc, ctrl.signer())
		items = append(items, fiber.Map{
			"resource_id": rows[i].ResourceID,
			"subject_id":  rows[i].ResourceSubjectID,
			"exam_board":  rows[i].ResourceExamBoard,
			"resources":   doc,
		})
	}
	return helper.JsonOK(c, "Course resources fetched", fiber.Map{
		"course_id": courseID,
		"resources": items,
		"count":     len(items),
	})
}

/* ===================== MCQ endpoints ===================== */

func (ctrl *StudyController) AddMCQ(c *fiber.Ctx) error {
	var req dto.AddMCQRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := service.ValidateMCQ(req.MCQ); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		doc.ExamQuestions.IsEnabled = true
		ti := service.FindOrCreateTopic(doc, req.Topic)
		si := service.FindOrCreateSubSection(&doc.ExamQuestions.Topics[ti], req.SubTopic)
		sub := &doc.ExamQuestions.Topics[ti].SubSections[si]
		sub.MCQs = append(sub.MCQs, req.MCQ)
		service.Recount(doc)
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Question added", fiber.Map{"resources": doc})
}

func (ctrl *StudyController) UpdateMCQ(c *fiber.Ctx) error {
	var req dto.UpdateMCQRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := service.ValidateMCQ(req.MCQ); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		sub, err := findSubSection(doc, req.Topic, req.SubTopic)
		if err != nil {
			return err
		}
		if req.Index >= len(sub.MCQs) {
			return fiber.NewError(fiber.StatusNotFound, "Question index out of range")
		}
		sub.MCQs[req.Index] = req.MCQ
		service.Recount(doc)
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Question updated", fiber.Map{"resources": doc})
}

func (ctrl *StudyController) DeleteMCQ(c *fiber.Ctx) error {
	var req dto.DeleteMCQRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		sub, err := findSubSection(doc, req.Topic, req.SubTopic)
		if err != nil {
			return err
		}
		if req.Index >= len(sub.MCQs) {
			return fiber.NewError(fiber.StatusNotFound, "Question index out of range")
		}
		sub.MCQs = append(sub.MCQs[:req.Index], sub.MCQs[req.Index+1:]...)
		service.Recount(doc)
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Question deleted", fiber.Map{"resources": doc})
}

func (ctrl *StudyController) AddMultipleMCQs(c *fiber.Ctx) error {
	var req dto.AddMultipleMCQsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}
	for i, m := range req.MCQs {
		if err := service.ValidateMCQ(m); err != nil {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("question %d: %s", i, err.Error()))
		}
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		doc.ExamQuestions.IsEnabled = true
		ti := service.FindOrCreateTopic(doc, req.Topic)
		si := service.FindOrCreateSubSection(&doc.ExamQuestions.Topics[ti], req.SubTopic)
		sub := &doc.ExamQuestions.Topics[ti].SubSections[si]
		sub.MCQs = append(sub.MCQs, req.MCQs...)
		service.Recount(doc)
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, fmt.Sprintf("%d questions added", len(req.MCQs)),
		fiber.Map{"resources": doc})
}

func findSubSection(doc *model.ResourceDoc, topic, subTopic string) (*model.SubSection, error) {
	ti := service.FindTopicIndex(doc, topic)
	if ti < 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Topic not found")
	}
	si := service.FindSubSectionIndex(&doc.ExamQuestions.Topics[ti], subTopic)
	if si < 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Subsection not found")
	}
	return &doc.ExamQuestions.Topics[ti].SubSections[si], nil
}

/* ===================== POST /api/a/study/mcq/bulk-import ===================== */

// BulkImportMCQs groups the payload by (topic, subTopic), appends each
// group and renders one worksheet PDF per group. Malformed items and
// failed PDFs are recorded in the outcome report, never abort the rest.
func (ctrl *StudyController) BulkImportMCQs(c *fiber.Ctx) error {
	var req dto.BulkImportMCQsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	groups, skipped := service.GroupMCQs(req.MCQs)
	result := dto.BulkImportResult{
		Skipped: skipped,
		Errors:  []string{},
		ByTopic: map[string]int{},
	}
	for _, group := range groups {
		result.Added += len(group.MCQs)
		result.ByTopic[group.Topic] += len(group.MCQs)
	}

	// Render and upload every worksheet before the optimistic-write
	// loop. A stale retry must not re-upload blobs.
	row, err := ctrl.loadOrCreateTriple(req.Triple)
	if err != nil {
		return err
	}
	base, err := row.Doc()
	if err != nil {
		return err
	}
	keys := make([]string, len(groups))
	for i, group := range groups {
		mcqs := group.MCQs
		if ti := service.FindTopicIndex(base, group.Topic); ti >= 0 {
			if si := service.FindSubSectionIndex(&base.ExamQuestions.Topics[ti], group.SubTopic); si >= 0 {
				existing := base.ExamQuestions.Topics[ti].SubSections[si].MCQs
				mcqs = append(append([]model.MCQ{}, existing...), group.MCQs...)
			}
		}
		key, err := ctrl.renderAndUploadWorksheet(group.Topic, group.SubTopic, mcqs)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s / %s: worksheet failed: %v", group.Topic, group.SubTopic, err))
			continue
		}
		keys[i] = key
		result.PDFsGenerated++
	}

	_, _, err = ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		doc.ExamQuestions.IsEnabled = true
		for i, group := range groups {
			ti := service.FindOrCreateTopic(doc, group.Topic)
			si := service.FindOrCreateSubSection(&doc.ExamQuestions.Topics[ti], group.SubTopic)
			sub := &doc.ExamQuestions.Topics[ti].SubSections[si]
			sub.MCQs = append(sub.MCQs, group.MCQs...)
			if keys[i] != "" {
				sub.WorksheetURL = keys[i]
			}
		}
		service.Recount(doc)
		return nil
	})
	if err != nil {
		return err
	}

	return helper.JsonCreated(c, "Bulk import finished", result)
}

func (ctrl *StudyController) renderAndUploadWorksheet(topic, subTopic string, mcqs []model.MCQ) (string, error) {
	if ctrl.Renderer == nil {
		return "", fmt.Errorf("no worksheet renderer configured")
	}
	data, err := ctrl.Renderer.RenderWorksheet(topic, subTopic, mcqs)
	if err != nil {
		return "", err
	}
	if ctrl.Blob == nil {
		return "", fmt.Errorf("blob storage unavailable")
	}
	key, err := ctrl.Blob.UploadPDF(topic+"-"+subTopic, data)
	if err != nil {
		return "", err
	}
	log.Printf("[STUDY] ✅ worksheet uploaded: %s (%d questions)", key, len(mcqs))
	return key, nil
}

/* ===================== Revision notes ===================== */

func (ctrl *StudyController) AddRevisionNote(c *fiber.Ctx) error {
	var req dto.AddRevisionNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.Note.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Note name is required")
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		if service.NoteOrderTaken(doc, req.Note.Order, -1) {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Order %d is already used by another note", req.Note.Order))
		}
		doc.RevisionNotes.Topics = append(doc.RevisionNotes.Topics, req.Note)
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Revision note added", fiber.Map{"resources": doc})
}

func (ctrl *StudyController) UpdateRevisionNote(c *fiber.Ctx) error {
	var req dto.UpdateRevisionNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		if req.Index >= len(doc.RevisionNotes.Topics) {
			return fiber.NewError(fiber.StatusNotFound, "Revision note index out of range")
		}
		if service.NoteOrderTaken(doc, req.Note.Order, req.Index) {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Order %d is already used by another note", req.Note.Order))
		}
		doc.RevisionNotes.Topics[req.Index] = req.Note
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Revision note updated", fiber.Map{"resources": doc})
}

func (ctrl *StudyController) DeleteRevisionNote(c *fiber.Ctx) error {
	var req dto.DeleteRevisionNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		if req.Index >= len(doc.RevisionNotes.Topics) {
			return fiber.NewError(fiber.StatusNotFound, "Revision note index out of range")
		}
		doc.RevisionNotes.Topics = append(
			doc.RevisionNotes.Topics[:req.Index],
			doc.RevisionNotes.Topics[req.Index+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Revision note deleted", fiber.Map{"resources": doc})
}

/* ===================== Past papers ===================== */

func (ctrl *StudyController) AddPastPaper(c *fiber.Ctx) error {
	var req dto.AddPastPaperRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.Paper.PaperURL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "paperUrl is required")
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		doc.PastPapers.Papers = append(doc.PastPapers.Papers, req.Paper)
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Past paper added", fiber.Map{"resources": doc})
}

func (ctrl *StudyController) UpdatePastPaper(c *fiber.Ctx) error {
	var req dto.UpdatePastPaperRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		if req.Index >= len(doc.PastPapers.Papers) {
			return fiber.NewError(fiber.StatusNotFound, "Past paper index out of range")
		}
		doc.PastPapers.Papers[req.Index] = req.Paper
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Past paper updated", fiber.Map{"resources": doc})
}

func (ctrl *StudyController) DeletePastPaper(c *fiber.Ctx) error {
	var req dto.DeletePastPaperRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		if req.Index >= len(doc.PastPapers.Papers) {
			return fiber.NewError(fiber.StatusNotFound, "Past paper index out of range")
		}
		doc.PastPapers.Papers = append(
			doc.PastPapers.Papers[:req.Index],
			doc.PastPapers.Papers[req.Index+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Past paper deleted", fiber.Map{"resources": doc})
}

/* ===================== PATCH /api/a/study/toggle ===================== */

// ToggleResourceType flips one section's isEnabled flag, creating the
// triple on first touch. Idempotent.
func (ctrl *StudyController) ToggleResourceType(c *fiber.Ctx) error {
	var req dto.ToggleResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	_, doc, err := ctrl.mutate(req.Triple, func(doc *model.ResourceDoc) error {
		if err := service.SetEnabled(doc, req.ResourceType, *req.Enabled); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return nil
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Resource type toggled", fiber.Map{
		"resource_type": req.ResourceType,
		"enabled":       *req.Enabled,
		"resources":     doc,
	})
}
