package controller

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tutorhub_backend/internals/features/study/model"
	"tutorhub_backend/internals/features/study/service"
	helper "tutorhub_backend/internals/helpers"
)

type fakeRenderer struct{ calls int }

func (f *fakeRenderer) RenderWorksheet(topic, subTopic string, mcqs []model.MCQ) ([]byte, error) {
	f.calls++
	return []byte("%PDF-fake"), nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.SubjectResources{}))
	return db
}

func setupApp(db *gorm.DB, renderer service.WorksheetRenderer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.FiberErrorHandler})

	ctrl := NewStudyController(db, nil, renderer)
	app.Put("/study/resources", ctrl.UpsertResources)
	app.Get("/study/resources", ctrl.GetSubjectResources)
	app.Get("/study/resources/course/:courseId", ctrl.GetBatchResourcesByCourse)
	app.Post("/study/mcq", ctrl.AddMCQ)
	app.Put("/study/mcq", ctrl.UpdateMCQ)
	app.Delete("/study/mcq", ctrl.DeleteMCQ)
	app.Post("/study/mcq/batch", ctrl.AddMultipleMCQs)
	app.Post("/study/mcq/bulk-import", ctrl.BulkImportMCQs)
	app.Post("/study/revision-notes", ctrl.AddRevisionNote)
	app.Put("/study/revision-notes", ctrl.UpdateRevisionNote)
	app.Delete("/study/revision-notes", ctrl.DeleteRevisionNote)
	app.Post("/study/past-papers", ctrl.AddPastPaper)
	app.Delete("/study/past-papers", ctrl.DeletePastPaper)
	app.Patch("/study/toggle", ctrl.ToggleResourceType)
	return app
}

type triple struct {
	SubjectID uuid.UUID
	CourseID  uuid.UUID
	ExamBoard string
}

func newTriple() triple {
	return triple{SubjectID: uuid.New(), CourseID: uuid.New(), ExamBoard: "AQA"}
}

func (tr triple) body(extra map[string]any) map[string]any {
	m := map[string]any{
		"subject_id": tr.SubjectID.String(),
		"course_id":  tr.CourseID.String(),
		"exam_board": tr.ExamBoard,
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func (tr triple) query() string {
	return "?subject_id=" + tr.SubjectID.String() +
		"&course_id=" + tr.CourseID.String() +
		"&exam_board=" + tr.ExamBoard
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		buf.Write(raw)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &out))
	return out
}

func mcqBody(question string) map[string]any {
	return map[string]any{
		"question":      question,
		"options":       []string{"a", "b", "c"},
		"correctAnswer": 1,
	}
}

func loadDoc(t *testing.T, db *gorm.DB, tr triple) *model.ResourceDoc {
	t.Helper()
	var row model.SubjectResources
	require.NoError(t, db.Where(
		"resource_subject_id = ? AND resource_course_id = ? AND resource_exam_board = ?",
		tr.SubjectID, tr.CourseID, tr.ExamBoard,
	).First(&row).Error)
	doc, err := row.Doc()
	require.NoError(t, err)
	return doc
}

/* ===================== MCQ lifecycle ===================== */

func TestAddMCQCreatesTreeAndCounters(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)
	tr := newTriple()

	resp := doJSON(t, app, http.MethodPost, "/study/mcq", tr.body(map[string]any{
		"topic": "Algebra", "subTopic": "Linear", "mcq": mcqBody("1+1?"),
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	doc := loadDoc(t, db, tr)
	require.Len(t, doc.ExamQuestions.Topics, 1)
	topic := doc.ExamQuestions.Topics[0]
	require.Equal(t, "Algebra", topic.Name)
	require.Equal(t, 1, topic.TotalQuestions)
	require.Equal(t, 1, topic.SubSections[0].TotalQuestions)

	// same topic and subsection are reused on the next add
	resp = doJSON(t, app, http.MethodPost, "/study/mcq", tr.body(map[string]any{
		"topic": "algebra", "subTopic": "LINEAR", "mcq": mcqBody("2+2?"),
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	doc = loadDoc(t, db, tr)
	require.Len(t, doc.ExamQuestions.Topics, 1)
	require.Len(t, doc.ExamQuestions.Topics[0].SubSections, 1)
	require.Equal(t, 2, doc.ExamQuestions.Topics[0].TotalQuestions)
}

func TestAddMCQEnablesExamQuestions(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)
	tr := newTriple()

	resp := doJSON(t, app, http.MethodPost, "/study/mcq", tr.body(map[string]any{
		"topic": "Algebra", "subTopic": "Linear", "mcq": mcqBody("q"),
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// a fresh triple created through the MCQ path turns the section on
	doc := loadDoc(t, db, tr)
	require.True(t, doc.ExamQuestions.IsEnabled)
}

func TestAddMCQRejectsMalformed(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)
	tr := newTriple()

	resp := doJSON(t, app, http.MethodPost, "/study/mcq", tr.body(map[string]any{
		"topic": "Algebra", "subTopic": "Linear",
		"mcq": map[string]any{"question": "q", "options": []string{"only"}, "correctAnswer": 0},
	}))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateAndDeleteMCQByIndex(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)
	tr := newTriple()

	for _, q := range []string{"q0", "q1", "q2"} {
		resp := doJSON(t, app, http.MethodPost, "/study/mcq", tr.body(map[string]any{
			"topic": "Algebra", "subTopic": "Linear", "mcq": mcqBody(q),
		}))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodPut, "/study/mcq", tr.body(map[string]any{
		"topic": "Algebra", "subTopic": "Linear", "index": 1, "mcq": mcqBody("q1-edited"),
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := loadDoc(t, db, tr)
	require.Equal(t, "q1-edited", doc.ExamQuestions.Topics[0].SubSections[0].MCQs[1].Question)
	require.Equal(t, 3, doc.ExamQuestions.Topics[0].TotalQuestions)

	// out-of-range positions are 404s
	resp = doJSON(t, app, http.MethodPut, "/study/mcq", tr.body(map[string]any{
		"topic": "Algebra", "subTopic": "Linear", "index": 9, "mcq": mcqBody("nope"),
	}))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/study/mcq", tr.body(map[string]any{
		"topic": "Algebra", "subTopic": "Linear", "index": 0,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc = loadDoc(t, db, tr)
	sub := doc.ExamQuestions.Topics[0].SubSections[0]
	require.Len(t, sub.MCQs, 2)
	require.Equal(t, "q1-edited", sub.MCQs[0].Question)
	require.Equal(t, 2, sub.TotalQuestions)
	require.Equal(t, 2, doc.ExamQuestions.Topics[0].TotalQuestions)

	// unknown topic is a 404, not a create
	resp = doJSON(t, app, http.MethodDelete, "/study/mcq", tr.body(map[string]any{
		"topic": "Calculus", "subTopic": "Linear", "index": 0,
	}))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddMultipleMCQs(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)
	tr := newTriple()

	resp := doJSON(t, app, http.MethodPost, "/study/mcq/batch", tr.body(map[string]any{
		"topic": "Algebra", "subTopic": "Linear",
		"mcqs": []map[string]any{mcqBody("q0"), mcqBody("q1"), mcqBody("q2")},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	doc := loadDoc(t, db, tr)
	require.Equal(t, 3, doc.ExamQuestions.Topics[0].TotalQuestions)

	// one malformed question rejects the whole explicit batch
	resp = doJSON(t, app, http.MethodPost, "/study/mcq/batch", tr.body(map[string]any{
		"topic": "Algebra", "subTopic": "Linear",
		"mcqs": []map[string]any{mcqBody("ok"), {"question": "", "options": []string{"a", "b"}}},
	}))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	doc = loadDoc(t, db, tr)
	require.Equal(t, 3, doc.ExamQuestions.Topics[0].TotalQuestions, "failed batch must not partially apply")
}

func TestBulkImportPartialFailure(t *testing.T) {
	db := setupDB(t)
	renderer := &fakeRenderer{}
	app := setupApp(db, renderer)
	tr := newTriple()

	resp := doJSON(t, app, http.MethodPost, "/study/mcq/bulk-import", tr.body(map[string]any{
		"mcqs": []map[string]any{
			{"topic": "Algebra", "subTopic": "Linear", "question": "q0", "options": []string{"a", "b"}, "correctAnswer": 0},
			{"topic": "", "subTopic": "Linear", "question": "q1", "options": []string{"a", "b"}, "correctAnswer": 0},
			{"topic": "Algebra", "subTopic": "Linear", "question": "q2", "options": []string{"a", "b"}, "correctAnswer": 1},
			{"topic": "Geometry", "subTopic": "Circles", "question": "q3", "options": []string{"a", "b"}, "correctAnswer": 0},
			{"topic": "Geometry", "subTopic": "Circles", "question": "", "options": []string{"a", "b"}},
		},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]any)
	require.EqualValues(t, 3, data["added"])
	require.Len(t, data["skipped"].([]any), 2)
	byTopic := data["by_topic"].(map[string]any)
	require.EqualValues(t, 2, byTopic["Algebra"])
	require.EqualValues(t, 1, byTopic["Geometry"])

	// no blob storage in this harness: every group records a PDF failure
	// and the import still succeeds
	require.EqualValues(t, 0, data["pdfs_generated"])
	require.Len(t, data["errors"].([]any), 2)

	doc := loadDoc(t, db, tr)
	require.True(t, doc.ExamQuestions.IsEnabled)
	require.Equal(t, 2, doc.ExamQuestions.Topics[0].TotalQuestions)
	require.Equal(t, 1, doc.ExamQuestions.Topics[1].TotalQuestions)
}

// bumpingRenderer acts like a concurrent writer: every render bumps the
// row's revision before returning the PDF bytes.
type bumpingRenderer struct {
	db    *gorm.DB
	tr    triple
	calls int
}

func (f *bumpingRenderer) RenderWorksheet(topic, subTopic string, mcqs []model.MCQ) ([]byte, error) {
	f.calls++
	var row model.SubjectResources
	if err := f.db.Where(
		"resource_subject_id = ? AND resource_course_id = ? AND resource_exam_board = ?",
		f.tr.SubjectID, f.tr.CourseID, f.tr.ExamBoard,
	).First(&row).Error; err != nil {
		return nil, err
	}
	doc, err := row.Doc()
	if err != nil {
		return nil, err
	}
	if err := row.SaveDoc(f.db, doc); err != nil {
		return nil, err
	}
	return []byte("%PDF-fake"), nil
}

func TestBulkImportRendersEachWorksheetOnce(t *testing.T) {
	db := setupDB(t)
	tr := newTriple()
	renderer := &bumpingRenderer{db: db, tr: tr}
	app := setupApp(db, renderer)

	resp := doJSON(t, app, http.MethodPost, "/study/mcq/bulk-import", tr.body(map[string]any{
		"mcqs": []map[string]any{
			{"topic": "Algebra", "subTopic": "Linear", "question": "q0", "options": []string{"a", "b"}, "correctAnswer": 0},
			{"topic": "Geometry", "subTopic": "Circles", "question": "q1", "options": []string{"a", "b"}, "correctAnswer": 1},
		},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// one render per group, even though the revision moved underneath
	// while the worksheets rendered
	require.Equal(t, 2, renderer.calls)

	doc := loadDoc(t, db, tr)
	require.Equal(t, 1, doc.ExamQuestions.Topics[0].TotalQuestions)
	require.Equal(t, 1, doc.ExamQuestions.Topics[1].TotalQuestions)
}

/* ===================== Revision notes ===================== */

func TestRevisionNoteOrderUniqueness(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)
	tr := newTriple()

	resp := doJSON(t, app, http.MethodPost, "/study/revision-notes", tr.body(map[string]any{
		"note": map[string]any{"name": "Intro", "order": 1},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// duplicate order rejected, nothing written
	resp = doJSON(t, app, http.MethodPost, "/study/revision-notes", tr.body(map[string]any{
		"note": map[string]any{"name": "Another", "order": 1},
	}))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	doc := loadDoc(t, db, tr)
	require.Len(t, doc.RevisionNotes.Topics, 1)

	resp = doJSON(t, app, http.MethodPost, "/study/revision-notes", tr.body(map[string]any{
		"note": map[string]any{"name": "Advanced", "order": 2},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// update keeping its own order is fine
	resp = doJSON(t, app, http.MethodPut, "/study/revision-notes", tr.body(map[string]any{
		"index": 0, "note": map[string]any{"name": "Intro v2", "order": 1},
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// update stealing another note's order is not
	resp = doJSON(t, app, http.MethodPut, "/study/revision-notes", tr.body(map[string]any{
		"index": 0, "note": map[string]any{"name": "Intro v3", "order": 2},
	}))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/study/revision-notes", tr.body(map[string]any{
		"index": 0,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc = loadDoc(t, db, tr)
	require.Len(t, doc.RevisionNotes.Topics, 1)
	require.Equal(t, "Advanced", doc.RevisionNotes.Topics[0].Name)
}

/* ===================== Past papers ===================== */

func TestPastPaperPositionalOps(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)
	tr := newTriple()

	resp := doJSON(t, app, http.MethodPost, "/study/past-papers", tr.body(map[string]any{
		"paper": map[string]any{"year": 2024, "paperUrl": "papers/2024.pdf"},
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/study/past-papers", tr.body(map[string]any{
		"index": 5,
	}))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/study/past-papers", tr.body(map[string]any{
		"index": 0,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := loadDoc(t, db, tr)
	require.Empty(t, doc.PastPapers.Papers)
}

/* ===================== Toggle + reads ===================== */

func TestToggleResourceType(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)
	tr := newTriple()

	resp := doJSON(t, app, http.MethodPatch, "/study/toggle", tr.body(map[string]any{
		"resource_type": "flashcards", "enabled": true,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := loadDoc(t, db, tr)
	require.True(t, doc.Flashcards.IsEnabled)

	// idempotent
	resp = doJSON(t, app, http.MethodPatch, "/study/toggle", tr.body(map[string]any{
		"resource_type": "flashcards", "enabled": true,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPatch, "/study/toggle", tr.body(map[string]any{
		"resource_type": "podcast", "enabled": true,
	}))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetResourcesEmptySkeleton(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)
	tr := newTriple()

	resp := doJSON(t, app, http.MethodGet, "/study/resources"+tr.query(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody(t, resp)["data"].(map[string]any)
	require.Equal(t, true, data["isEmpty"])
	resources := data["resources"].(map[string]any)
	require.Contains(t, resources, "examQuestions")
	require.Contains(t, resources, "pastPapers")

	// after content lands, isEmpty flips
	doJSON(t, app, http.MethodPost, "/study/mcq", tr.body(map[string]any{
		"topic": "Algebra", "subTopic": "Linear", "mcq": mcqBody("q"),
	}))
	resp = doJSON(t, app, http.MethodGet, "/study/resources"+tr.query(), nil)
	data = decodeBody(t, resp)["data"].(map[string]any)
	require.Equal(t, false, data["isEmpty"])
}

func TestUpsertReplacesDocAndRecounts(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)
	tr := newTriple()

	resp := doJSON(t, app, http.MethodPut, "/study/resources", tr.body(map[string]any{
		"resources": map[string]any{
			"examQuestions": map[string]any{
				"isEnabled": true,
				"topics": []map[string]any{{
					"name":           "Algebra",
					"totalQuestions": 42, // wrong on purpose
					"subSections": []map[string]any{{
						"name":           "Linear",
						"totalQuestions": 42,
						"mcqs":           []map[string]any{mcqBody("q0"), mcqBody("q1")},
					}},
				}},
			},
		},
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := loadDoc(t, db, tr)
	require.Equal(t, 2, doc.ExamQuestions.Topics[0].TotalQuestions)
	require.Equal(t, 2, doc.ExamQuestions.Topics[0].SubSections[0].TotalQuestions)
}

func TestBatchResourcesByCourse(t *testing.T) {
	db := setupDB(t)
	app := setupApp(db, nil)

	courseID := uuid.New()
	trA := triple{SubjectID: uuid.New(), CourseID: courseID, ExamBoard: "AQA"}
	trB := triple{SubjectID: uuid.New(), CourseID: courseID, ExamBoard: "Edexcel"}
	other := newTriple()

	for _, tr := range []triple{trA, trB, other} {
		resp := doJSON(t, app, http.MethodPost, "/study/mcq", tr.body(map[string]any{
			"topic": "Algebra", "subTopic": "Linear", "mcq": mcqBody("q"),
		}))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/study/resources/course/"+courseID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody(t, resp)["data"].(map[string]any)
	require.EqualValues(t, 2, data["count"])
}
