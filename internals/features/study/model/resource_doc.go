package model

/* =====================================================================
   Resource document

   The whole learning-resource tree for one (subject, course, examBoard)
   triple lives in a single JSONB document. Counters are derived: they
   are recomputed from the lists on every mutation, never incremented.
===================================================================== */

type ResourceDoc struct {
	ExamQuestions       ExamQuestions       `json:"examQuestions"`
	RevisionNotes       RevisionNotes       `json:"revisionNotes"`
	Flashcards          Flashcards          `json:"flashcards"`
	TargetTests         TargetTests         `json:"targetTests"`
	MockExams           MockExams           `json:"mockExams"`
	PastPapers          PastPapers          `json:"pastPapers"`
	AdditionalResources AdditionalResources `json:"additionalResources"`
}

// Resource type names accepted by the toggle endpoint.
const (
	TypeExamQuestions       = "examQuestions"
	TypeRevisionNotes       = "revisionNotes"
	TypeFlashcards          = "flashcards"
	TypeTargetTests         = "targetTests"
	TypeMockExams           = "mockExams"
	TypePastPapers          = "pastPapers"
	TypeAdditionalResources = "additionalResources"
)

/* ===================== Exam questions ===================== */

type ExamQuestions struct {
	IsEnabled bool        `json:"isEnabled"`
	Topics    []ExamTopic `json:"topics"`
}

type ExamTopic struct {
	Name           string       `json:"name"`
	TotalQuestions int          `json:"totalQuestions"`
	SubSections    []SubSection `json:"subSections"`
}

type SubSection struct {
	Name           string `json:"name"`
	TotalQuestions int    `json:"totalQuestions"`
	WorksheetURL   string `json:"worksheetUrl,omitempty"`
	MCQs           []MCQ  `json:"mcqs"`
}

type MCQ struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

/* ===================== Revision notes ===================== */

type RevisionNotes struct {
	IsEnabled bool        `json:"isEnabled"`
	Topics    []NoteTopic `json:"topics"`
}

// NoteTopic.Order must be unique among the document's note topics.
type NoteTopic struct {
	Name      string         `json:"name"`
	Order     int            `json:"order"`
	Content   string         `json:"content,omitempty"`
	ImageURLs []string       `json:"imageUrls,omitempty"`
	SubTopics []NoteSubTopic `json:"subTopics,omitempty"`
}

type NoteSubTopic struct {
	Name      string   `json:"name"`
	Content   string   `json:"content,omitempty"`
	ImageURLs []string `json:"imageUrls,omitempty"`
}

/* ===================== Flat collections ===================== */

type Flashcards struct {
	IsEnabled bool        `json:"isEnabled"`
	Cards     []Flashcard `json:"cards"`
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type TargetTests struct {
	IsEnabled bool           `json:"isEnabled"`
	Tests     []FileResource `json:"tests"`
}

type MockExams struct {
	IsEnabled bool           `json:"isEnabled"`
	Exams     []FileResource `json:"exams"`
}

type FileResource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type PastPapers struct {
	IsEnabled bool        `json:"isEnabled"`
	Papers    []PastPaper `json:"papers"`
}

type PastPaper struct {
	Year          int    `json:"year"`
	Season        string `json:"season,omitempty"`
	PaperURL      string `json:"paperUrl"`
	MarkSchemeURL string `json:"markSchemeUrl,omitempty"`
}

type AdditionalResources struct {
	IsEnabled bool                 `json:"isEnabled"`
	Items     []AdditionalResource `json:"items"`
}

type AdditionalResource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Kind  string `json:"kind,omitempty"`
}
