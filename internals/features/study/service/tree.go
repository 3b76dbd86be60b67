package service

import (
	"fmt"
	"strings"

	"tutorhub_backend/internals/features/study/model"
)

/* =====================================================================
   Pure operations on the resource document. No IO here: the controller
   loads the row, calls these, and writes the document back under the
   revision guard.
===================================================================== */

// FindTopicIndex matches exam-question topics by trimmed,
// case-insensitive name. -1 when absent.
func FindTopicIndex(doc *model.ResourceDoc, name string) int {
	for i := range doc.ExamQuestions.Topics {
		if strings.EqualFold(strings.TrimSpace(doc.ExamQuestions.Topics[i].Name), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// FindOrCreateTopic returns the index of the named topic, appending an
// empty one when missing.
func FindOrCreateTopic(doc *model.ResourceDoc, name string) int {
	if idx := FindTopicIndex(doc, name); idx >= 0 {
		return idx
	}
	doc.ExamQuestions.Topics = append(doc.ExamQuestions.Topics, model.ExamTopic{
		Name: strings.TrimSpace(name),
	})
	return len(doc.ExamQuestions.Topics) - 1
}

// FindSubSectionIndex matches subsections of a topic by trimmed,
// case-insensitive name. -1 when absent.
func FindSubSectionIndex(topic *model.ExamTopic, name string) int {
	for i := range topic.SubSections {
		if strings.EqualFold(strings.TrimSpace(topic.SubSections[i].Name), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// FindOrCreateSubSection returns the index of the named subsection,
// appending an empty one when missing.
func FindOrCreateSubSection(topic *model.ExamTopic, name string) int {
	if idx := FindSubSectionIndex(topic, name); idx >= 0 {
		return idx
	}
	topic.SubSections = append(topic.SubSections, model.SubSection{
		Name: strings.TrimSpace(name),
	})
	return len(topic.SubSections) - 1
}

// Recount rebuilds every derived counter from the source lists. Called
// after any exam-question mutation so counters can never drift.
func Recount(doc *model.ResourceDoc) {
	for i := range doc.ExamQuestions.Topics {
		topic := &doc.ExamQuestions.Topics[i]
		total := 0
		for j := range topic.SubSections {
			sub := &topic.SubSections[j]
			sub.TotalQuestions = len(sub.MCQs)
			total += sub.TotalQuestions
		}
		topic.TotalQuestions = total
	}
}

// ValidateMCQ rejects structurally broken questions before they enter
// the document.
func ValidateMCQ(m model.MCQ) error {
	if strings.TrimSpace(m.Question) == "" {
		return fmt.Errorf("question text is required")
	}
	if len(m.Options) < 2 {
		return fmt.Errorf("at least two options are required")
	}
	if m.CorrectAnswer < 0 || m.CorrectAnswer >= len(m.Options) {
		return fmt.Errorf("correctAnswer index %d is out of range", m.CorrectAnswer)
	}
	return nil
}

/* ===================== Bulk import grouping ===================== */

// IncomingMCQ is one row of a bulk import payload.
type IncomingMCQ struct {
	Topic    string `json:"topic"`
	SubTopic string `json:"subTopic"`
	model.MCQ
}

// MCQGroup collects importable questions for one (topic, subTopic).
type MCQGroup struct {
	Topic    string
	SubTopic string
	MCQs     []model.MCQ
}

// SkippedMCQ records why one incoming item was left out.
type SkippedMCQ struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// GroupMCQs partitions a bulk payload by (topic, subTopic), preserving
// first-seen group order. Malformed items are skipped with a reason and
// never abort the rest.
func GroupMCQs(items []IncomingMCQ) ([]MCQGroup, []SkippedMCQ) {
	var groups []MCQGroup
	index := map[string]int{}
	var skipped []SkippedMCQ

	for i, item := range items {
		topic := strings.TrimSpace(item.Topic)
		subTopic := strings.TrimSpace(item.SubTopic)
		switch {
		case topic == "":
			skipped = append(skipped, SkippedMCQ{Index: i, Reason: "missing topic"})
			continue
		case subTopic == "":
			skipped = append(skipped, SkippedMCQ{Index: i, Reason: "missing subTopic"})
			continue
		}
		if err := ValidateMCQ(item.MCQ); err != nil {
			skipped = append(skipped, SkippedMCQ{Index: i, Reason: err.Error()})
			continue
		}

		key := strings.ToLower(topic) + "\x00" + strings.ToLower(subTopic)
		gi, ok := index[key]
		if !ok {
			groups = append(groups, MCQGroup{Topic: topic, SubTopic: subTopic})
			gi = len(groups) - 1
			index[key] = gi
		}
		groups[gi].MCQs = append(groups[gi].MCQs, item.MCQ)
	}
	return groups, skipped
}

/* ===================== Revision notes ===================== */

// NoteOrderTaken reports whether another note topic already uses this
// order. excludeIdx skips the topic being updated (-1 for inserts).
func NoteOrderTaken(doc *model.ResourceDoc, order, excludeIdx int) bool {
	for i := range doc.RevisionNotes.Topics {
		if i == excludeIdx {
			continue
		}
		if doc.RevisionNotes.Topics[i].Order == order {
			return true
		}
	}
	return false
}

/* ===================== Toggle ===================== */

// SetEnabled flips the isEnabled flag of one named resource type.
func SetEnabled(doc *model.ResourceDoc, resourceType string, enabled bool) error {
	switch resourceType {
	case model.TypeExamQuestions:
		doc.ExamQuestions.IsEnabled = enabled
	case model.TypeRevisionNotes:
		doc.RevisionNotes.IsEnabled = enabled
	case model.TypeFlashcards:
		doc.Flashcards.IsEnabled = enabled
	case model.TypeTargetTests:
		doc.TargetTests.IsEnabled = enabled
	case model.TypeMockExams:
		doc.MockExams.IsEnabled = enabled
	case model.TypePastPapers:
		doc.PastPapers.IsEnabled = enabled
	case model.TypeAdditionalResources:
		doc.AdditionalResources.IsEnabled = enabled
	default:
		return fmt.Errorf("unknown resource type %q", resourceType)
	}
	return nil
}

// IsEmpty reports whether the document holds no content at all.
func IsEmpty(doc *model.ResourceDoc) bool {
	return len(doc.ExamQuestions.Topics) == 0 &&
		len(doc.RevisionNotes.Topics) == 0 &&
		len(doc.Flashcards.Cards) == 0 &&
		len(doc.TargetTests.Tests) == 0 &&
		len(doc.MockExams.Exams) == 0 &&
		len(doc.PastPapers.Papers) == 0 &&
		len(doc.AdditionalResources.Items) == 0
}
