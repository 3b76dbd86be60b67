package service

import (
	"tutorhub_backend/internals/features/study/model"
)

// Signer swaps a stored blob URL (or key) for a short-lived signed URL
// when it belongs to our bucket; anything external passes through
// unchanged. The OSS client implements this.
type Signer interface {
	SignIfOwn(raw string) string
}

// RewriteSignedURLs walks every stored file reference in the document
// and re-signs the ones we own. Mutates the document in place; callers
// must not write the rewritten document back.
func RewriteSignedURLs(doc *model.ResourceDoc, signer Signer) {
	if signer == nil {
		return
	}

	for ti := range doc.ExamQuestions.Topics {
		topic := &doc.ExamQuestions.Topics[ti]
		for si := range topic.SubSections {
			sub := &topic.SubSections[si]
			if sub.WorksheetURL != "" {
				sub.WorksheetURL = signer.SignIfOwn(sub.WorksheetURL)
			}
			for mi := range sub.MCQs {
				if sub.MCQs[mi].ImageURL != "" {
					sub.MCQs[mi].ImageURL = signer.SignIfOwn(sub.MCQs[mi].ImageURL)
				}
			}
		}
	}

	for ti := range doc.RevisionNotes.Topics {
		topic := &doc.RevisionNotes.Topics[ti]
		for i := range topic.ImageURLs {
			topic.ImageURLs[i] = signer.SignIfOwn(topic.ImageURLs[i])
		}
		for si := range topic.SubTopics {
			sub := &topic.SubTopics[si]
			for i := range sub.ImageURLs {
				sub.ImageURLs[i] = signer.SignIfOwn(sub.ImageURLs[i])
			}
		}
	}

	for i := range doc.TargetTests.Tests {
		doc.TargetTests.Tests[i].URL = signer.SignIfOwn(doc.TargetTests.Tests[i].URL)
	}
	for i := range doc.MockExams.Exams {
		doc.MockExams.Exams[i].URL = signer.SignIfOwn(doc.MockExams.Exams[i].URL)
	}
	for i := range doc.PastPapers.Papers {
		p := &doc.PastPapers.Papers[i]
		if p.PaperURL != "" {
			p.PaperURL = signer.SignIfOwn(p.PaperURL)
		}
		if p.MarkSchemeURL != "" {
			p.MarkSchemeURL = signer.SignIfOwn(p.MarkSchemeURL)
		}
	}
	for i := range doc.AdditionalResources.Items {
		doc.AdditionalResources.Items[i].URL = signer.SignIfOwn(doc.AdditionalResources.Items[i].URL)
	}
}
