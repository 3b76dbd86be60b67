package service

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"tutorhub_backend/internals/features/study/model"
)

// WorksheetRenderer turns one subsection's questions into a printable
// document. Kept behind an interface so bulk import stays testable
// without rendering real PDFs.
type WorksheetRenderer interface {
	RenderWorksheet(topic, subTopic string, mcqs []model.MCQ) ([]byte, error)
}

type pdfWorksheetRenderer struct{}

func NewPDFWorksheetRenderer() WorksheetRenderer {
	return pdfWorksheetRenderer{}
}

func (pdfWorksheetRenderer) RenderWorksheet(topic, subTopic string, mcqs []model.MCQ) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s / %s", topic, subTopic), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, topic, "", "L", false)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.MultiCell(0, 6, subTopic, "", "L", false)
	pdf.Ln(4)

	option := func(i int) string {
		return string(rune('A' + i))
	}

	for qi, q := range mcqs {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", qi+1, q.Question), "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		for oi, opt := range q.Options {
			pdf.MultiCell(0, 5, fmt.Sprintf("   %s) %s", option(oi), opt), "", "L", false)
		}
		pdf.Ln(3)
	}

	// answer key on its own page
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 8, "Answer Key", "", "L", false)
	pdf.SetFont("Helvetica", "", 11)
	for qi, q := range mcqs {
		line := fmt.Sprintf("%d. %s", qi+1, option(q.CorrectAnswer))
		if q.Explanation != "" {
			line += " - " + q.Explanation
		}
		pdf.MultiCell(0, 5, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
