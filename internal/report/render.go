// Package report renders sealed interview evaluations as PDF documents.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ivstih/interviewd/internal/interview"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 56.0
	lineHeight = 14.0
)

// PDFRenderer implements interview.ReportRenderer with a single-column PDF
// layout.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDF report renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render produces the evaluation report as PDF bytes.
func (r *PDFRenderer) Render(doc interview.ReportDocument) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+14)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin / 2)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(115, 115, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 22, "Interview Evaluation Report", "", "L", false)
	pdf.Ln(4)

	r.keyValue(pdf, "Candidate", doc.CandidateName)
	r.keyValue(pdf, "Position", doc.Role)
	r.keyValue(pdf, "Company", doc.CompanyName)
	r.keyValue(pdf, "Generated", doc.GeneratedAt.Format("2006-01-02 15:04:05"))
	r.rule(pdf)

	eval := doc.Evaluation

	r.heading(pdf, "Summary")
	r.paragraph(pdf, eval.Summary)
	r.rule(pdf)

	r.heading(pdf, "Strengths")
	r.bullets(pdf, eval.Strengths)

	r.heading(pdf, "Weaknesses")
	r.bullets(pdf, eval.Weaknesses)

	if eval.Scores != nil {
		r.rule(pdf)
		r.heading(pdf, "Scores (1-5)")
		s := eval.Scores
		r.paragraph(pdf, fmt.Sprintf(
			"Communication: %d  |  Professionalism: %d  |  Role Fit: %d  |  Seniority: %d  |  Overall: %d",
			s.Communication, s.Professionalism, s.RoleFit, s.Seniority, s.Overall,
		))
	}

	if eval.Flags != nil {
		r.rule(pdf)
		r.heading(pdf, "Behavioral Flags")
		flags := flagLabels(eval.Flags)
		if len(flags) > 0 {
			r.bullets(pdf, flags)
		} else {
			r.paragraph(pdf, "None observed.")
		}
	}

	r.rule(pdf)
	r.heading(pdf, "Recommendation")
	r.paragraph(pdf, eval.Recommendation)
	r.rule(pdf)

	r.heading(pdf, "Transcript")
	r.paragraph(pdf, doc.Transcript)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *PDFRenderer) heading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 22, title, "", "L", false)
}

func (r *PDFRenderer) keyValue(pdf *fpdf.Fpdf, key, value string) {
	if strings.TrimSpace(value) == "" {
		value = "N/A"
	}
	pdf.SetFont("Helvetica", "B", 11)
	label := key + ": "
	pdf.CellFormat(pdf.GetStringWidth(label), lineHeight, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, lineHeight, value, "", "L", false)
}

func (r *PDFRenderer) paragraph(pdf *fpdf.Fpdf, text string) {
	if strings.TrimSpace(text) == "" {
		text = "-"
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, lineHeight, text, "", "L", false)
}

func (r *PDFRenderer) bullets(pdf *fpdf.Fpdf, items []string) {
	if len(items) == 0 {
		r.paragraph(pdf, "-")
		return
	}

	for _, item := range items {
		pdf.SetFont("Helvetica", "B", 11)
		bullet := "- "
		pdf.CellFormat(pdf.GetStringWidth(bullet), lineHeight, bullet, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, lineHeight, item, "", "L", false)
	}
}

func (r *PDFRenderer) rule(pdf *fpdf.Fpdf) {
	pageWidth, _ := pdf.GetPageSize()
	y := pdf.GetY() + 6
	pdf.SetDrawColor(217, 217, 230)
	pdf.SetLineWidth(0.6)
	pdf.Line(pageMargin, y, pageWidth-pageMargin, y)
	pdf.SetY(y + 8)
}

func flagLabels(flags *interview.Flags) []string {
	var labels []string
	if flags.FixatedOnCompensation {
		labels = append(labels, "Fixated on compensation")
	}
	if flags.RudeOrConfrontational {
		labels = append(labels, "Rude or confrontational tone")
	}
	if flags.EvasivenessOrLackOfDetail {
		labels = append(labels, "Evasive / lack of detail")
	}
	return labels
}
