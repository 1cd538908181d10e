package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/ivstih/interviewd/internal/interview"
)

func sampleDocument() interview.ReportDocument {
	return interview.ReportDocument{
		CandidateName: "Ada Lovelace",
		Role:          "Backend Engineer",
		CompanyName:   "Acme",
		GeneratedAt:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Evaluation: interview.Evaluation{
			Summary:        "Strong systems background with clear communication.",
			Strengths:      []string{"distributed systems", "mentoring"},
			Weaknesses:     []string{"limited frontend exposure"},
			Recommendation: "Hire",
			Scores: &interview.Scores{
				Communication:   4,
				Professionalism: 5,
				RoleFit:         4,
				Seniority:       4,
				Overall:         4,
			},
			Flags: &interview.Flags{EvasivenessOrLackOfDetail: true},
		},
		Transcript: "AI: Tell me about a service you designed.\nCandidate: I built the billing pipeline.",
	}
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := NewPDFRenderer().Render(sampleDocument())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a pdf: %q", data[:min(16, len(data))])
	}

	if len(data) < 1000 {
		t.Fatalf("suspiciously small pdf: %d bytes", len(data))
	}
}

func TestRenderHandlesSparseEvaluation(t *testing.T) {
	doc := interview.ReportDocument{
		GeneratedAt: time.Now(),
		Evaluation: interview.Evaluation{
			Summary:        "No summary generated.",
			Recommendation: "Hold",
		},
	}

	data, err := NewPDFRenderer().Render(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a pdf")
	}
}
