package interview

import (
	"context"
	"fmt"
	"time"

	"github.com/ivstih/interviewd/internal/ai"
	"github.com/ivstih/interviewd/internal/logger"

	"go.uber.org/zap"
)

// ReportRenderer turns a finished evaluation into a downloadable document.
type ReportRenderer interface {
	Render(doc ReportDocument) ([]byte, error)
}

// ReportDocument carries everything the renderer needs for one report.
type ReportDocument struct {
	CandidateName string
	Role          string
	CompanyName   string
	GeneratedAt   time.Time
	Evaluation    Evaluation
	Transcript    string
}

// Completer seals a finished interview: it runs the evaluation oracle over the
// transcript, renders the report document and attaches the report to the
// session exactly once.
type Completer struct {
	store    Store
	oracle   ai.Generator
	renderer ReportRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewCompleter creates a completion handler over the given store, evaluation
// oracle and report renderer.
func NewCompleter(store Store, oracle ai.Generator, renderer ReportRenderer, logger *zap.Logger) *Completer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Completer{
		store:    store,
		oracle:   oracle,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// Complete produces the session's report. The server-persisted transcript is
// preferred; fallbackHistory covers clients that retained their own copy when
// the server recorded nothing. Repeat calls on a sealed session are no-ops.
func (c *Completer) Complete(ctx context.Context, sessionID string, fallbackHistory []Turn) error {
	return c.store.Update(sessionID, func(s *Session) error {
		if s.Completed() {
			c.logger.Debug("report already sealed", zap.String(logger.FieldSession, s.ID))
			return nil
		}

		turns := s.Transcript
		if len(turns) == 0 {
			turns = fallbackHistory
		}
		if len(turns) == 0 {
			return fmt.Errorf("%w: session %s", ErrNoTranscript, s.ID)
		}

		transcript := FormatTranscript(turns)

		raw, err := c.oracle.GenerateContent(ctx, buildEvalPrompt(s.JobDescription, s.ResumeText, transcript))
		if err != nil {
			return fmt.Errorf("evaluation oracle: %w", err)
		}

		evaluation := ParseEvaluation(raw)
		generatedAt := c.now()

		pdf, err := c.renderer.Render(ReportDocument{
			CandidateName: s.CandidateName,
			Role:          s.Role,
			CompanyName:   s.CompanyName,
			GeneratedAt:   generatedAt,
			Evaluation:    evaluation,
			Transcript:    transcript,
		})
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		s.Report = &Report{
			GeneratedAt: generatedAt,
			Evaluation:  evaluation,
			Transcript:  transcript,
			PDF:         pdf,
		}

		c.logger.Info("interview report sealed",
			zap.String(logger.FieldSession, s.ID),
			zap.Int("turns", len(turns)),
			zap.String("recommendation", evaluation.Recommendation),
		)

		return nil
	})
}
