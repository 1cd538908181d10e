package interview

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ivstih/interviewd/internal/ai"
	"github.com/ivstih/interviewd/internal/extract"
	"github.com/ivstih/interviewd/internal/logger"
	"github.com/ivstih/interviewd/internal/mail"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Document is an uploaded file to extract interview context from.
type Document struct {
	Name string
	Data []byte
}

// ScheduleRequest carries everything needed to set up one interview.
type ScheduleRequest struct {
	CandidateEmail string
	HREmail        string
	InterviewDate  string
	InterviewTime  string
	CV             Document
	JobDescription Document
}

// ScheduleResult is returned to the scheduling caller.
type ScheduleResult struct {
	SessionID     string         `json:"sessionId"`
	InterviewLink string         `json:"interviewLink"`
	HRPortalLink  string         `json:"hrPortalLink"`
	Questions     []PlanQuestion `json:"interview_questions"`
	ExpertTerms   []string       `json:"relevant_expert_terms"`
	CandidateName string         `json:"candidate_name,omitempty"`
	Role          string         `json:"role,omitempty"`
	CompanyName   string         `json:"company_name,omitempty"`
}

// Scheduler creates interview sessions: it extracts text from the uploaded
// documents, asks the planning oracle for an interview plan, persists the
// session and notifies both parties by email.
type Scheduler struct {
	store   Store
	planner ai.Generator
	mailer  mail.Mailer
	baseURL string
	logger  *zap.Logger
}

// NewScheduler creates a scheduler. baseURL is the externally reachable
// address used to build interview and HR portal links.
func NewScheduler(store Store, planner ai.Generator, mailer mail.Mailer, baseURL string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		store:   store,
		planner: planner,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Schedule sets up a new interview session. Email delivery failures are
// logged and swallowed; they never fail the scheduling operation.
func (s *Scheduler) Schedule(ctx context.Context, req ScheduleRequest) (*ScheduleResult, error) {
	if err := validateScheduleRequest(req); err != nil {
		return nil, err
	}

	cvText, err := extract.Text(req.CV.Name, req.CV.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: cv: %v", ErrInvalidRequest, err)
	}

	jdText, err := extract.Text(req.JobDescription.Name, req.JobDescription.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: job description: %v", ErrInvalidRequest, err)
	}

	raw, err := s.planner.GenerateContent(ctx, buildPlanPrompt(jdText, cvText))
	if err != nil {
		return nil, fmt.Errorf("plan oracle: %w", err)
	}

	plan, err := ParsePlan(raw)
	if err != nil {
		return nil, err
	}

	token, err := newHRToken()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:             uuid.NewString(),
		CandidateEmail: req.CandidateEmail,
		HREmail:        req.HREmail,
		JobDescription: jdText,
		ResumeText:     cvText,
		CandidateName:  plan.CandidateName,
		Role:           plan.Role,
		CompanyName:    plan.CompanyName,
		ScheduledAt:    strings.TrimSpace(req.InterviewDate + " " + req.InterviewTime),
		Plan:           plan.Questions,
		ExpertTerms:    plan.ExpertTerms,
		HRToken:        token,
	}

	if err := s.store.Put(session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	interviewLink := fmt.Sprintf("%s/interview/%s", s.baseURL, session.ID)
	hrPortalLink := fmt.Sprintf("%s/hr/%s", s.baseURL, token)

	s.sendInvites(session, interviewLink, hrPortalLink)

	s.logger.Info("interview scheduled",
		zap.String(logger.FieldSession, session.ID),
		zap.Int("plan_questions", len(plan.Questions)),
		zap.Int("expert_terms", len(plan.ExpertTerms)),
	)

	return &ScheduleResult{
		SessionID:     session.ID,
		InterviewLink: interviewLink,
		HRPortalLink:  hrPortalLink,
		Questions:     plan.Questions,
		ExpertTerms:   plan.ExpertTerms,
		CandidateName: plan.CandidateName,
		Role:          plan.Role,
		CompanyName:   plan.CompanyName,
	}, nil
}

func (s *Scheduler) sendInvites(session *Session, interviewLink, hrPortalLink string) {
	if s.mailer == nil {
		return
	}

	candidateBody := fmt.Sprintf(
		"Dear Candidate,\n\nYour interview has been scheduled for %s.\n\nPlease join using the link:\n%s\n\nBest of luck!\nHR Team",
		session.ScheduledAt, interviewLink,
	)
	if err := s.mailer.Send(mail.Message{
		To:      session.CandidateEmail,
		Subject: "Interview Scheduled",
		Body:    candidateBody,
	}); err != nil {
		s.logger.Warn("sending candidate invite failed",
			zap.String(logger.FieldSession, session.ID),
			zap.Error(err),
		)
	}

	hrBody := fmt.Sprintf(
		"Hello,\n\nAn interview has been scheduled with %s for %s.\n\nYou can access the interview report (once the interview is completed) here:\n%s\n\nRegards,\nAI Interview Agent",
		session.CandidateEmail, session.ScheduledAt, hrPortalLink,
	)
	if err := s.mailer.Send(mail.Message{
		To:      session.HREmail,
		Subject: "HR Portal Link for Interview Report",
		Body:    hrBody,
	}); err != nil {
		s.logger.Warn("sending hr portal link failed",
			zap.String(logger.FieldSession, session.ID),
			zap.Error(err),
		)
	}
}

func validateScheduleRequest(req ScheduleRequest) error {
	switch {
	case strings.TrimSpace(req.CandidateEmail) == "":
		return fmt.Errorf("%w: candidate email is required", ErrInvalidRequest)
	case strings.TrimSpace(req.HREmail) == "":
		return fmt.Errorf("%w: hr email is required", ErrInvalidRequest)
	case strings.TrimSpace(req.InterviewDate) == "":
		return fmt.Errorf("%w: interview date is required", ErrInvalidRequest)
	case strings.TrimSpace(req.InterviewTime) == "":
		return fmt.Errorf("%w: interview time is required", ErrInvalidRequest)
	case len(req.CV.Data) == 0:
		return fmt.Errorf("%w: cv document is required", ErrInvalidRequest)
	case len(req.JobDescription.Data) == 0:
		return fmt.Errorf("%w: job description document is required", ErrInvalidRequest)
	}
	return nil
}

func newHRToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate hr token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
