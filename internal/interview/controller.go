package interview

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ivstih/interviewd/internal/ai"
	"github.com/ivstih/interviewd/internal/logger"
	"github.com/ivstih/interviewd/internal/util"

	"go.uber.org/zap"
)

const (
	// genericProbe is used when the oracle asks for a follow-up but omits the
	// question text.
	genericProbe = "Can you elaborate on that with specifics?"

	planExhaustedReason  = "all main questions asked"
	defaultConcludeMsg   = "interview concluded"
	controllerLogPreview = 200
)

// NextStep is the controller's answer to one interview exchange.
type NextStep struct {
	Action           Action `json:"action"`
	FollowUpQuestion string `json:"followUpQuestion,omitempty"`
	NextQuestion     string `json:"nextQuestion,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// Controller drives the interview turn by turn: it records the prior exchange,
// consults the decision oracle and either probes deeper, advances the plan or
// concludes.
type Controller struct {
	store  Store
	oracle ai.ChatGenerator
	logger *zap.Logger
}

// NewController creates a turn controller over the given session store and
// decision oracle.
func NewController(store Store, oracle ai.ChatGenerator, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: store, oracle: oracle, logger: logger}
}

// Start opens the interview by asking the first plan question. Repeated calls
// are idempotent: the opening question is returned without further transcript
// mutation.
func (c *Controller) Start(ctx context.Context, sessionID string) (string, error) {
	var question string

	err := c.store.Update(sessionID, func(s *Session) error {
		if s.Completed() {
			return fmt.Errorf("%w: %s", ErrInterviewCompleted, s.ID)
		}
		if len(s.Plan) == 0 {
			return fmt.Errorf("%w: session has an empty plan", ErrInvalidRequest)
		}

		question = s.Plan[0].Question
		if len(s.Transcript) == 0 {
			s.AppendAgent(question)
			s.PlanIndex = 1
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return question, nil
}

// AdvanceTurn processes one interview exchange. The prior question is appended
// with de-duplication against the transcript's last agent turn, the answer is
// appended unconditionally, and the oracle verdict determines what the agent
// says next. The whole operation runs under the session's lock.
//
// Mutation ordering matters for retries: the candidate answer is recorded
// before the oracle call, the resulting agent turn only after the verdict. A
// failed oracle call leaves the answer in place, and a retried request is
// absorbed by the de-duplication guard.
func (c *Controller) AdvanceTurn(ctx context.Context, sessionID, lastQuestion, lastAnswer string) (*NextStep, error) {
	if strings.TrimSpace(lastQuestion) == "" || strings.TrimSpace(lastAnswer) == "" {
		return nil, fmt.Errorf("%w: lastQuestion and lastAnswer are required", ErrInvalidRequest)
	}

	var step *NextStep

	err := c.store.Update(sessionID, func(s *Session) error {
		if s.Completed() {
			return fmt.Errorf("%w: %s", ErrInterviewCompleted, s.ID)
		}

		s.AppendAgent(lastQuestion)
		s.AppendCandidate(lastAnswer)

		raw, err := c.oracle.GenerateChat(ctx, buildDecisionPrompt(s.ExpertTerms), oracleHistory(s.Transcript))
		if err != nil {
			return fmt.Errorf("decision oracle: %w", err)
		}

		verdict := ParseVerdict(raw)

		c.logger.Debug("turn verdict",
			zap.String(logger.FieldSession, s.ID),
			zap.String("action", string(verdict.Action)),
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			zap.String("response_preview", util.TruncateForLog(raw, controllerLogPreview)),
		)

		step = c.applyVerdict(s, verdict)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return step, nil
}

// applyVerdict branches on the oracle action and performs the corresponding
// transcript mutation. Every follow_up or next_question outcome appends
// exactly one agent turn; conclude appends nothing.
func (c *Controller) applyVerdict(s *Session, verdict Verdict) *NextStep {
	switch verdict.Action {
	case ActionFollowUp:
		question := verdict.FollowUpQuestion
		if question == "" {
			question = genericProbe
		}
		s.AppendAgent(question)
		return &NextStep{Action: ActionFollowUp, FollowUpQuestion: question, Reason: verdict.Reason}

	case ActionNextQuestion:
		if s.PlanIndex >= len(s.Plan) {
			return &NextStep{Action: ActionConclude, Reason: planExhaustedReason}
		}
		next := s.Plan[s.PlanIndex].Question
		s.AppendAgent(next)
		s.PlanIndex++
		return &NextStep{Action: ActionNextQuestion, NextQuestion: next, Reason: verdict.Reason}

	default:
		// conclude, and any action we do not recognize, is terminal.
		reason := verdict.Reason
		if reason == "" {
			reason = defaultConcludeMsg
		}
		return &NextStep{Action: ActionConclude, Reason: reason}
	}
}

// oracleHistory re-expresses the transcript as an alternating chat history:
// agent turns become assistant messages, candidate turns user messages.
func oracleHistory(turns []Turn) []ai.Message {
	history := make([]ai.Message, 0, len(turns))
	for _, turn := range turns {
		role := ai.RoleUser
		if turn.Speaker == SpeakerAgent {
			role = ai.RoleAssistant
		}
		history = append(history, ai.Message{Role: role, Content: turn.Content})
	}
	return history
}
