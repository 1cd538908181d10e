package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ivstih/interviewd/internal/ai"
	"github.com/ivstih/interviewd/internal/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubOracle struct {
	response    string
	err         error
	lastSystem  string
	lastHistory []ai.Message
}

func (s *stubOracle) GenerateChat(_ context.Context, system string, history []ai.Message) (string, error) {
	s.lastSystem = system
	s.lastHistory = history
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// startedSession creates a stored session whose opening plan question has
// already been asked.
func startedSession(t *testing.T, questions ...string) (*MemoryStore, *Session) {
	t.Helper()

	plan := make([]PlanQuestion, 0, len(questions))
	for _, q := range questions {
		plan = append(plan, PlanQuestion{Question: q})
	}

	session := &Session{
		ID:          "s1",
		Plan:        plan,
		ExpertTerms: []string{"goroutines", "channels"},
		Transcript:  []Turn{{Speaker: SpeakerAgent, Content: questions[0]}},
		PlanIndex:   1,
	}

	store := NewMemoryStore()
	if err := store.Put(session); err != nil {
		t.Fatalf("put session: %v", err)
	}

	return store, session
}

func TestAdvanceTurnNextQuestion(t *testing.T) {
	store, session := startedSession(t, "Tell me about X", "Tell me about Y")
	oracle := &stubOracle{response: `{"action":"next_question","reason":"answer was solid"}`}
	controller := NewController(store, oracle, zap.NewNop())

	step, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about X", "I did X at company Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if step.Action != ActionNextQuestion {
		t.Fatalf("expected next_question, got %s", step.Action)
	}

	if step.NextQuestion != "Tell me about Y" {
		t.Fatalf("unexpected next question: %s", step.NextQuestion)
	}

	want := []Turn{
		{Speaker: SpeakerAgent, Content: "Tell me about X"},
		{Speaker: SpeakerCandidate, Content: "I did X at company Z"},
		{Speaker: SpeakerAgent, Content: "Tell me about Y"},
	}
	assertTranscript(t, session.Transcript, want)

	if session.PlanIndex != 2 {
		t.Fatalf("expected plan index 2, got %d", session.PlanIndex)
	}
}

func TestAdvanceTurnPlanExhaustion(t *testing.T) {
	store, session := startedSession(t, "Tell me about X", "Tell me about Y")
	oracle := &stubOracle{response: `{"action":"next_question"}`}
	controller := NewController(store, oracle, zap.NewNop())

	if _, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about X", "I did X"); err != nil {
		t.Fatalf("first advance: %v", err)
	}

	step, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about Y", "I did Y")
	if err != nil {
		t.Fatalf("second advance: %v", err)
	}

	if step.Action != ActionConclude {
		t.Fatalf("expected conclude, got %s", step.Action)
	}

	if step.Reason != "all main questions asked" {
		t.Fatalf("unexpected reason: %s", step.Reason)
	}

	// The exhausted branch appends no agent turn: only the answer was added.
	if last := session.LastTurn(); last.Speaker != SpeakerCandidate || last.Content != "I did Y" {
		t.Fatalf("expected candidate answer as last turn, got %+v", last)
	}
}

func TestAdvanceTurnDeduplicatesLastQuestion(t *testing.T) {
	store, session := startedSession(t, "Tell me about X", "Tell me about Y")
	oracle := &stubOracle{response: `{"action":"conclude","reason":"done"}`}
	controller := NewController(store, oracle, zap.NewNop())

	if _, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about X", "answer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := 0
	for _, turn := range session.Transcript {
		if turn.Speaker == SpeakerAgent && turn.Content == "Tell me about X" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected question recorded once, got %d", count)
	}
}

func TestAdvanceTurnRepeatedEarlierQuestionAppends(t *testing.T) {
	store, session := startedSession(t, "Tell me about X", "Tell me about Y")
	session.Transcript = append(session.Transcript,
		Turn{Speaker: SpeakerCandidate, Content: "first answer"},
		Turn{Speaker: SpeakerAgent, Content: "Could you be more specific?"},
	)

	oracle := &stubOracle{response: `{"action":"conclude","reason":"done"}`}
	controller := NewController(store, oracle, zap.NewNop())

	// Same text as an earlier question, but not the transcript's last agent
	// turn: the de-duplication guard must not swallow it.
	if _, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about X", "again"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := 0
	for _, turn := range session.Transcript {
		if turn.Speaker == SpeakerAgent && turn.Content == "Tell me about X" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected question recorded twice, got %d", count)
	}
}

func TestAdvanceTurnParserFallback(t *testing.T) {
	store, session := startedSession(t, "Tell me about X")
	oracle := &stubOracle{response: "the model rambled instead of returning JSON"}
	controller := NewController(store, oracle, zap.NewNop())

	before := len(session.Transcript)

	step, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about X", "answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if step.Action != ActionConclude {
		t.Fatalf("expected conclude fallback, got %s", step.Action)
	}

	if step.Reason != "parser fallback" {
		t.Fatalf("unexpected reason: %s", step.Reason)
	}

	// Only the candidate answer was appended; no spurious agent turn.
	if len(session.Transcript) != before+1 {
		t.Fatalf("expected transcript to grow by 1, got %d -> %d", before, len(session.Transcript))
	}
}

func TestAdvanceTurnFollowUpFallbackText(t *testing.T) {
	store, session := startedSession(t, "Tell me about X")
	oracle := &stubOracle{response: `{"action":"follow_up","reason":"vague answer"}`}
	controller := NewController(store, oracle, zap.NewNop())

	step, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about X", "stuff happened")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if step.Action != ActionFollowUp {
		t.Fatalf("expected follow_up, got %s", step.Action)
	}

	if step.FollowUpQuestion == "" {
		t.Fatalf("expected a non-empty generic probe")
	}

	if last := session.LastTurn(); last.Speaker != SpeakerAgent || last.Content != step.FollowUpQuestion {
		t.Fatalf("expected probe appended as last agent turn, got %+v", last)
	}
}

func TestAdvanceTurnFollowUpQuestionFromOracle(t *testing.T) {
	store, session := startedSession(t, "Tell me about X")
	oracle := &stubOracle{response: `{"action":"follow_up","followUpQuestion":"Which metrics improved?","reason":"no numbers"}`}
	controller := NewController(store, oracle, zap.NewNop())

	step, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about X", "it got faster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if step.FollowUpQuestion != "Which metrics improved?" {
		t.Fatalf("unexpected follow-up: %s", step.FollowUpQuestion)
	}

	if last := session.LastTurn(); last.Content != "Which metrics improved?" {
		t.Fatalf("expected oracle question as last turn, got %+v", last)
	}
}

func TestAdvanceTurnOracleFailureKeepsAnswer(t *testing.T) {
	store, session := startedSession(t, "Tell me about X")
	oracle := &stubOracle{err: errors.New("deadline exceeded")}
	controller := NewController(store, oracle, zap.NewNop())

	_, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about X", "answer")
	if err == nil {
		t.Fatalf("expected error from failing oracle")
	}

	// The candidate answer stays recorded, no agent turn was added.
	if last := session.LastTurn(); last.Speaker != SpeakerCandidate || last.Content != "answer" {
		t.Fatalf("expected candidate answer preserved, got %+v", last)
	}
}

func TestAdvanceTurnValidation(t *testing.T) {
	store, _ := startedSession(t, "Tell me about X")
	controller := NewController(store, &stubOracle{response: `{"action":"conclude"}`}, zap.NewNop())

	cases := []struct {
		name     string
		session  string
		question string
		answer   string
		want     error
	}{
		{"missing question", "s1", "", "answer", ErrInvalidRequest},
		{"missing answer", "s1", "question", "", ErrInvalidRequest},
		{"unknown session", "nope", "question", "answer", ErrSessionNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := controller.AdvanceTurn(context.Background(), tc.session, tc.question, tc.answer)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAdvanceTurnRejectsCompletedSession(t *testing.T) {
	store, session := startedSession(t, "Tell me about X")
	session.Report = &Report{}

	controller := NewController(store, &stubOracle{response: `{"action":"conclude"}`}, zap.NewNop())

	_, err := controller.AdvanceTurn(context.Background(), "s1", "q", "a")
	if !errors.Is(err, ErrInterviewCompleted) {
		t.Fatalf("expected ErrInterviewCompleted, got %v", err)
	}
}

func TestAdvanceTurnOracleInput(t *testing.T) {
	store, _ := startedSession(t, "Tell me about X")
	oracle := &stubOracle{response: `{"action":"conclude"}`}
	controller := NewController(store, oracle, zap.NewNop())

	if _, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about X", "answer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(oracle.lastSystem, `"goroutines"`) {
		t.Fatalf("expected expert terms in system prompt: %s", oracle.lastSystem)
	}

	if len(oracle.lastHistory) != 2 {
		t.Fatalf("expected 2 history messages, got %d", len(oracle.lastHistory))
	}

	if oracle.lastHistory[0].Role != ai.RoleAssistant || oracle.lastHistory[1].Role != ai.RoleUser {
		t.Fatalf("unexpected role mapping: %+v", oracle.lastHistory)
	}
}

func TestAdvanceTurnLogsSessionField(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	store, _ := startedSession(t, "Tell me about X")
	controller := NewController(store, &stubOracle{response: `{"action":"conclude"}`}, zap.New(core))

	if _, err := controller.AdvanceTurn(context.Background(), "s1", "Tell me about X", "answer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.FilterMessage("turn verdict").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 verdict log entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[logger.FieldSession] != "s1" {
		t.Fatalf("expected session field %q to be s1, got %q", logger.FieldSession, ctx[logger.FieldSession])
	}
}

func TestStartSeedsTranscript(t *testing.T) {
	store := NewMemoryStore()
	session := &Session{
		ID:   "s1",
		Plan: []PlanQuestion{{Question: "Tell me about X"}},
	}
	if err := store.Put(session); err != nil {
		t.Fatalf("put session: %v", err)
	}

	controller := NewController(store, &stubOracle{}, zap.NewNop())

	question, err := controller.Start(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if question != "Tell me about X" {
		t.Fatalf("unexpected opening question: %s", question)
	}

	if len(session.Transcript) != 1 || session.PlanIndex != 1 {
		t.Fatalf("expected seeded transcript and plan index 1, got %d turns, index %d",
			len(session.Transcript), session.PlanIndex)
	}

	// Repeated Start must not mutate anything further.
	if _, err := controller.Start(context.Background(), "s1"); err != nil {
		t.Fatalf("repeated start: %v", err)
	}
	if len(session.Transcript) != 1 {
		t.Fatalf("expected transcript unchanged after repeated start, got %d turns", len(session.Transcript))
	}
}

func TestStartEmptyPlan(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Put(&Session{ID: "s1"}); err != nil {
		t.Fatalf("put session: %v", err)
	}

	controller := NewController(store, &stubOracle{}, zap.NewNop())

	if _, err := controller.Start(context.Background(), "s1"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func assertTranscript(t *testing.T, got, want []Turn) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("expected %d turns, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("turn %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}
