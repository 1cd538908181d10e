package interview

import (
	"strings"
	"time"
)

// Speaker identifies who produced a transcript turn.
type Speaker string

const (
	SpeakerAgent     Speaker = "agent"
	SpeakerCandidate Speaker = "candidate"
)

// Turn is one utterance recorded in the interview transcript.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Content string  `json:"content"`
}

// PlanQuestion is a primary interview question generated at scheduling time.
type PlanQuestion struct {
	Question        string `json:"question"`
	ExpectedInsight string `json:"expected_answer_insight,omitempty"`
}

// Scores holds the 1-5 evaluation scores produced at completion.
type Scores struct {
	Communication   int `json:"communication"`
	Professionalism int `json:"professionalism"`
	RoleFit         int `json:"role_fit"`
	Seniority       int `json:"seniority"`
	Overall         int `json:"overall"`
}

// Flags marks behavioral issues observed in the transcript.
type Flags struct {
	FixatedOnCompensation     bool `json:"fixated_on_compensation"`
	RudeOrConfrontational     bool `json:"rude_or_confrontational"`
	EvasivenessOrLackOfDetail bool `json:"evasiveness_or_lack_of_detail"`
}

// Evaluation is the structured outcome of the completion oracle.
type Evaluation struct {
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Recommendation string   `json:"recommendation"`
	Scores         *Scores  `json:"scores,omitempty"`
	Flags          *Flags   `json:"flags,omitempty"`
}

// Report is the sealed evaluation artifact. Once attached to a session it is
// never modified.
type Report struct {
	GeneratedAt time.Time  `json:"generatedAt"`
	Evaluation  Evaluation `json:"evaluation"`
	Transcript  string     `json:"transcript"`
	PDF         []byte     `json:"-"`
}

// Session is the single source of truth for one scheduled interview. The plan
// and expert terms are fixed after creation; the transcript is append-only
// while the interview runs; the report is attached exactly once at completion.
type Session struct {
	ID             string         `json:"session_id"`
	CandidateEmail string         `json:"candidate_email"`
	HREmail        string         `json:"hr_email"`
	JobDescription string         `json:"-"`
	ResumeText     string         `json:"-"`
	CandidateName  string         `json:"candidate_name,omitempty"`
	Role           string         `json:"role,omitempty"`
	CompanyName    string         `json:"company_name,omitempty"`
	ScheduledAt    string         `json:"scheduled_at,omitempty"`
	Plan           []PlanQuestion `json:"interview_questions"`
	ExpertTerms    []string       `json:"relevant_expert_terms"`
	Transcript     []Turn         `json:"turns"`

	// PlanIndex counts plan questions already asked. It is advanced only by
	// the turn controller, never inferred from transcript text.
	PlanIndex int `json:"plan_index"`

	HRToken string  `json:"-"`
	Report  *Report `json:"report,omitempty"`
}

// snapshot copies the session deeply enough that the caller can read and
// marshal it while the stored original keeps mutating. The report pointer is
// shared: a report is sealed once and never modified afterwards.
func (s *Session) snapshot() *Session {
	copied := *s
	copied.Plan = append([]PlanQuestion(nil), s.Plan...)
	copied.ExpertTerms = append([]string(nil), s.ExpertTerms...)
	copied.Transcript = append([]Turn(nil), s.Transcript...)
	return &copied
}

// Completed reports whether the session has been sealed with a report.
func (s *Session) Completed() bool {
	return s.Report != nil
}

// LastTurn returns the most recent transcript entry, or nil for an empty
// transcript.
func (s *Session) LastTurn() *Turn {
	if len(s.Transcript) == 0 {
		return nil
	}
	return &s.Transcript[len(s.Transcript)-1]
}

// AppendAgent records an agent utterance unless it duplicates the immediately
// preceding agent turn. The guard covers callers re-submitting a question that
// was already logged when it was first asked. It reports whether a turn was
// actually appended.
func (s *Session) AppendAgent(content string) bool {
	if last := s.LastTurn(); last != nil && last.Speaker == SpeakerAgent && last.Content == content {
		return false
	}
	s.Transcript = append(s.Transcript, Turn{Speaker: SpeakerAgent, Content: content})
	return true
}

// AppendCandidate records a candidate utterance. The append is unconditional.
func (s *Session) AppendCandidate(content string) {
	s.Transcript = append(s.Transcript, Turn{Speaker: SpeakerCandidate, Content: content})
}

// FormatTranscript renders turns as a plain-text transcript for prompts and
// reports.
func FormatTranscript(turns []Turn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		speaker := "Candidate"
		if turn.Speaker == SpeakerAgent {
			speaker = "AI"
		}
		lines = append(lines, speaker+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}
