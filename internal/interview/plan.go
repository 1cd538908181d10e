package interview

import (
	"encoding/json"
	"fmt"
)

// GeneratedPlan is the parsed output of the plan-generation oracle.
type GeneratedPlan struct {
	Questions     []PlanQuestion
	ExpertTerms   []string
	CandidateName string
	Role          string
	CompanyName   string
}

// ParsePlan interprets raw oracle output as an interview plan. Unlike turn
// verdicts there is no safe fallback here: a session without questions is
// useless, so malformed output fails scheduling.
func ParsePlan(raw string) (*GeneratedPlan, error) {
	cleaned := extractJSON(raw)

	var data struct {
		Questions []struct {
			Question        string `json:"question"`
			ExpectedInsight string `json:"expected_answer_insight"`
		} `json:"interview_questions"`
		ExpertTerms   []string `json:"relevant_expert_terms"`
		CandidateName string   `json:"candidate_name"`
		Role          string   `json:"role"`
		CompanyName   string   `json:"company_name"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse plan response: %w", err)
	}

	plan := &GeneratedPlan{
		CandidateName: data.CandidateName,
		Role:          data.Role,
		CompanyName:   data.CompanyName,
	}

	for _, q := range data.Questions {
		if q.Question == "" {
			continue
		}
		plan.Questions = append(plan.Questions, PlanQuestion{
			Question:        q.Question,
			ExpectedInsight: q.ExpectedInsight,
		})
	}

	for _, term := range data.ExpertTerms {
		if term != "" {
			plan.ExpertTerms = append(plan.ExpertTerms, term)
		}
	}

	if len(plan.Questions) == 0 {
		return nil, fmt.Errorf("plan response contains no questions")
	}

	return plan, nil
}
