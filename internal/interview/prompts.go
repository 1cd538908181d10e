package interview

import (
	"encoding/json"
	"strings"

	_ "embed"
)

//go:embed decide_prompt.md
var decidePromptTemplate string

//go:embed plan_prompt.md
var planPromptTemplate string

//go:embed eval_prompt.md
var evalPromptTemplate string

// buildDecisionPrompt renders the system instruction for the decision oracle,
// embedding the session's expert-term checklist.
func buildDecisionPrompt(expertTerms []string) string {
	terms, err := json.Marshal(expertTerms)
	if err != nil || len(expertTerms) == 0 {
		terms = []byte("[]")
	}

	return strings.TrimSpace(strings.ReplaceAll(decidePromptTemplate, "{{EXPERT_TERMS}}", string(terms)))
}

// buildPlanPrompt renders the plan-generation prompt from the extracted job
// description and resume text.
func buildPlanPrompt(jobDescription, resume string) string {
	prompt := strings.ReplaceAll(planPromptTemplate, "{{JOB_DESCRIPTION}}", orNA(jobDescription))
	prompt = strings.ReplaceAll(prompt, "{{RESUME}}", orNA(resume))
	return strings.TrimSpace(prompt)
}

// buildEvalPrompt renders the evaluation prompt for the completion oracle.
func buildEvalPrompt(jobDescription, resume, transcript string) string {
	prompt := strings.ReplaceAll(evalPromptTemplate, "{{JOB_DESCRIPTION}}", orNA(jobDescription))
	prompt = strings.ReplaceAll(prompt, "{{RESUME}}", orNA(resume))
	prompt = strings.ReplaceAll(prompt, "{{TRANSCRIPT}}", orNA(transcript))
	return strings.TrimSpace(prompt)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
