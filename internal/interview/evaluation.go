package interview

import "encoding/json"

// neutralEvaluation substitutes for unparseable evaluator output so a report
// is still produced instead of failing the whole completion.
func neutralEvaluation() Evaluation {
	return Evaluation{
		Summary:        "No summary generated.",
		Strengths:      []string{},
		Weaknesses:     []string{},
		Recommendation: "Hold",
	}
}

// ParseEvaluation interprets raw evaluator output. It never fails: malformed
// content yields a neutral default evaluation.
func ParseEvaluation(raw string) Evaluation {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return neutralEvaluation()
	}

	eval := Evaluation{
		Summary:        coerceString(data["summary"]),
		Strengths:      coerceStrings(data["strengths"]),
		Weaknesses:     coerceStrings(data["weaknesses"]),
		Recommendation: coerceString(data["recommendation"]),
	}

	if scores, ok := data["scores"].(map[string]any); ok {
		eval.Scores = &Scores{
			Communication:   coerceInt(scores["communication"]),
			Professionalism: coerceInt(scores["professionalism"]),
			RoleFit:         coerceInt(scores["role_fit"]),
			Seniority:       coerceInt(scores["seniority"]),
			Overall:         coerceInt(scores["overall"]),
		}
	}

	if flags, ok := data["flags"].(map[string]any); ok {
		eval.Flags = &Flags{
			FixatedOnCompensation:     coerceBool(flags["fixated_on_compensation"]),
			RudeOrConfrontational:     coerceBool(flags["rude_or_confrontational"]),
			EvasivenessOrLackOfDetail: coerceBool(flags["evasiveness_or_lack_of_detail"]),
		}
	}

	if eval.Summary == "" && eval.Recommendation == "" {
		return neutralEvaluation()
	}

	return eval
}
