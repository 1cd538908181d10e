package interview

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is the oracle's classification of what should happen next.
type Action string

const (
	ActionFollowUp     Action = "follow_up"
	ActionNextQuestion Action = "next_question"
	ActionConclude     Action = "conclude"
)

// Verdict is the validated decision-oracle output.
type Verdict struct {
	Action           Action
	FollowUpQuestion string
	Reason           string
}

// fallbackVerdict conservatively ends the interview instead of looping or
// crashing on garbage oracle output.
var fallbackVerdict = Verdict{Action: ActionConclude, Reason: "parser fallback"}

// ParseVerdict interprets raw oracle output as a Verdict. It never fails:
// unparseable content yields the conclude fallback, and unrecognized actions
// pass through so the controller can treat them as terminal.
func ParseVerdict(raw string) Verdict {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return fallbackVerdict
	}

	verdict := Verdict{
		Action:           Action(coerceString(data["action"])),
		FollowUpQuestion: coerceString(data["followUpQuestion"]),
		Reason:           coerceString(data["reason"]),
	}

	if verdict.Action == "" {
		return fallbackVerdict
	}

	return verdict
}

// extractJSON strips markdown code fences models sometimes wrap around their
// JSON output.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func coerceInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(val), "%d", &n); err == nil {
			return n
		}
	}
	return 0
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	}
	return false
}
