package interview

import (
	"testing"
)

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Verdict
	}{
		{
			name: "plain json",
			raw:  `{"action":"follow_up","followUpQuestion":"How many nodes?","reason":"no scale given"}`,
			want: Verdict{Action: ActionFollowUp, FollowUpQuestion: "How many nodes?", Reason: "no scale given"},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"action\":\"next_question\",\"reason\":\"covered\"}\n```",
			want: Verdict{Action: ActionNextQuestion, Reason: "covered"},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"action\":\"conclude\"}\n```",
			want: Verdict{Action: ActionConclude},
		},
		{
			name: "prose instead of json",
			raw:  "The candidate answered well, moving on.",
			want: fallbackVerdict,
		},
		{
			name: "empty string",
			raw:  "",
			want: fallbackVerdict,
		},
		{
			name: "json without action",
			raw:  `{"reason":"unsure"}`,
			want: fallbackVerdict,
		},
		{
			name: "unrecognized action passes through",
			raw:  `{"action":"escalate","reason":"odd"}`,
			want: Verdict{Action: Action("escalate"), Reason: "odd"},
		},
		{
			name: "whitespace around fields",
			raw:  `{"action":" follow_up ","reason":" vague "}`,
			want: Verdict{Action: ActionFollowUp, Reason: "vague"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseVerdict(tc.raw)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.raw); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCoercions(t *testing.T) {
	if got := coerceString(42.0); got != "42" {
		t.Fatalf("coerceString(42.0) = %q", got)
	}

	if got := coerceStrings([]any{"a", "", 7.0}); len(got) != 2 || got[0] != "a" || got[1] != "7" {
		t.Fatalf("unexpected coerceStrings result: %v", got)
	}

	if got := coerceInt("4"); got != 4 {
		t.Fatalf("coerceInt(\"4\") = %d", got)
	}

	if got := coerceInt(3.0); got != 3 {
		t.Fatalf("coerceInt(3.0) = %d", got)
	}

	if !coerceBool("Yes") || !coerceBool(true) || coerceBool("no") || coerceBool(nil) {
		t.Fatalf("unexpected coerceBool behavior")
	}
}
