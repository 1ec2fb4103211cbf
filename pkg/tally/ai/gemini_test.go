package ai

import (
	"context"
	"testing"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		ok    bool
		value float64
		unit  string
	}{
		{"plain", `{"value": 42, "unit": "days"}`, true, 42, "days"},
		{"no unit", `{"value": 3.5, "unit": ""}`, true, 3.5, ""},
		{"fenced", "```json\n{\"value\": 7, \"unit\": \"kg\"}\n```", true, 7, "kg"},
		{"bare fence", "```\n{\"value\": 7, \"unit\": \"\"}\n```", true, 7, ""},
		{"declined", `{"value": null, "unit": ""}`, false, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := parseAnswer(tt.text)
			if err != nil {
				t.Fatalf("parseAnswer(%q): %v", tt.text, err)
			}
			if resp.OK != tt.ok || resp.Value != tt.value || resp.Unit != tt.unit {
				t.Errorf("parseAnswer(%q): expected (%v, %v, %q), got (%v, %v, %q)",
					tt.text, tt.ok, tt.value, tt.unit, resp.OK, resp.Value, resp.Unit)
			}
		})
	}
}

func TestParseAnswerGarbage(t *testing.T) {
	for _, text := range []string{"", "not json", "```"} {
		if _, err := parseAnswer(text); err == nil {
			t.Errorf("parseAnswer(%q): expected error", text)
		}
	}
}

func TestDisabledDeclines(t *testing.T) {
	resp, err := Disabled{}.Interpret(context.Background(), Request{Input: "anything"})
	if err != nil {
		t.Fatalf("Disabled: %v", err)
	}
	if resp.OK {
		t.Error("Disabled should never return a usable answer")
	}
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	g := &Gemini{}
	if _, err := g.Interpret(context.Background(), Request{Input: "5 + 5"}); err == nil {
		t.Error("expected an error without an API key")
	}
}
