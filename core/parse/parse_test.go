package parse

import (
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n{\"intent\": \"technical\"}\n```",
			expected: `{"intent": "technical"}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "no fence",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n```json\n{}\n```  \n",
			expected: `{}`,
		},
		{
			name:     "leading fence only",
			input:    "```json\n{\"a\": 1}",
			expected: `{"a": 1}`,
		},
		{
			name:     "plain prose untouched",
			input:    "Sorry, I cannot help with that.",
			expected: "Sorry, I cannot help with that.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripCodeFence(tt.input)
			if got != tt.expected {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

type testClassification struct {
	Intent     string   `json:"intent"`
	Confidence *float64 `json:"confidence,omitempty"`
	Reasoning  string   `json:"reasoning"`
}

func TestParseStringAsStruct(t *testing.T) {
	result, err := ParseStringAs[testClassification](`{"intent": "billing", "confidence": 0.92, "reasoning": "mentions an invoice"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Intent != "billing" {
		t.Errorf("Intent = %q, want %q", result.Intent, "billing")
	}
	if result.Confidence == nil || *result.Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", result.Confidence)
	}
}

func TestParseStringAsRepairsMalformedJSON(t *testing.T) {
	// Single quotes and a trailing comma: invalid JSON that jsonrepair fixes.
	result, err := ParseStringAs[testClassification](`{'intent': 'technical', 'reasoning': 'login failure',}`)
	if err != nil {
		t.Fatalf("expected repair to succeed, got: %v", err)
	}
	if result.Intent != "technical" {
		t.Errorf("Intent = %q, want %q", result.Intent, "technical")
	}
}

func TestParseStringAsUnrepairable(t *testing.T) {
	if _, err := ParseStringAs[testClassification]("this is not json at all {{{"); err == nil {
		t.Error("expected error for unrepairable input")
	}
}
