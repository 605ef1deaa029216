package completion

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeCaller returns canned responses and records prompts.
type fakeCaller struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCaller) Call(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type sampleOutput struct {
	Intent     string   `json:"intent" jsonschema:"required"`
	Confidence *float64 `json:"confidence,omitempty" jsonschema:"minimum=0,maximum=1"`
	Reasoning  string   `json:"reasoning"`
}

func TestCallStructured(t *testing.T) {
	caller := &fakeCaller{
		response: "```json\n{\"intent\": \"technical\", \"confidence\": 0.9, \"reasoning\": \"login issue\"}\n```",
	}

	result, err := CallStructured[sampleOutput](context.Background(), caller, "classify this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Intent != "technical" {
		t.Errorf("Intent = %q", result.Intent)
	}
	if result.Confidence == nil || *result.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", result.Confidence)
	}

	// The prompt carries the schema so the service knows the output shape.
	if len(caller.prompts) != 1 {
		t.Fatalf("expected 1 call, got %d", len(caller.prompts))
	}
	prompt := caller.prompts[0]
	if !strings.HasPrefix(prompt, "classify this") {
		t.Errorf("prompt does not start with the caller's text: %q", prompt)
	}
	if !strings.Contains(prompt, "JSON Schema") || !strings.Contains(prompt, `"intent"`) {
		t.Errorf("prompt is missing schema instructions: %q", prompt)
	}
}

func TestCallStructuredRepairsMalformedJSON(t *testing.T) {
	caller := &fakeCaller{
		response: `{'intent': 'billing', 'reasoning': 'invoice question',}`,
	}

	result, err := CallStructured[sampleOutput](context.Background(), caller, "classify")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Intent != "billing" {
		t.Errorf("Intent = %q", result.Intent)
	}
}

func TestCallStructuredSchemaViolation(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"missing required field", `{"confidence": 0.9, "reasoning": "r"}`},
		{"out of bounds", `{"intent": "technical", "confidence": 2.0, "reasoning": "r"}`},
		{"not json", `I refuse to answer in JSON.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &fakeCaller{response: tt.response}
			_, err := CallStructured[sampleOutput](context.Background(), caller, "classify")
			var compErr *Error
			if !errors.As(err, &compErr) {
				t.Fatalf("error is %T, want *Error", err)
			}
			if compErr.Kind != KindResponseParse {
				t.Errorf("Kind = %v, want KindResponseParse", compErr.Kind)
			}
		})
	}
}

func TestCallStructuredPropagatesCallError(t *testing.T) {
	callErr := newError(KindRateLimit, nil, "rate limit exceeded (status 429)")
	caller := &fakeCaller{err: callErr}

	_, err := CallStructured[sampleOutput](context.Background(), caller, "classify")
	var compErr *Error
	if !errors.As(err, &compErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if compErr.Kind != KindRateLimit {
		t.Errorf("Kind = %v, want KindRateLimit (call kind must be preserved)", compErr.Kind)
	}
}
