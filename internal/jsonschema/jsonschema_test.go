package jsonschema

import (
	"encoding/json"
	"slices"
	"testing"
)

type sampleClassification struct {
	Intent       string   `json:"intent" jsonschema:"required,description=Category of the request"`
	Confidence   *float64 `json:"confidence,omitempty" jsonschema:"minimum=0,maximum=1"`
	Reasoning    string   `json:"reasoning"`
	NeedsHuman   bool     `json:"needs_human"`
	Alternatives []string `json:"alternatives,omitempty"`
}

func TestGenerate(t *testing.T) {
	schema := Generate[sampleClassification]()

	if schema.Type != "object" {
		t.Fatalf("Type = %q, want object", schema.Type)
	}
	if len(schema.Properties) != 5 {
		t.Errorf("Properties count = %d, want 5", len(schema.Properties))
	}

	intent := schema.Properties["intent"]
	if intent == nil || intent.Type != "string" {
		t.Fatalf("intent schema = %+v, want string", intent)
	}
	if intent.Description != "Category of the request" {
		t.Errorf("intent description = %q", intent.Description)
	}

	confidence := schema.Properties["confidence"]
	if confidence == nil || confidence.Type != "number" {
		t.Fatalf("confidence schema = %+v, want number", confidence)
	}
	if confidence.Minimum == nil || *confidence.Minimum != 0 {
		t.Errorf("confidence minimum = %v, want 0", confidence.Minimum)
	}
	if confidence.Maximum == nil || *confidence.Maximum != 1 {
		t.Errorf("confidence maximum = %v, want 1", confidence.Maximum)
	}

	alternatives := schema.Properties["alternatives"]
	if alternatives == nil || alternatives.Type != "array" || alternatives.Items == nil || alternatives.Items.Type != "string" {
		t.Errorf("alternatives schema = %+v, want array of string", alternatives)
	}

	// Required: intent (tag), reasoning and needs_human (non-pointer,
	// no omitempty). confidence is a pointer with omitempty, so optional.
	for _, want := range []string{"intent", "reasoning", "needs_human"} {
		if !slices.Contains(schema.Required, want) {
			t.Errorf("Required is missing %q: %v", want, schema.Required)
		}
	}
	if slices.Contains(schema.Required, "confidence") {
		t.Errorf("confidence should not be required: %v", schema.Required)
	}
}

func TestValidate(t *testing.T) {
	schema := Generate[sampleClassification]()

	decode := func(t *testing.T, raw string) map[string]any {
		t.Helper()
		var value map[string]any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			t.Fatalf("test input is invalid JSON: %v", err)
		}
		return value
	}

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "valid full object",
			input: `{"intent": "technical", "confidence": 0.9, "reasoning": "r", "needs_human": false}`,
		},
		{
			name:  "optional field absent",
			input: `{"intent": "technical", "reasoning": "r", "needs_human": true}`,
		},
		{
			name:    "missing required property",
			input:   `{"confidence": 0.9, "reasoning": "r", "needs_human": false}`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			input:   `{"intent": 3, "reasoning": "r", "needs_human": false}`,
			wantErr: true,
		},
		{
			name:    "confidence above maximum",
			input:   `{"intent": "technical", "confidence": 1.3, "reasoning": "r", "needs_human": false}`,
			wantErr: true,
		},
		{
			name:    "confidence below minimum",
			input:   `{"intent": "technical", "confidence": -0.1, "reasoning": "r", "needs_human": false}`,
			wantErr: true,
		},
		{
			name:  "extra properties allowed",
			input: `{"intent": "technical", "reasoning": "r", "needs_human": false, "extra": "ignored"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(decode(t, tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateIntegerWholeness(t *testing.T) {
	type counted struct {
		Count int `json:"count"`
	}
	schema := Generate[counted]()

	if err := schema.Validate(map[string]any{"count": float64(3)}); err != nil {
		t.Errorf("whole number should validate as integer: %v", err)
	}
	if err := schema.Validate(map[string]any{"count": 3.5}); err == nil {
		t.Error("fractional number should fail integer validation")
	}
}
