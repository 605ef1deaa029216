package workflow

import (
	"testing"
)

func TestIsEscalationRequest(t *testing.T) {
	escalating := []string{
		"please escalate this",
		"I want to talk to a human",
		"talk to a person",
		"connect me to an agent",
		"connect with a human please",
		"I need a REAL PERSON",
		"give me a live agent",
		"can I speak to someone",
		"speak with a human now",
		"I need a human",
		"get me a human",
		"human support please",
	}
	for _, text := range escalating {
		if !isEscalationRequest(text) {
			t.Errorf("isEscalationRequest(%q) = false, want true", text)
		}
	}

	notEscalating := []string{
		"my app keeps crashing",
		"I was charged twice this month",
		"how do I reset my password",
		"the humanities department question", // substring must not match on word boundary
	}
	for _, text := range notEscalating {
		if isEscalationRequest(text) {
			t.Errorf("isEscalationRequest(%q) = true, want false", text)
		}
	}
}

func TestClassifyIntentExplicitEscalationSkipsCompletion(t *testing.T) {
	llm := &fakeCompleter{}
	g := mustNewGraph(t, llm)

	state := NewState("t-1", "please connect me to a human")
	update := g.classifyIntent(t.Context(), state)

	if update.Intent == nil || *update.Intent != intentEscalateRequest {
		t.Errorf("Intent = %v, want escalate_request", update.Intent)
	}
	if update.Confidence == nil || *update.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", update.Confidence)
	}
	if update.ExplicitEscalation == nil || !*update.ExplicitEscalation {
		t.Error("ExplicitEscalation not set")
	}
	if got := len(llm.calls); got != 0 {
		t.Errorf("completion calls = %d, want 0", got)
	}
}

func TestClassifyIntentFallbackOnFailure(t *testing.T) {
	llm := &fakeCompleter{err: errUnavailable}
	g := mustNewGraph(t, llm)

	state := NewState("t-1", "my invoice looks wrong")
	update := g.classifyIntent(t.Context(), state)

	if update.Intent == nil || *update.Intent != intentUnknown {
		t.Errorf("Intent = %v, want unknown", update.Intent)
	}
	if update.Confidence == nil || *update.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0.0", update.Confidence)
	}
	if update.ErrorMessage == nil || *update.ErrorMessage == "" {
		t.Error("expected an error message on fallback")
	}
	if update.Status == nil || *update.Status != StatusProcessing {
		t.Errorf("Status = %v, want processing (classification never fails the run)", update.Status)
	}
}
