package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/deskgraph/deskgraph/core/completion"
	"github.com/deskgraph/deskgraph/internal/utils"
)

// escalationPatterns detect explicit requests for a human, checked in order
// before any completion call. A match bypasses classification entirely.
var escalationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bescalate\b`),
	regexp.MustCompile(`(?i)\bhuman\s*(support|agent|help|review)?\b`),
	regexp.MustCompile(`(?i)\btalk\s*to\s*(a\s*)?(human|agent|person|representative)\b`),
	regexp.MustCompile(`(?i)\bconnect\s*(me\s*)?(to|with)\s*(a\s*)?(human|agent|person)\b`),
	regexp.MustCompile(`(?i)\breal\s*person\b`),
	regexp.MustCompile(`(?i)\blive\s*agent\b`),
	regexp.MustCompile(`(?i)\bspeak\s*(to|with)\s*(someone|agent|human)\b`),
	regexp.MustCompile(`(?i)\bneed\s*(a\s*)?human\b`),
	regexp.MustCompile(`(?i)\bget\s*(me\s*)?(a\s*)?(human|agent)\b`),
}

// isEscalationRequest reports whether the user is explicitly asking for a
// human agent.
func isEscalationRequest(text string) bool {
	for _, pattern := range escalationPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// intentClassification is the structured output expected from the
// classification call.
type intentClassification struct {
	Intent     string  `json:"intent" jsonschema:"required,description=The classified intent of the support ticket"`
	Confidence float64 `json:"confidence" jsonschema:"required,minimum=0,maximum=1,description=Confidence score between 0 and 1"`
}

const (
	intentEscalateRequest = "escalate_request"
	intentOffTopic        = "off_topic"
	intentUnknown         = "unknown"
)

// classifyIntent determines the ticket's intent and confidence.
//
// Explicit escalation phrases short-circuit with full confidence and no
// completion call. A completion failure degrades to the unknown intent with
// zero confidence, which forces human review downstream; this node never
// fails the run.
func (g *Graph) classifyIntent(ctx context.Context, state *State) Update {
	if isEscalationRequest(state.TicketText) {
		slog.Info("explicit escalation request detected", "ticket_id", state.TicketID)
		return Update{
			Intent:             utils.Ptr(intentEscalateRequest),
			Confidence:         utils.Ptr(1.0),
			Status:             utils.Ptr(StatusProcessing),
			ExplicitEscalation: utils.Ptr(true),
		}
	}

	result, err := completion.CallStructured[intentClassification](ctx, g.llm, buildIntentPrompt(state.TicketText))
	if err != nil {
		slog.Error("intent classification failed", "ticket_id", state.TicketID, "error", err.Error())
		return Update{
			Intent:             utils.Ptr(intentUnknown),
			Confidence:         utils.Ptr(0.0),
			Status:             utils.Ptr(StatusProcessing),
			ErrorMessage:       utils.Ptr(fmt.Sprintf("Intent classification failed: %v", err)),
			ExplicitEscalation: utils.Ptr(false),
		}
	}

	return Update{
		Intent:             utils.Ptr(result.Intent),
		Confidence:         utils.Ptr(result.Confidence),
		Status:             utils.Ptr(StatusProcessing),
		ExplicitEscalation: utils.Ptr(false),
	}
}
