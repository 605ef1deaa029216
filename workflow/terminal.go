package workflow

import (
	"fmt"

	"github.com/deskgraph/deskgraph/internal/utils"
)

const explicitEscalationMessage = "I understand you'd like to speak with a human agent. I'm escalating your ticket now. A support representative will review your case and get back to you shortly."

const offTopicMessage = "I'm a customer support assistant. I can help you with billing questions, technical issues, account problems, refunds, and other support requests. Please describe the issue you're facing, and I'll create a support ticket for you."

// escalationReason explains why a ticket needs a human, by fixed precedence:
// a processing error wins, then the confidence bands, then a generic flag.
func escalationReason(state *State) string {
	if state.ErrorMessage != "" {
		return fmt.Sprintf("Processing error: %s", state.ErrorMessage)
	}

	confidence := 0.0
	if state.Confidence != nil {
		confidence = *state.Confidence
	}
	if confidence < 0.5 {
		return "Very low confidence in classification"
	}
	if confidence < confidenceThreshold {
		return "Confidence below threshold for automated resolution"
	}
	return "Flagged for human review"
}

// escalateNode hands the ticket to human review with the full payload a
// support agent needs.
func escalateNode(state *State) Update {
	return Update{
		Status:     utils.Ptr(StatusWaitingHuman),
		NeedsHuman: utils.Ptr(true),
		FinalResponse: &FinalResponse{
			TicketID:         state.TicketID,
			TicketText:       state.TicketText,
			Intent:           state.Intent,
			Confidence:       state.Confidence,
			ProposedSolution: state.ProposedSolution,
			Reason:           escalationReason(state),
		},
	}
}

// immediateEscalateNode handles an explicit request for a human. The
// completion service is never consulted on this path.
func immediateEscalateNode(state *State) Update {
	return Update{
		Status:           utils.Ptr(StatusWaitingHuman),
		NeedsHuman:       utils.Ptr(true),
		ProposedSolution: utils.Ptr(explicitEscalationMessage),
		FinalResponse: &FinalResponse{
			Message:  "Ticket escalated to human support",
			Reason:   "User explicitly requested human assistance",
			TicketID: state.TicketID,
		},
	}
}

// offTopicNode dismisses messages that are not support requests with a
// polite redirection.
func offTopicNode(state *State) Update {
	return Update{
		Status:           utils.Ptr(StatusDismissed),
		NeedsHuman:       utils.Ptr(false),
		ProposedSolution: utils.Ptr(offTopicMessage),
		FinalResponse: &FinalResponse{
			Message:  "Off-topic message handled",
			TicketID: state.TicketID,
		},
	}
}

// finalizeNode closes out a ticket resolved without human involvement.
func finalizeNode(state *State) Update {
	return Update{
		Status: utils.Ptr(StatusResolved),
		FinalResponse: &FinalResponse{
			Message:  "Your issue has been resolved",
			Solution: state.ProposedSolution,
			TicketID: state.TicketID,
		},
	}
}
