package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deskgraph/deskgraph/core/completion"
	"github.com/deskgraph/deskgraph/internal/utils"
)

// confidenceThreshold gates automated resolution. A classification at or
// above the threshold resolves without review; below it, or with no
// confidence at all, the ticket waits for a human.
const confidenceThreshold = 0.85

// needsHumanReview applies the confidence gate. Absent confidence fails safe
// toward review; exactly the threshold resolves.
func needsHumanReview(confidence *float64) bool {
	return confidence == nil || *confidence < confidenceThreshold
}

// solutionOutput is the structured output expected from the non-streaming
// solution call.
type solutionOutput struct {
	Solution string `json:"solution" jsonschema:"required,description=Step-by-step solution for the customer"`
	// Optional with a false default, so an answer carrying only the
	// solution text still validates.
	RequiresFollowup bool `json:"requires_followup,omitempty" jsonschema:"description=Whether this issue needs follow-up"`
}

const fallbackSolution = "We apologize, but we're unable to generate a solution at this time. A support agent will review your request shortly."

// generateSolution produces the candidate solution text.
//
// With a sink it streams prose deltas as they arrive and keeps the
// accumulated text; without one it requests a structured answer. Either way
// the escalation decision is confidence-only and independent of the
// generation mode. A completion failure degrades to a fallback apology with
// forced human review; this node never fails the run.
func (g *Graph) generateSolution(ctx context.Context, state *State, sink completion.ChunkSink) Update {
	var (
		solution string
		err      error
	)

	if sink != nil {
		prompt := buildSolutionPrompt(solutionGenerationPromptProse, state.TicketText, state.Intent, state.RetrievedDocs)
		solution, err = g.llm.CallStreaming(ctx, prompt, sink)
	} else {
		prompt := buildSolutionPrompt(solutionGenerationPrompt, state.TicketText, state.Intent, state.RetrievedDocs)
		var result solutionOutput
		result, err = completion.CallStructured[solutionOutput](ctx, g.llm, prompt)
		solution = result.Solution
	}

	if err != nil {
		slog.Error("solution generation failed", "ticket_id", state.TicketID, "error", err.Error())
		return Update{
			ProposedSolution: utils.Ptr(fallbackSolution),
			NeedsHuman:       utils.Ptr(true),
			Status:           utils.Ptr(StatusWaitingHuman),
			ErrorMessage:     utils.Ptr(fmt.Sprintf("Solution generation failed: %v", err)),
		}
	}

	needsHuman := needsHumanReview(state.Confidence)
	status := StatusResolved
	if needsHuman {
		status = StatusWaitingHuman
	}
	return Update{
		ProposedSolution: utils.Ptr(solution),
		NeedsHuman:       utils.Ptr(needsHuman),
		Status:           utils.Ptr(status),
	}
}
