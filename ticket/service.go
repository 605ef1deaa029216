package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/deskgraph/deskgraph/workflow"
)

// Learner accepts documents distilled from human feedback.
// knowledge.Index satisfies it.
type Learner interface {
	Add(text string, metadata map[string]string)
}

// Service coordinates ticket records and workflow runs.
type Service struct {
	graph *workflow.Graph
	store Store
	kb    workflow.Searcher
	learn Learner
}

// NewService creates a Service over a built graph and a store.
func NewService(graph *workflow.Graph, store Store) *Service {
	return &Service{
		graph: graph,
		store: store,
	}
}

// WithKnowledge attaches a knowledge base. Search results feed the solution
// prompt as context; the Learner side receives feedback documents. Both are
// optional.
func (s *Service) WithKnowledge(kb workflow.Searcher, learn Learner) *Service {
	s.kb = kb
	s.learn = learn
	return s
}

// Process creates a ticket, runs the workflow synchronously, persists the
// terminal snapshot, and returns the final state alongside the record.
//
// A structural run failure marks the ticket failed but never loses it.
func (s *Service) Process(ctx context.Context, text string) (*workflow.State, *Ticket, error) {
	t := &Ticket{
		ID:     uuid.NewString(),
		Text:   text,
		Status: workflow.StatusProcessing,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	state := workflow.NewState(t.ID, text)
	s.retrieve(state)

	state, runErr := s.graph.Run(ctx, state)
	if runErr != nil {
		slog.Error("ticket processing failed", "ticket_id", t.ID, "error", runErr.Error())
		t.Status = workflow.StatusFailed
		t.ErrorMessage = runErr.Error()
		if err := s.store.Update(ctx, t); err != nil {
			slog.Error("failed to persist failed ticket", "ticket_id", t.ID, "error", err.Error())
		}
		return state, t, runErr
	}

	t.applyProjection(state.Projection())
	if err := s.store.Update(ctx, t); err != nil {
		return state, t, fmt.Errorf("failed to persist ticket result: %w", err)
	}
	return state, t, nil
}

// ProcessStream starts a background workflow run whose solution deltas,
// final result, and errors arrive on bridge. It returns the ticket id as
// soon as the record exists; the caller then drains bridge.Events until the
// channel closes.
//
// A non-empty existingID marks a follow-up: the new text is processed while
// the original ticket text is preserved for review display, except that a
// follow-up to a dismissed ticket (an off-topic first contact) replaces the
// stored text outright. An unknown existingID falls back to a new ticket.
//
// The worker runs on a context detached from ctx, so a disconnected consumer
// does not cancel it; it persists through the Service's store, which must
// tolerate the concurrent access.
func (s *Service) ProcessStream(ctx context.Context, existingID, text string, bridge *workflow.Bridge) (string, error) {
	t, originalText, err := s.resolveTicket(ctx, existingID, text)
	if err != nil {
		return "", err
	}

	state := workflow.NewState(t.ID, text)
	state.OriginalTicketText = originalText
	s.retrieve(state)

	workerCtx := context.WithoutCancel(ctx)
	go func() {
		state, runErr := s.graph.Run(workerCtx, state, workflow.WithStreamSink(bridge))
		if runErr != nil {
			slog.Error("background processing failed", "ticket_id", t.ID, "error", runErr.Error())
			bridge.FinishError(runErr)
			return
		}

		t.applyProjection(state.Projection())
		if err := s.store.Update(workerCtx, t); err != nil {
			slog.Error("failed to persist streamed ticket result", "ticket_id", t.ID, "error", err.Error())
		} else {
			slog.Info("updated ticket", "ticket_id", t.ID, "status", string(t.Status))
		}

		bridge.FinishResult(state)
	}()

	return t.ID, nil
}

// resolveTicket finds or creates the record for a (possibly follow-up)
// submission and returns it with the text to preserve as original context.
func (s *Service) resolveTicket(ctx context.Context, existingID, text string) (*Ticket, string, error) {
	if existingID != "" {
		existing, err := s.store.Get(ctx, existingID)
		switch {
		case err == nil:
			originalText := existing.Text
			if existing.Status == workflow.StatusDismissed {
				// The previous interaction was not a real ticket; this
				// message becomes the ticket context.
				existing.Text = text
				originalText = text
			}
			existing.Status = workflow.StatusProcessing
			if err := s.store.Update(ctx, existing); err != nil {
				return nil, "", fmt.Errorf("failed to update ticket: %w", err)
			}
			return existing, originalText, nil
		case !errors.Is(err, ErrNotFound):
			return nil, "", fmt.Errorf("failed to load ticket: %w", err)
		}
		// Unknown id: fall through to a new ticket.
	}

	t := &Ticket{
		ID:     uuid.NewString(),
		Text:   text,
		Status: workflow.StatusProcessing,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, "", fmt.Errorf("failed to create ticket: %w", err)
	}
	return t, text, nil
}

// Get returns a ticket by id.
func (s *Service) Get(ctx context.Context, id string) (*Ticket, error) {
	return s.store.Get(ctx, id)
}

// List returns tickets newest first, optionally filtered by status. Most
// useful for agents finding tickets waiting on human review.
func (s *Service) List(ctx context.Context, status workflow.Status, limit int) ([]*Ticket, error) {
	return s.store.List(ctx, status, limit)
}

// SubmitFeedback records a human agent's notes on a resolved escalation and
// feeds them back into the knowledge base so similar tickets resolve
// automatically next time. The ticket moves to the learned status; a missing
// knowledge base or empty feedback skips indexing but still closes the loop.
func (s *Service) SubmitFeedback(ctx context.Context, ticketID, resolution, feedback string) error {
	t, err := s.store.Get(ctx, ticketID)
	if err != nil {
		return err
	}

	if s.learn != nil && feedback != "" && resolution != "" {
		document := fmt.Sprintf("Issue: %s\n\nResolution: %s\n\nAgent Notes: %s", t.Text, resolution, feedback)
		s.learn.Add(document, map[string]string{
			"source":    "human_feedback",
			"ticket_id": t.ID,
			"intent":    t.Intent,
		})
		slog.Info("learned from feedback", "ticket_id", t.ID)
	}

	t.Status = workflow.StatusLearned
	if err := s.store.Update(ctx, t); err != nil {
		return fmt.Errorf("failed to persist feedback: %w", err)
	}
	return nil
}

// retrieve fills the state's document context when a knowledge base is
// attached. Retrieval failure is non-fatal by contract.
func (s *Service) retrieve(state *workflow.State) {
	if s.kb == nil {
		return
	}
	state.Apply(workflow.RetrieveKnowledge(s.kb, state))
}
