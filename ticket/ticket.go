// Package ticket is the service layer above the workflow core: it owns
// ticket records, persistence through a pluggable [Store], synchronous and
// streaming processing, follow-ups, and feedback learning.
package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/deskgraph/deskgraph/workflow"
)

// ErrNotFound is returned by a Store when no ticket has the given id.
var ErrNotFound = errors.New("ticket not found")

// Ticket is the durable record of one support request.
type Ticket struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"`
	Intent           string          `json:"intent,omitempty"`
	Confidence       *float64        `json:"confidence,omitempty"`
	ProposedSolution string          `json:"proposed_solution,omitempty"`
	Status           workflow.Status `json:"status"`
	ErrorMessage     string          `json:"error_message,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// applyProjection copies a terminal workflow snapshot into the record.
func (t *Ticket) applyProjection(p workflow.Projection) {
	t.Intent = p.Intent
	t.Confidence = p.Confidence
	t.ProposedSolution = p.ProposedSolution
	t.Status = p.Status
	t.ErrorMessage = p.ErrorMessage
}

// Store persists tickets. The background streaming worker writes through the
// same Store as foreground requests, so implementations must be safe for
// concurrent use.
type Store interface {
	Create(ctx context.Context, t *Ticket) error
	// Get returns the ticket or ErrNotFound.
	Get(ctx context.Context, id string) (*Ticket, error)
	// Update replaces the stored record or returns ErrNotFound.
	Update(ctx context.Context, t *Ticket) error
	// List returns tickets newest first, optionally filtered by status.
	// A zero limit means no limit.
	List(ctx context.Context, status workflow.Status, limit int) ([]*Ticket, error)
}
