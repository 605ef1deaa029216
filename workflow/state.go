package workflow

// Status is the lifecycle position of a ticket run. Every status except
// StatusProcessing is terminal.
type Status string

const (
	StatusProcessing   Status = "processing"
	StatusResolved     Status = "resolved"
	StatusWaitingHuman Status = "waiting_human"
	StatusDismissed    Status = "dismissed"
	StatusFailed       Status = "failed"
	StatusLearned      Status = "learned"
)

// IsTerminal reports whether the status ends a run.
func (s Status) IsTerminal() bool {
	return s != "" && s != StatusProcessing
}

// Document is one knowledge-base entry supplied as solution context.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FinalResponse is the payload a terminal node leaves behind. Which fields
// are populated depends on the terminal: escalation carries the full review
// payload, finalization carries the accepted solution, dismissal only the
// message.
type FinalResponse struct {
	Message          string   `json:"message,omitempty"`
	TicketID         string   `json:"ticket_id"`
	TicketText       string   `json:"ticket_text,omitempty"`
	Intent           string   `json:"intent,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
	ProposedSolution string   `json:"proposed_solution,omitempty"`
	Solution         string   `json:"solution,omitempty"`
	Reason           string   `json:"reason,omitempty"`
}

// State is the record threaded through every node of a single run. A fresh
// State is created per invocation and never reused.
//
// TicketID is set before the run starts and never mutated. TicketText is the
// text processed in this invocation; on a follow-up it may differ from the
// ticket's original text, preserved in OriginalTicketText for review display.
type State struct {
	TicketID           string         `json:"ticket_id"`
	TicketText         string         `json:"ticket_text"`
	OriginalTicketText string         `json:"original_ticket_text,omitempty"`
	Status             Status         `json:"status"`
	Intent             string         `json:"intent,omitempty"`
	Confidence         *float64       `json:"confidence,omitempty"`
	ExplicitEscalation bool           `json:"explicit_escalation"`
	ProposedSolution   string         `json:"proposed_solution,omitempty"`
	NeedsHuman         bool           `json:"needs_human"`
	FinalResponse      *FinalResponse `json:"final_response,omitempty"`
	ErrorMessage       string         `json:"error_message,omitempty"`
	RetrievedDocs      []Document     `json:"retrieved_docs,omitempty"`
}

// NewState creates the initial state for one run.
func NewState(ticketID, ticketText string) *State {
	return &State{
		TicketID:   ticketID,
		TicketText: ticketText,
		Status:     StatusProcessing,
	}
}

// Projection is the durable snapshot the caller persists after a run. The
// workflow core itself owns no persistence.
type Projection struct {
	Intent           string   `json:"intent,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
	ProposedSolution string   `json:"proposed_solution,omitempty"`
	Status           Status   `json:"status"`
	ErrorMessage     string   `json:"error_message,omitempty"`
}

// Projection returns the persistable snapshot of the state.
func (s *State) Projection() Projection {
	return Projection{
		Intent:           s.Intent,
		Confidence:       s.Confidence,
		ProposedSolution: s.ProposedSolution,
		Status:           s.Status,
		ErrorMessage:     s.ErrorMessage,
	}
}

// Update is a partial state change produced by a node. Nil fields leave the
// current value untouched; set fields replace it (shallow, last write wins).
type Update struct {
	Status             *Status
	Intent             *string
	Confidence         *float64
	ExplicitEscalation *bool
	ProposedSolution   *string
	NeedsHuman         *bool
	FinalResponse      *FinalResponse
	ErrorMessage       *string
	RetrievedDocs      []Document
}

// apply merges an update into the state. A terminal status is never reverted
// to processing; the update's other fields still apply.
func (s *State) apply(u Update) {
	if u.Status != nil {
		if !(s.Status.IsTerminal() && *u.Status == StatusProcessing) {
			s.Status = *u.Status
		}
	}
	if u.Intent != nil {
		s.Intent = *u.Intent
	}
	if u.Confidence != nil {
		s.Confidence = u.Confidence
	}
	if u.ExplicitEscalation != nil {
		s.ExplicitEscalation = *u.ExplicitEscalation
	}
	if u.ProposedSolution != nil {
		s.ProposedSolution = *u.ProposedSolution
	}
	if u.NeedsHuman != nil {
		s.NeedsHuman = *u.NeedsHuman
	}
	if u.FinalResponse != nil {
		s.FinalResponse = u.FinalResponse
	}
	if u.ErrorMessage != nil {
		s.ErrorMessage = *u.ErrorMessage
	}
	if u.RetrievedDocs != nil {
		s.RetrievedDocs = u.RetrievedDocs
	}
}
