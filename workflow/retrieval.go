package workflow

import (
	"log/slog"
)

// Searcher looks up knowledge-base documents relevant to a query. Failure is
// non-fatal for callers: retrieval degrades to an empty result.
type Searcher interface {
	Search(query string, k int) ([]Document, error)
}

// retrievalK is how many documents a retrieval pass asks for.
const retrievalK = 3

// RetrieveKnowledge fills State.RetrievedDocs with context for the solution
// prompt. It is not attached to the built graph; callers wanting retrieval
// run it against the state before Graph.Run, and the solution node picks the
// documents up from there.
//
// A failing or empty search yields an empty document set, never an error.
func RetrieveKnowledge(kb Searcher, state *State) Update {
	results, err := kb.Search(state.TicketText, retrievalK)
	if err != nil {
		slog.Warn("knowledge retrieval failed", "ticket_id", state.TicketID, "error", err.Error())
		return Update{RetrievedDocs: []Document{}}
	}
	if results == nil {
		results = []Document{}
	}
	return Update{RetrievedDocs: results}
}

// Apply merges a partial update into the state outside a graph run. Needed
// by callers composing extension steps such as [RetrieveKnowledge].
func (s *State) Apply(u Update) {
	s.apply(u)
}
