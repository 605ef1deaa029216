package ticket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/deskgraph/deskgraph/workflow"
)

// MemStore is an in-memory Store for development and tests. Safe for
// concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	tickets map[string]Ticket
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		tickets: map[string]Ticket{},
	}
}

func (s *MemStore) Create(_ context.Context, t *Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	s.tickets[t.ID] = *t
	return nil
}

func (s *MemStore) Get(_ context.Context, id string) (*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Return a copy so callers cannot mutate stored state in place.
	return &stored, nil
}

func (s *MemStore) Update(_ context.Context, t *Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tickets[t.ID]
	if !ok {
		return ErrNotFound
	}
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	s.tickets[t.ID] = *t
	return nil
}

func (s *MemStore) List(_ context.Context, status workflow.Status, limit int) ([]*Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*Ticket, 0, len(s.tickets))
	for _, stored := range s.tickets {
		if status != "" && stored.Status != status {
			continue
		}
		t := stored
		results = append(results, &t)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
