package memory

import (
	"context"
	"sort"
	"sync"

	audit "contesthub/pkg/platform/audit"
)

// InMemoryStore keeps events in append order. It backs the memory store
// kind and tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListRecent returns matching events newest first, up to q.Limit.
func (s *InMemoryStore) ListRecent(_ context.Context, q audit.Query) ([]audit.Event, error) {
	q.Normalize()
	s.mu.RLock()
	out := make([]audit.Event, 0)
	for _, e := range s.events {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Len reports the number of stored events.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
