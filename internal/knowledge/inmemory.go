package knowledge

import (
	"context"
	"sync"
)

// InMemoryStore serves interpretations from memory for local/dev use.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Interpretation
}

func NewInMemoryStore(entries ...Interpretation) *InMemoryStore {
	return &InMemoryStore{entries: entries}
}

// Add appends entries; used by dev seeding and tests.
func (s *InMemoryStore) Add(entries ...Interpretation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

func (s *InMemoryStore) Find(_ context.Context, q Query) ([]Interpretation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Interpretation, 0, 8)
	for _, it := range s.entries {
		if it.NumberType != q.NumberType || it.NumberValue != q.NumberValue {
			continue
		}
		if q.Category != "" && it.Category != q.Category {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
