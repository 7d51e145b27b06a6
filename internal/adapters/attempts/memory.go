package attempts

import (
	"context"
	"sort"
	"sync"

	"github.com/mindora/acumen/internal/domain/perf"
)

// MemoryStore implements Store in memory, for tests and ephemeral runs.
type MemoryStore struct {
	mu         sync.RWMutex
	byQuestion map[string][]perf.Attempt
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byQuestion: make(map[string][]perf.Attempt),
	}
}

// Record appends one attempt.
func (s *MemoryStore) Record(_ context.Context, a perf.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byQuestion[a.QuestionID] = append(s.byQuestion[a.QuestionID], a)
	return nil
}

// ByQuestion returns every attempt for a question in recording order.
func (s *MemoryStore) ByQuestion(_ context.Context, questionID string) ([]perf.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.byQuestion[questionID]
	if len(h) == 0 {
		return nil, ErrNotFound
	}
	out := make([]perf.Attempt, len(h))
	copy(out, h)
	return out, nil
}

// Questions lists the distinct question ids with at least one attempt.
func (s *MemoryStore) Questions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.byQuestion))
	for id := range s.byQuestion {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
