package artifact

import (
	"context"
	"sync"

	"github.com/mindora/acumen/internal/registry"
)

// MemoryStore implements registry.Store in memory, for tests and ephemeral
// runs. Artifacts are append-only per role; the last saved one is active.
type MemoryStore struct {
	mu      sync.RWMutex
	history map[registry.Role][]*registry.Artifact
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		history: make(map[registry.Role][]*registry.Artifact),
	}
}

// Save appends artifact and marks it active for its role.
func (s *MemoryStore) Save(_ context.Context, a *registry.Artifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[a.Role] = append(s.history[a.Role], a)
	return a.ID, nil
}

// Load returns the active artifact for role.
func (s *MemoryStore) Load(_ context.Context, role registry.Role) (*registry.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.history[role]
	if len(h) == 0 {
		return nil, registry.ErrArtifactNotFound
	}
	return h[len(h)-1], nil
}

// History returns every saved artifact for role, oldest first.
func (s *MemoryStore) History(_ context.Context, role registry.Role) ([]*registry.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*registry.Artifact, len(s.history[role]))
	copy(out, s.history[role])
	return out, nil
}
