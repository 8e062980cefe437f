package brief

import (
	"context"
	"sync"

	"solid-waffle/internal/domain"
)

// Artifact lists are capped; appending past the cap truncates the oldest
// entries.
const maxArtifacts = 100

// Store is the durable, append-only, newest-first artifact list. Reads return
// copies; writes are load-modify-store with last-write-wins semantics under
// concurrency.
type Store interface {
	List(ctx context.Context) ([]domain.BriefArtifact, error)
	Append(ctx context.Context, artifact domain.BriefArtifact) error
}

func prepend(list []domain.BriefArtifact, artifact domain.BriefArtifact) []domain.BriefArtifact {
	out := make([]domain.BriefArtifact, 0, len(list)+1)
	out = append(out, artifact)
	out = append(out, list...)
	if len(out) > maxArtifacts {
		out = out[:maxArtifacts]
	}
	return out
}

// MemoryStore keeps the artifact list in process memory. Used in tests and
// when no DATABASE_URL is configured.
type MemoryStore struct {
	mu   sync.Mutex
	list []domain.BriefArtifact
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(_ context.Context) ([]domain.BriefArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BriefArtifact(nil), s.list...), nil
}

func (s *MemoryStore) Append(_ context.Context, artifact domain.BriefArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = prepend(s.list, artifact)
	return nil
}
