package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/stacklok/toolhive-catalog-provider/internal/catalog"
)

// MemoryStore keeps stored locations in process memory
type MemoryStore struct {
	mu         sync.RWMutex
	byProvider map[string]providerRows
	now        func() time.Time
}

var _ catalog.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byProvider: make(map[string]providerRows),
		now:        time.Now,
	}
}

// ApplyMutation replaces or patches the rows owned by providerName
func (s *MemoryStore) ApplyMutation(ctx context.Context, providerName string, mutation catalog.Mutation) error {
	if err := mutation.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := applyMutation(s.byProvider[providerName], mutation, s.now().UTC())
	s.byProvider[providerName] = next

	slog.DebugContext(ctx, "Applied catalog mutation",
		"provider", providerName,
		"type", mutation.Type,
		"stored", len(next))
	return nil
}

// RequestRefresh marks matching rows of every provider
func (s *MemoryStore) RequestRefresh(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := keySet(keys)
	now := s.now().UTC()
	for _, rows := range s.byProvider {
		markRefresh(rows, set, now)
	}
	return nil
}

// ListLocations returns stored rows ordered by location key and entity name
func (s *MemoryStore) ListLocations(_ context.Context, locationKey string) ([]catalog.StoredLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return collect(s.byProvider, locationKey), nil
}
