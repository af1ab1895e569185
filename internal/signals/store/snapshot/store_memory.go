package snapshot

import (
	"context"
	"sync"

	id "teampulse/pkg/domain"
	"teampulse/pkg/platform/sentinel"

	"teampulse/internal/signals/models"
)

// InMemoryStore keeps one snapshot per manager in process memory.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[id.ManagerID]models.TeamSnapshot
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		snapshots: make(map[id.ManagerID]models.TeamSnapshot),
	}
}

func (s *InMemoryStore) Get(_ context.Context, managerID id.ManagerID) (*models.TeamSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[managerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	// Copy so callers cannot mutate the stored value.
	out := snapshot
	return &out, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, snapshot models.TeamSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snapshot.ManagerID] = snapshot
	return nil
}
