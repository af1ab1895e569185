package event

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	id "teampulse/pkg/domain"

	"teampulse/internal/signals/models"
)

// InMemoryStore keeps signal events in process memory. Suitable for tests
// and single-node development; production uses the Postgres store.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []models.SignalEvent
	seen   map[uuid.UUID]struct{}
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		seen: make(map[uuid.UUID]struct{}),
	}
}

func (s *InMemoryStore) Append(_ context.Context, event models.SignalEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[event.ID]; dup {
		return nil
	}
	s.seen[event.ID] = struct{}{}
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) LoadWindow(_ context.Context, subjects []id.SubjectID, from, to time.Time) ([]models.SignalEvent, error) {
	wanted := make(map[id.SubjectID]struct{}, len(subjects))
	for _, subject := range subjects {
		wanted[subject] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []models.SignalEvent{}
	for _, event := range s.events {
		if _, ok := wanted[event.SubjectID]; !ok {
			continue
		}
		if event.OccurredAt.Before(from) || !event.OccurredAt.Before(to) {
			continue
		}
		matched = append(matched, event)
	}
	return matched, nil
}
