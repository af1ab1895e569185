package store

import (
	"context"
	"sync"

	id "teampulse/pkg/domain"
	"teampulse/pkg/platform/sentinel"

	"teampulse/internal/directory/models"
	"teampulse/internal/signals/ports"
)

// InMemoryStore keeps the directory in process memory. It favors clarity
// over performance and backs tests and single-node deployments.
type InMemoryStore struct {
	mu    sync.RWMutex
	teams map[id.ManagerID]*teamEntry
}

type teamEntry struct {
	name    string
	members []id.SubjectID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{teams: make(map[id.ManagerID]*teamEntry)}
}

// AddEmployee registers an employee under its manager, creating the team
// on first sight. The team name follows the most recent entry.
func (s *InMemoryStore) AddEmployee(_ context.Context, employee models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.teams[employee.ManagerID]
	if !ok {
		entry = &teamEntry{}
		s.teams[employee.ManagerID] = entry
	}
	if employee.TeamName != "" {
		entry.name = employee.TeamName
	}
	for _, member := range entry.members {
		if member == employee.SubjectID {
			return nil
		}
	}
	entry.members = append(entry.members, employee.SubjectID)
	return nil
}

func (s *InMemoryStore) Resolve(_ context.Context, managerID id.ManagerID) (ports.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Teams exist only through AddEmployee, so an unknown manager and a
	// manager with no reports both resolve to ErrNotFound.
	entry, ok := s.teams[managerID]
	if !ok {
		return ports.Team{}, sentinel.ErrNotFound
	}
	members := make([]id.SubjectID, len(entry.members))
	copy(members, entry.members)
	return ports.Team{Name: entry.name, Members: members}, nil
}

func (s *InMemoryStore) ListManagers(_ context.Context) ([]id.ManagerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	managers := make([]id.ManagerID, 0, len(s.teams))
	for managerID := range s.teams {
		managers = append(managers, managerID)
	}
	return managers, nil
}
