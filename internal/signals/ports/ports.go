// Package ports defines the collaborator interfaces the aggregation service
// depends on. Implementations live under internal/signals/store and
// internal/directory; tests substitute memory stores or generated mocks.
package ports

import (
	"context"
	"time"

	id "teampulse/pkg/domain"

	"teampulse/internal/signals/models"
)

// EventStore holds immutable signal events. The engine only appends and
// reads; recorded events are never mutated.
type EventStore interface {
	// Append stores one event. Appends are idempotent by event ID so
	// at-least-once delivery upstream cannot duplicate signals.
	Append(ctx context.Context, event models.SignalEvent) error

	// LoadWindow returns all events for the given subjects with
	// occurredAt in [from, to). An empty result is valid, not an error.
	LoadWindow(ctx context.Context, subjects []id.SubjectID, from, to time.Time) ([]models.SignalEvent, error)
}

// SnapshotStore persists one team snapshot per manager.
type SnapshotStore interface {
	// Get returns the latest snapshot, or sentinel.ErrNotFound.
	Get(ctx context.Context, managerID id.ManagerID) (*models.TeamSnapshot, error)

	// Upsert replaces the manager's snapshot wholesale.
	Upsert(ctx context.Context, snapshot models.TeamSnapshot) error
}

// Team is the resolved population for one manager. Members are used only to
// select events; they are never written into a snapshot.
type Team struct {
	Name    string
	Members []id.SubjectID
}

// PopulationResolver maps a manager to the subjects whose signals are
// aggregated for that manager's team.
type PopulationResolver interface {
	// Resolve returns the manager's team; an empty member set is valid.
	Resolve(ctx context.Context, managerID id.ManagerID) (Team, error)

	// ListManagers enumerates managers eligible for scheduled aggregation.
	ListManagers(ctx context.Context) ([]id.ManagerID, error)
}
