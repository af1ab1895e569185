package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "teampulse/pkg/domain"

	"teampulse/internal/signals/models"
)

var windowStart = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

func newEvent(subject id.SubjectID, at time.Time) models.SignalEvent {
	return models.SignalEvent{
		ID:            uuid.New(),
		SubjectID:     subject,
		OccurredAt:    at,
		Communication: &models.CommunicationActivity{Level: models.ActivityNormal},
	}
}

func TestInMemoryStore_AppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	subject := id.NewSubjectID()

	event := newEvent(subject, windowStart.Add(time.Hour))
	require.NoError(t, store.Append(ctx, event))
	// Redelivery of the same event must not duplicate the signal.
	require.NoError(t, store.Append(ctx, event))

	events, err := store.LoadWindow(ctx, []id.SubjectID{subject}, windowStart, windowStart.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestInMemoryStore_LoadWindow(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	subject := id.SubjectID(uuid.New())
	other := id.SubjectID(uuid.New())

	inside := newEvent(subject, windowStart.Add(time.Hour))
	atStart := newEvent(subject, windowStart)
	atEnd := newEvent(subject, windowStart.Add(24*time.Hour))
	before := newEvent(subject, windowStart.Add(-time.Minute))
	otherSubject := newEvent(other, windowStart.Add(time.Hour))

	for _, e := range []models.SignalEvent{inside, atStart, atEnd, before, otherSubject} {
		require.NoError(t, store.Append(ctx, e))
	}

	t.Run("half-open window includes from, excludes to", func(t *testing.T) {
		events, err := store.LoadWindow(ctx, []id.SubjectID{subject}, windowStart, windowStart.Add(24*time.Hour))
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		assert.ElementsMatch(t, []uuid.UUID{inside.ID, atStart.ID}, ids)
	})

	t.Run("filters by subject set", func(t *testing.T) {
		events, err := store.LoadWindow(ctx, []id.SubjectID{other}, windowStart, windowStart.Add(24*time.Hour))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, otherSubject.ID, events[0].ID)
	})

	t.Run("empty subject set yields no events", func(t *testing.T) {
		events, err := store.LoadWindow(ctx, nil, windowStart, windowStart.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}
