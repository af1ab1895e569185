package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "teampulse/pkg/domain"

	"teampulse/internal/signals/models"
	eventstore "teampulse/internal/signals/store/event"
)

func testConsumer(events *eventstore.InMemoryStore) *Consumer {
	return &Consumer{
		events: events,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		topic:  DefaultTopic,
	}
}

func record(t *testing.T, partition int32, offset int64, event models.SignalEvent) *kgo.Record {
	t.Helper()
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	return &kgo.Record{
		Topic:     DefaultTopic,
		Partition: partition,
		Offset:    offset,
		Value:     raw,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func validEvent() models.SignalEvent {
	return models.SignalEvent{
		ID:            uuid.New(),
		SubjectID:     id.NewSubjectID(),
		OccurredAt:    time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC),
		Communication: &models.CommunicationActivity{Level: models.ActivityLow},
	}
}

func TestProcessRecords_AppendsAndCommits(t *testing.T) {
	ctx := context.Background()
	events := eventstore.NewInMemory()
	c := testConsumer(events)

	first := validEvent()
	second := validEvent()
	records := []*kgo.Record{
		record(t, 0, 1, first),
		record(t, 0, 2, second),
	}

	commit := c.processRecords(ctx, records)
	assert.Len(t, commit, 2)

	loaded, err := events.LoadWindow(ctx,
		[]id.SubjectID{first.SubjectID, second.SubjectID},
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestProcessRecords_DropsMalformedButCommits(t *testing.T) {
	ctx := context.Background()
	events := eventstore.NewInMemory()
	c := testConsumer(events)

	garbage := &kgo.Record{Topic: DefaultTopic, Partition: 0, Offset: 1, Value: []byte("not json")}
	missingPayload := record(t, 0, 2, models.SignalEvent{ID: uuid.New(), SubjectID: id.NewSubjectID()})
	good := record(t, 0, 3, validEvent())

	commit := c.processRecords(ctx, []*kgo.Record{garbage, missingPayload, good})

	// Malformed records can never succeed; committing them prevents a
	// poison-pill loop. The good record still lands.
	assert.Len(t, commit, 3)
}

func TestProcessRecords_BlocksPartitionAfterStoreFailure(t *testing.T) {
	ctx := context.Background()
	c := testConsumer(nil)
	c.events = failingEventStore{}

	records := []*kgo.Record{
		record(t, 0, 1, validEvent()),
		record(t, 0, 2, validEvent()),
		record(t, 1, 1, validEvent()),
	}

	commit := c.processRecords(ctx, records)

	// Nothing on a failed partition may be committed, or the failed offset
	// is skipped on restart. Partition 1 fails independently.
	assert.Empty(t, commit)
}

func TestHandleRecord_RequiresEventID(t *testing.T) {
	ctx := context.Background()
	events := eventstore.NewInMemory()
	c := testConsumer(events)

	event := validEvent()
	event.ID = uuid.Nil
	err := c.handleRecord(ctx, record(t, 0, 1, event))
	require.Error(t, err)
}

func TestHandleRecord_DefaultsOccurredAtToRecordTimestamp(t *testing.T) {
	ctx := context.Background()
	events := eventstore.NewInMemory()
	c := testConsumer(events)

	event := validEvent()
	event.OccurredAt = time.Time{}
	rec := record(t, 0, 1, event)
	require.NoError(t, c.handleRecord(ctx, rec))

	loaded, err := events.LoadWindow(ctx, []id.SubjectID{event.SubjectID},
		rec.Timestamp.Add(-time.Minute), rec.Timestamp.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, rec.Timestamp, loaded[0].OccurredAt)
}

type failingEventStore struct{}

func (failingEventStore) Append(context.Context, models.SignalEvent) error {
	return errors.New("store down")
}

func (failingEventStore) LoadWindow(context.Context, []id.SubjectID, time.Time, time.Time) ([]models.SignalEvent, error) {
	return nil, errors.New("store down")
}
