package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	dErrors "teampulse/pkg/domain-errors"

	"teampulse/internal/signals/models"
	"teampulse/internal/signals/ports"
)

// DefaultTopic is the topic upstream HR systems publish signal events to.
const DefaultTopic = "teampulse.signals.v1"

// Consumer drains signal events from Kafka into the event store. Events
// carry their own IDs, so replays after a crash are absorbed by the
// store's idempotent append.
type Consumer struct {
	client *kgo.Client
	events ports.EventStore
	logger *slog.Logger
	topic  string
}

// Option configures a Consumer instance.
type Option func(*Consumer)

// WithTopic overrides the default ingestion topic.
func WithTopic(topic string) Option {
	return func(c *Consumer) {
		if topic != "" {
			c.topic = topic
		}
	}
}

// NewConsumer creates a Kafka consumer bound to the signal event topic.
func NewConsumer(brokers []string, groupID string, events ports.EventStore, logger *slog.Logger, opts ...Option) (*Consumer, error) {
	consumer := &Consumer{
		events: events,
		logger: logger,
		topic:  DefaultTopic,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(consumer)
		}
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(consumer.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
		kgo.BlockRebalanceOnPoll(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	consumer.client = client
	return consumer, nil
}

// Close closes the underlying client.
func (c *Consumer) Close() error {
	c.client.Close()
	return nil
}

// Start polls for records until the context is cancelled. Offsets are
// committed only for records that were appended (or were unreadable and
// therefore can never succeed).
func (c *Consumer) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			fetches := c.client.PollFetches(ctx)
			if errs := fetches.Errors(); len(errs) > 0 {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.ErrorContext(ctx, "errors while polling",
					"errors", fmt.Sprint(errs),
				)
				continue
			}

			iter := fetches.RecordIter()
			records := make([]*kgo.Record, 0)
			for !iter.Done() {
				records = append(records, iter.Next())
			}

			commitRecords := c.processRecords(ctx, records)
			if len(commitRecords) > 0 {
				if err := c.client.CommitRecords(ctx, commitRecords...); err != nil {
					c.logger.ErrorContext(ctx, "failed to commit records",
						"error", err.Error(),
					)
				}
			}
			c.client.AllowRebalance()
		}
	}
}

func (c *Consumer) processRecords(ctx context.Context, records []*kgo.Record) []*kgo.Record {
	blocked := make(map[int32]bool)
	var commit []*kgo.Record

	for _, record := range records {
		if blocked[record.Partition] {
			// A prior record on this partition failed. Later offsets must
			// not be committed, or the failed record is skipped on restart.
			continue
		}

		if err := c.handleRecord(ctx, record); err != nil {
			if dErrors.HasCode(err, dErrors.CodeValidation) || dErrors.HasCode(err, dErrors.CodeInvalidInput) {
				// Malformed payloads never become valid; drop and move on.
				c.logger.WarnContext(ctx, "dropping malformed signal event",
					"partition", record.Partition,
					"offset", record.Offset,
					"error", err.Error(),
				)
				commit = append(commit, record)
				continue
			}
			c.logger.ErrorContext(ctx, "failed to ingest signal event",
				"partition", record.Partition,
				"offset", record.Offset,
				"error", err.Error(),
			)
			blocked[record.Partition] = true
			continue
		}
		commit = append(commit, record)
	}
	return commit
}

func (c *Consumer) handleRecord(ctx context.Context, record *kgo.Record) error {
	var event models.SignalEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode signal event")
	}
	if err := event.Validate(); err != nil {
		return err
	}
	if event.ID == uuid.Nil {
		return dErrors.New(dErrors.CodeValidation, "event id is required")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = record.Timestamp.UTC()
	}
	return c.events.Append(ctx, event)
}
