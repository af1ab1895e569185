// Package service orchestrates aggregation runs: resolve the team, load both
// event windows, compute metrics, detect anomalies, and replace the
// manager's snapshot in a single write.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	id "teampulse/pkg/domain"
	dErrors "teampulse/pkg/domain-errors"
	"teampulse/pkg/platform/sentinel"
	"teampulse/pkg/requestcontext"

	"teampulse/internal/signals/calc"
	"teampulse/internal/signals/detect"
	"teampulse/internal/signals/metrics"
	"teampulse/internal/signals/models"
	"teampulse/internal/signals/ports"
)

// Type aliases for shared interfaces.
type (
	EventStore         = ports.EventStore
	SnapshotStore      = ports.SnapshotStore
	PopulationResolver = ports.PopulationResolver
)

const defaultRunConcurrency = 4

type Service struct {
	events    EventStore
	snapshots SnapshotStore
	resolver  PopulationResolver

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	// runConcurrency bounds parallel managers in RunAll.
	runConcurrency int

	// locks serializes snapshot writes per manager so two overlapping runs
	// can never interleave fields; last complete run wins.
	mu    sync.Mutex
	locks map[id.ManagerID]*sync.Mutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithRunConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.runConcurrency = n
		}
	}
}

func New(events EventStore, snapshots SnapshotStore, resolver PopulationResolver, opts ...Option) (*Service, error) {
	if events == nil {
		return nil, fmt.Errorf("event store is required")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("population resolver is required")
	}

	svc := &Service{
		events:         events,
		snapshots:      snapshots,
		resolver:       resolver,
		logger:         slog.Default(),
		tracer:         otel.Tracer("teampulse/signals"),
		runConcurrency: defaultRunConcurrency,
		locks:          make(map[id.ManagerID]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Record appends one already-shaped signal event. The event's subject is
// never surfaced by any read path; it exists only to scope window loads.
func (s *Service) Record(ctx context.Context, event models.SignalEvent) (models.SignalEvent, error) {
	if err := event.Validate(); err != nil {
		return models.SignalEvent{}, err
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = requestcontext.Now(ctx)
	}

	if err := s.events.Append(ctx, event); err != nil {
		return models.SignalEvent{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record signal event")
	}

	if s.metrics != nil {
		s.metrics.IncrementEventsRecorded()
	}
	return event, nil
}

// Run executes one full aggregation cycle for the manager and returns the
// persisted snapshot. The whole bundle and alert list are computed in memory
// before the single snapshot write; a failed run leaves the previous snapshot
// untouched. Idempotent given identical stored events and a fixed
// requestcontext time.
func (s *Service) Run(ctx context.Context, managerID id.ManagerID) (*models.TeamSnapshot, error) {
	if managerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "manager_id is required")
	}

	now := requestcontext.Now(ctx)
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "signals.aggregate",
		trace.WithAttributes(attribute.String("manager_id", managerID.String())))
	defer span.End()

	snapshot, err := s.aggregate(ctx, managerID, now)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveRun("failure", time.Since(start))
		}
		s.logger.ErrorContext(ctx, "aggregation run failed",
			"request_id", requestcontext.RequestID(ctx),
			"manager_id", managerID,
			"error", err,
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveRun("success", time.Since(start))
		for _, alert := range snapshot.Alerts {
			s.metrics.IncrementAlerts(string(alert.Type))
		}
	}
	s.logger.InfoContext(ctx, "aggregation run completed",
		"request_id", requestcontext.RequestID(ctx),
		"manager_id", managerID,
		"team_size", snapshot.TeamSize,
		"alerts", len(snapshot.Alerts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snapshot, nil
}

func (s *Service) aggregate(ctx context.Context, managerID id.ManagerID, now time.Time) (*models.TeamSnapshot, error) {
	team, err := s.resolver.Resolve(ctx, managerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "unknown manager")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to resolve team population")
	}

	periodStart := now.Add(-models.WindowLength)
	baselineStart := now.Add(-2 * models.WindowLength)

	// An empty team is not an error: the run still produces a neutral
	// snapshot so dashboards see "no data yet" rather than a failure.
	current, err := s.events.LoadWindow(ctx, team.Members, periodStart, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load current window events")
	}
	baseline, err := s.events.LoadWindow(ctx, team.Members, baselineStart, periodStart)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load baseline window events")
	}

	bundle := calc.Compute(current, baseline)
	alerts := detect.Detect(bundle, now)

	snapshot := models.TeamSnapshot{
		ManagerID:     managerID,
		TeamName:      team.Name,
		TeamSize:      len(team.Members),
		Metrics:       bundle,
		Alerts:        alerts,
		PeriodStart:   periodStart,
		PeriodEnd:     now,
		BaselineStart: baselineStart,
		BaselineEnd:   periodStart,
		UpdatedAt:     now,
	}

	unlock := s.lockManager(managerID)
	defer unlock()
	if err := s.snapshots.Upsert(ctx, snapshot); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist team snapshot")
	}
	return &snapshot, nil
}

// RunAll aggregates every manager the resolver knows about. Managers are
// independent, so runs proceed in parallel with bounded concurrency; one
// manager's failure does not stop the others. All runs in the batch share
// the caller's pinned "now".
func (s *Service) RunAll(ctx context.Context) error {
	managers, err := s.resolver.ListManagers(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list managers")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.runConcurrency)
	var failed int
	var failedMu sync.Mutex

	for _, managerID := range managers {
		g.Go(func() error {
			if _, err := s.Run(gctx, managerID); err != nil {
				// Already logged with manager context by Run.
				failedMu.Lock()
				failed++
				failedMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if failed > 0 {
		return dErrors.New(dErrors.CodeInternal,
			fmt.Sprintf("aggregation failed for %d of %d managers", failed, len(managers)))
	}
	return nil
}

// Snapshot returns the latest persisted snapshot for the manager, lazily
// creating a neutral default on first access so first-time callers never see
// a missing-resource error.
func (s *Service) Snapshot(ctx context.Context, managerID id.ManagerID) (*models.TeamSnapshot, error) {
	if managerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "manager_id is required")
	}

	snapshot, err := s.snapshots.Get(ctx, managerID)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load team snapshot")
	}

	now := requestcontext.Now(ctx)
	teamName := "Team"
	teamSize := 0
	if team, resolveErr := s.resolver.Resolve(ctx, managerID); resolveErr == nil {
		teamName = team.Name
		teamSize = len(team.Members)
	}

	def := models.DefaultSnapshot(managerID, teamName, teamSize, now)

	unlock := s.lockManager(managerID)
	defer unlock()
	// Re-check under the lock: an aggregation run may have written a real
	// snapshot since the first read, and a default must never clobber it.
	if snapshot, err := s.snapshots.Get(ctx, managerID); err == nil {
		return snapshot, nil
	}
	if err := s.snapshots.Upsert(ctx, def); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist default snapshot")
	}
	return &def, nil
}

func (s *Service) lockManager(managerID id.ManagerID) func() {
	s.mu.Lock()
	lock, ok := s.locks[managerID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[managerID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
