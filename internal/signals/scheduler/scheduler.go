package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"teampulse/pkg/requestcontext"
)

// DefaultInterval is how often teams are re-aggregated when the
// deployment does not configure its own cadence.
const DefaultInterval = 6 * time.Hour

const runTimeout = 10 * time.Minute

// Runner is the aggregation entry point the scheduler drives.
type Runner interface {
	RunAll(ctx context.Context) error
}

// Scheduler re-aggregates every team on a fixed interval. All managers
// in one batch observe the same pinned clock reading, so their windows
// line up.
type Scheduler struct {
	logger   *slog.Logger
	runner   Runner
	interval time.Duration

	ticker   *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Option configures a Scheduler instance.
type Option func(*Scheduler)

// WithInterval overrides the default aggregation cadence.
func WithInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// New creates a scheduler around the given runner.
func New(runner Runner, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:   logger,
		runner:   runner,
		interval: DefaultInterval,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start begins the periodic aggregation loop and runs one batch
// immediately so fresh deployments do not wait a full interval.
func (s *Scheduler) Start() {
	s.logger.Info("starting aggregation scheduler",
		"interval", s.interval.String(),
	)
	s.ticker = time.NewTicker(s.interval)

	s.wg.Add(1)
	go s.loop()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runBatch()
	}()
}

// Stop halts the loop and waits for an in-flight batch to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("stopping aggregation scheduler")
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopChan)
	})
	s.wg.Wait()
}

// Trigger runs one aggregation batch outside the schedule.
func (s *Scheduler) Trigger(ctx context.Context) error {
	return s.run(ctx)
}

func (s *Scheduler) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ticker.C:
			s.runBatch()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) runBatch() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if err := s.run(ctx); err != nil {
		s.logger.ErrorContext(ctx, "scheduled aggregation batch failed",
			"error", err.Error(),
		)
	}
}

func (s *Scheduler) run(ctx context.Context) error {
	now := time.Now().UTC()
	ctx = requestcontext.WithTime(ctx, now)

	start := time.Now()
	s.logger.InfoContext(ctx, "running aggregation batch",
		"batch_time", now.Format(time.RFC3339),
	)
	err := s.runner.RunAll(ctx)
	s.logger.InfoContext(ctx, "aggregation batch finished",
		"duration_ms", time.Since(start).Milliseconds(),
		"success", err == nil,
	)
	return err
}
