package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/demikl/tarnfui/internal/infra/metrics"
	"github.com/demikl/tarnfui/internal/logic/schedule"
)

// Service drives the reconciliation loop: on every tick it evaluates the
// active window once and invokes exactly one of the controller's two passes.
type Service struct {
	logger     *slog.Logger
	window     schedule.Window
	controller Controller
	interval   time.Duration
	now        func() time.Time

	ready                chan struct{}
	doneCh               chan struct{}
	inShutdown           atomic.Bool
	mu                   sync.RWMutex
	lastReconcileEndTime time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates the scheduler service.
func New(
	logger *slog.Logger,
	window schedule.Window,
	controller Controller,
	interval time.Duration,
	opts ...Option,
) *Service {
	s := &Service{
		logger:     logger,
		window:     window,
		controller: controller,
		interval:   interval,
		now:        time.Now,
		ready:      make(chan struct{}),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the name of the scheduler component.
func (s *Service) Name() string {
	return "tarnfui-scheduler"
}

func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "scheduler is shutting down, skipping start")

		return nil
	}

	go s.RunCommand(ctx)

	return nil
}

// Ping reports the scheduler healthy while reconciliation keeps up with the
// configured interval.
func (s *Service) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		age := s.lastReconcileAge()
		if age > 2*s.interval {
			return fmt.Errorf("last reconcile was too long ago: %s", age.Round(time.Second).String())
		}

		return nil
	default:
		return fmt.Errorf("scheduler is not ready")
	}
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "scheduler is already shutting down, skipping shutdown")

		return nil
	}

	defer func() {
		s.logger.InfoContext(ctx, "scheduler shut down")
	}()

	s.logger.InfoContext(ctx, "shutting down scheduler")

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before scheduler loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "scheduler loop exited")
	}

	return nil
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// ShouldBeActiveNow evaluates the window at the current instant.
func (s *Service) ShouldBeActiveNow() bool {
	return s.window.ShouldBeActive(s.now())
}

// NextTransitions returns the next startup and shutdown instants.
func (s *Service) NextTransitions() (startup, shutdown time.Time, err error) {
	now := s.now()

	startup, err = s.window.NextStartup(now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	shutdown, err = s.window.NextShutdown(now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return startup, shutdown, nil
}

// ReconcileCommand runs one reconciliation: it decides once whether the
// cluster should be up, then invokes exactly one of the two passes.
func (s *Service) ReconcileCommand(ctx context.Context) error {
	logger := s.logger.With("scheduler", "ReconcileCommand")

	active := s.window.ShouldBeActive(s.now())
	metrics.SetShouldBeActive(active)

	start := time.Now()

	if active {
		logger.InfoContext(ctx, "cluster should be active, resuming workloads")
		s.controller.ResumeResources(ctx, nil, "")
		metrics.ObserveReconcilePass("resume", time.Since(start))
	} else {
		logger.InfoContext(ctx, "cluster should be inactive, suspending workloads")
		s.controller.SuspendResources(ctx, nil, "")
		metrics.ObserveReconcilePass("suspend", time.Since(start))
	}

	return nil
}

// RunCommand runs the reconciliation loop with the configured interval until
// the context is cancelled. Reconcile errors are logged and the loop
// continues with the next tick.
func (s *Service) RunCommand(ctx context.Context) {
	defer close(s.doneCh)

	logger := s.logger.With("scheduler", "RunCommand")

	logger.InfoContext(ctx, "starting reconciliation loop",
		"interval", s.interval,
		"timezone", s.window.Location.String(),
		"startupTime", s.window.Startup.String(),
		"shutdownTime", s.window.Shutdown.String(),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	close(s.ready)

	for {
		err := s.ReconcileCommand(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "reconcile error", "reason", err)
		}

		s.setLastReconcileEndTime()

		select {
		case <-ticker.C:
		case <-ctx.Done():
			logger.InfoContext(ctx, "terminating reconciliation loop")

			return
		}
	}
}

func (s *Service) lastReconcileAge() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return time.Since(s.lastReconcileEndTime)
}

func (s *Service) setLastReconcileEndTime() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastReconcileEndTime = time.Now()
}
