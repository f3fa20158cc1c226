package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CubeSugarZhang/webpack/pkg/telemetry/logging"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a job on a cron schedule, e.g. to revalidate
// configurations that reference files changed outside the watched set.
//
// Common expressions:
//   - "*/15 * * * *" - every 15 minutes
//   - "0 * * * *"    - hourly
//   - "@every 30s"   - fixed interval
type Scheduler struct {
	schedule string
	cron     *cron.Cron
	logger   *logging.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for a standard five-field cron
// expression or descriptor. An empty schedule disables it.
func NewScheduler(schedule string, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Scheduler{
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "watch.scheduler"),
	}
}

// Start schedules job and returns immediately. The scheduler stops when
// ctx is cancelled. Start does nothing for an empty schedule.
func (s *Scheduler) Start(ctx context.Context, job func(context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Debug("revalidation schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return ErrAlreadyRunning
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.logger.Debug("scheduled revalidation")
		job(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule revalidation: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("revalidation scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("revalidation scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled run, or nil when nothing is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
