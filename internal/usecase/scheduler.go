package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/yx-aesthete/sejm-info/internal/ports"
)

// Scheduler wires the interval driver with the runner refresh use case.
type Scheduler struct {
	driver ports.Scheduler
	runner *Runner
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring refreshes.
func NewScheduler(driver ports.Scheduler, runner *Runner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, runner: runner, logger: logger}
}

// Start registers the refresh job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.runner == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.runner.Refresh(ctx, trigger); err != nil {
			s.logger.Error("scheduled refresh failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("scheduled refresh completed", "trigger", trigger)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
