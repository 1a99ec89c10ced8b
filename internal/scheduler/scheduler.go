// Package scheduler runs the periodic jobs hearth needs: currently just
// the weekly digest email.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner with timezone-aware schedules.
type Scheduler struct {
	cron *cron.Cron
}

// New builds a stopped scheduler whose cron expressions evaluate in loc,
// so "0 7 * * 1" means 7am Monday household time.
func New(loc *time.Location) *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithLocation(loc))}
}

// AddJob registers fn under a standard 5-field cron expression. Each run
// gets a fresh background context; a job's error is logged, never fatal.
func (s *Scheduler) AddJob(spec, name string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := fn(ctx); err != nil {
			slog.Error("scheduled_job_failed", "job", name, "error", err)
			return
		}
		slog.Info("scheduled_job_ran", "job", name)
	})
	if err != nil {
		return err
	}
	slog.Info("scheduled_job_registered", "job", name, "spec", spec)
	return nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
