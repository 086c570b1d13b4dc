// Package scheduler runs named jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner. Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	jobs map[string]Job
}

// New creates a scheduler evaluating specs in loc. ctx is handed to every job run.
func New(ctx context.Context, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		ctx:  ctx,
		jobs: map[string]Job{},
	}
}

// Register adds job under name with a standard 5-field spec or a descriptor such as "@daily".
func (s *Scheduler) Register(name, spec string, job Job) error {
	if _, dup := s.jobs[name]; dup {
		return fmt.Errorf("register %s: already registered", name)
	}
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	s.jobs[name] = job
	return nil
}

// RunNow executes a registered job synchronously.
func (s *Scheduler) RunNow(name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("run %s: not registered", name)
	}
	return s.run(name, job)
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		slog.Info("scheduler stopped")
	case <-ctx.Done():
		slog.Warn("scheduler stop timed out", "error", ctx.Err())
	}
}

func (s *Scheduler) run(name string, job Job) error {
	start := time.Now()
	slog.Info("job started", "job", name)
	if err := job(s.ctx); err != nil {
		slog.Error("job failed", "job", name, "error", err, "duration", time.Since(start))
		return err
	}
	slog.Info("job finished", "job", name, "duration", time.Since(start))
	return nil
}
