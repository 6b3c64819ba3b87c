// Package scheduler runs periodic background jobs on cron schedules.
// The only built-in job recomputes lead-time prediction metrics from
// approved request/receive pairs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"gims/pkg/logger"
)

// Scheduler wraps a cron runner with logging and panic recovery.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New creates a stopped scheduler. Register jobs, then call Start.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// AddJob registers a named job on the given cron schedule.
func (s *Scheduler) AddJob(name, schedule string, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, job func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("scheduled job panicked", "job", name, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	started := time.Now()
	if err := job(ctx); err != nil {
		s.log.Errorw("scheduled job failed", "job", name, "error", err)
		return
	}
	s.log.Infow("scheduled job finished", "job", name, "duration", time.Since(started))
}

// Start begins running registered jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
