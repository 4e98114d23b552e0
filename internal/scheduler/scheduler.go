// Package scheduler fires the upper winds job once a day at a fixed local time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

const jobTag = "upper-winds"

// ErrNotRunning is returned by TriggerNow before Start or after Stop.
var ErrNotRunning = errors.New("scheduler is not running")

// Job is the work run on each tick.
type Job func(ctx context.Context)

// Scheduler runs a Job daily at a wall-clock time in a named timezone.
// Runs never overlap: a tick that fires while the previous run is still in
// progress waits for it.
type Scheduler struct {
	cron   *gocron.Scheduler
	job    Job
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New registers job to run every day at "HH:MM" (or "HH:MM:SS") in loc.
// The scheduler is idle until Start is called.
func New(at string, loc *time.Location, job Job, logger *slog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	cron := gocron.NewScheduler(loc)
	cron.SingletonModeAll()

	s := &Scheduler{
		cron:   cron,
		job:    job,
		logger: logger,
		ctx:    context.Background(),
		cancel: func() {},
	}
	if _, err := cron.Every(1).Day().At(at).Tag(jobTag).Do(s.run); err != nil {
		return nil, fmt.Errorf("schedule daily job at %q: %w", at, err)
	}
	return s, nil
}

// Start begins firing the job. Runs receive a context derived from ctx that
// is cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.StartAsync()

	_, next := s.cron.NextRun()
	s.logger.Info("scheduler started",
		"timezone", s.cron.Location().String(),
		"next_run", next.Format(time.RFC3339),
	)
}

// Stop cancels an in-flight run and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

// TriggerNow runs the job immediately, outside the daily schedule.
func (s *Scheduler) TriggerNow(_ context.Context) error {
	if !s.cron.IsRunning() {
		return ErrNotRunning
	}
	return s.cron.RunByTag(jobTag)
}

// CheckReadiness reports ready while the scheduler is running.
func (s *Scheduler) CheckReadiness(_ context.Context) error {
	if !s.cron.IsRunning() {
		return ErrNotRunning
	}
	return nil
}

// NextRun returns the time of the next scheduled tick.
func (s *Scheduler) NextRun() time.Time {
	_, next := s.cron.NextRun()
	return next
}

func (s *Scheduler) run() {
	s.logger.Info("scheduled run starting")
	s.job(s.ctx)
}
