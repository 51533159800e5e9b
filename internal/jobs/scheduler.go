// Package jobs runs periodic background work on a gocron scheduler.
package jobs

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/PvUtrix/shked-sub003/internal/logger"
)

// zapLogger adapts the sugared logger to gocron.Logger.
type zapLogger struct {
	log *zap.SugaredLogger
}

func (l zapLogger) Debug(msg string, args ...any) { l.log.Debugw(msg, args...) }
func (l zapLogger) Info(msg string, args ...any)  { l.log.Infow(msg, args...) }
func (l zapLogger) Warn(msg string, args ...any)  { l.log.Warnw(msg, args...) }
func (l zapLogger) Error(msg string, args ...any) { l.log.Errorw(msg, args...) }

// Scheduler owns the background jobs of the API process.
type Scheduler struct {
	s   gocron.Scheduler
	log *zap.SugaredLogger
}

// NewScheduler creates a stopped scheduler running in UTC.
func NewScheduler() (*Scheduler, error) {
	log := logger.Named("jobs")
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(zapLogger{log: log}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{s: s, log: log}, nil
}

// Every schedules task to run every interval. Runs of the same job never overlap.
func (s *Scheduler) Every(name string, interval time.Duration, task func()) error {
	_, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule job %q: %w", name, err)
	}
	s.log.Infow("job scheduled", "name", name, "interval", interval.String())
	return nil
}

// Jobs reports the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	return len(s.s.Jobs())
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.s.Start()
}

// Stop waits for running jobs to finish and stops the scheduler.
func (s *Scheduler) Stop() error {
	if err := s.s.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	return nil
}
