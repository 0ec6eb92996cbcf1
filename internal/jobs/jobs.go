// Package jobs runs the periodic maintenance tasks of the library on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"libraryapi/internal/logging"
)

const (
	// TokenCleanupSchedule purges expired blacklist entries.
	TokenCleanupSchedule = "@hourly"
	jobTimeout           = 5 * time.Minute
)

type FineRecalculator interface {
	RecalculateFines(ctx context.Context) (int, error)
}

type TokenJanitor interface {
	Cleanup(ctx context.Context) (int64, error)
}

// cronLogger routes robfig/cron's own messages to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logging.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logging.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}

type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	l := cronLogger{}
	return &Scheduler{cron: cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)}
}

// Add registers fn under name. An empty schedule disables the job.
func (s *Scheduler) Add(name, schedule string, fn func(ctx context.Context) error) error {
	if schedule == "" {
		logging.Info().Str("job", name).Msg("job disabled")
		return nil
	}
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		started := time.Now()
		if err := fn(ctx); err != nil {
			logging.Error().Err(err).Str("job", name).Msg("job failed")
			return
		}
		logging.Info().Str("job", name).Dur("took", time.Since(started)).Msg("job finished")
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, schedule, err)
	}
	logging.Info().Str("job", name).Str("schedule", schedule).Msg("job scheduled")
	return nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Len is the number of registered jobs.
func (s *Scheduler) Len() int { return len(s.cron.Entries()) }

func RecalculateFines(r FineRecalculator) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := r.RecalculateFines(ctx)
		return err
	}
}

func CleanupTokens(j TokenJanitor) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		n, err := j.Cleanup(ctx)
		if err == nil && n > 0 {
			logging.Info().Int64("purged", n).Msg("expired tokens purged")
		}
		return err
	}
}
