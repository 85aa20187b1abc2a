// Package scheduler runs periodic maintenance next to the server: sweeping
// expired cache entries and, optionally, pre-warming the trending searches.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amishk599/joblens/internal/model"
)

// Sweeper evicts expired entries and reports how many were removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Warmer runs the trending searches so later requests hit the cache.
type Warmer interface {
	Trending(ctx context.Context) (model.SearchResult, error)
}

// Scheduler wraps robfig/cron and owns the maintenance jobs.
type Scheduler struct {
	cron       *cron.Cron
	sweeper    Sweeper
	sweepEvery time.Duration
	warmer     Warmer
	warmSpec   string
	logger     *slog.Logger
}

// Option configures optional jobs.
type Option func(*Scheduler)

// WithSweep schedules sweeper every interval. A nil sweeper or a
// non-positive interval disables the job.
func WithSweep(sweeper Sweeper, interval time.Duration) Option {
	return func(s *Scheduler) {
		s.sweeper = sweeper
		s.sweepEvery = interval
	}
}

// WithWarmUp schedules warmer on a standard cron spec (e.g. "*/15 * * * *"
// or "@hourly"). An empty spec disables the job.
func WithWarmUp(warmer Warmer, spec string) Option {
	return func(s *Scheduler) {
		s.warmer = warmer
		s.warmSpec = spec
	}
}

// New creates a scheduler. Jobs are registered by Run.
func New(logger *slog.Logger, opts ...Option) *Scheduler {
	cl := cronLogger{logger}
	s := &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run registers the configured jobs, starts the cron loop, and blocks until
// ctx is cancelled. Running jobs are allowed to finish before it returns.
func (s *Scheduler) Run(ctx context.Context) error {
	jobs := 0

	if s.sweeper != nil && s.sweepEvery > 0 {
		spec := "@every " + s.sweepEvery.String()
		if _, err := s.cron.AddFunc(spec, func() { s.sweep(ctx) }); err != nil {
			return fmt.Errorf("schedule cache sweep %q: %w", spec, err)
		}
		jobs++
	}

	if s.warmer != nil && s.warmSpec != "" {
		if _, err := s.cron.AddFunc(s.warmSpec, func() { s.warm(ctx) }); err != nil {
			return fmt.Errorf("schedule trending warm-up %q: %w", s.warmSpec, err)
		}
		jobs++
	}

	s.logger.Info("starting scheduler", "jobs", jobs, "sweep_interval", s.sweepEvery.String(), "warm_schedule", s.warmSpec)
	s.cron.Start()

	<-ctx.Done()
	s.logger.Info("shutting down scheduler")
	<-s.cron.Stop().Done()
	return nil
}

func (s *Scheduler) sweep(ctx context.Context) {
	n, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.logger.Error("cache sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Debug("cache sweep", "evicted", n)
	}
}

func (s *Scheduler) warm(ctx context.Context) {
	start := time.Now()
	result, err := s.warmer.Trending(ctx)
	if err != nil {
		s.logger.Error("trending warm-up failed", "error", err)
		return
	}
	s.logger.Info("trending warm-up",
		"jobs", result.Count,
		"cached", result.Cached,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
