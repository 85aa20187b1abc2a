package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/joblens/internal/model"
)

// Fetch statuses used for logging and the source_fetches_total metric.
const (
	statusOK      = "ok"
	statusError   = "error"
	statusTimeout = "timeout"
	statusPanic   = "panic"
)

// fetchAll calls every source concurrently and returns one outcome per
// source, in source order. Each call gets its own timeout on a context that
// ignores the caller's cancellation.
func (o *Orchestrator) fetchAll(ctx context.Context, q model.Query) []model.FetchOutcome {
	base := context.WithoutCancel(ctx)
	outcomes := make([]model.FetchOutcome, len(o.sources))

	var wg sync.WaitGroup
	for i, src := range o.sources {
		i, src := i, src
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = o.fetchOne(base, src, q)
		}()
	}
	wg.Wait()

	return outcomes
}

type fetchResult struct {
	jobs []model.RawJob
	err  error
}

// fetchOne races the adapter against its timeout. A late adapter goroutine
// is left to finish on its own; its result is discarded.
func (o *Orchestrator) fetchOne(base context.Context, src model.JobSource, q model.Query) model.FetchOutcome {
	name := src.Info().Name
	start := time.Now()

	ctx, cancel := context.WithTimeout(base, o.cfg.AdapterTimeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: &panicError{value: r}}
			}
		}()
		jobs, err := src.Search(ctx, q)
		done <- fetchResult{jobs: jobs, err: err}
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = fetchResult{err: fmt.Errorf("%s after %s: %w", name, o.cfg.AdapterTimeout, model.ErrSourceTimeout)}
	}

	outcome := model.FetchOutcome{Source: name, Jobs: res.jobs, Err: res.err, Elapsed: time.Since(start)}
	if outcome.Err != nil {
		outcome.Jobs = nil
	}
	o.record(outcome)
	return outcome
}

// record logs and counts one adapter call. Failures are never propagated.
func (o *Orchestrator) record(out model.FetchOutcome) {
	status := statusOK
	var pe *panicError
	switch {
	case out.Err == nil:
	case errors.As(out.Err, &pe):
		status = statusPanic
	case errors.Is(out.Err, model.ErrSourceTimeout), errors.Is(out.Err, context.DeadlineExceeded):
		status = statusTimeout
	default:
		status = statusError
	}
	o.metrics.sourceFetched(out.Source, status, out.Elapsed)

	if out.Err != nil {
		o.logger.Warn("source fetch failed",
			"source", out.Source,
			"status", status,
			"elapsed", out.Elapsed.Round(time.Millisecond),
			"error", out.Err,
		)
		return
	}
	o.logger.Debug("source fetched",
		"source", out.Source,
		"jobs", len(out.Jobs),
		"elapsed", out.Elapsed.Round(time.Millisecond),
	)
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("adapter panicked: %v", e.value)
}
