package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/joblens/internal/model"
)

// --- Mock implementations ---

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Sweep(_ context.Context) (int, error) {
	s.calls.Add(1)
	return 2, s.err
}

type countingWarmer struct {
	calls atomic.Int32
}

func (w *countingWarmer) Trending(_ context.Context) (model.SearchResult, error) {
	w.calls.Add(1)
	return model.SearchResult{Keywords: "trending", Count: 3}, nil
}

type panickingSweeper struct {
	calls atomic.Int32
}

func (s *panickingSweeper) Sweep(_ context.Context) (int, error) {
	s.calls.Add(1)
	panic("boom")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFor(t *testing.T, s *Scheduler, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(d + 5*time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}

func TestRun_SweepsOnInterval(t *testing.T) {
	sw := &countingSweeper{}
	s := New(discardLogger(), WithSweep(sw, time.Second))

	runFor(t, s, 2500*time.Millisecond)

	if got := sw.calls.Load(); got < 1 {
		t.Errorf("expected at least 1 sweep, got %d", got)
	}
}

func TestRun_SweepErrorDoesNotStopScheduler(t *testing.T) {
	sw := &countingSweeper{err: errors.New("backend down")}
	s := New(discardLogger(), WithSweep(sw, time.Second))

	runFor(t, s, 2500*time.Millisecond)

	if got := sw.calls.Load(); got < 2 {
		t.Errorf("expected sweeps to continue after errors, got %d", got)
	}
}

func TestRun_RecoversFromPanic(t *testing.T) {
	sw := &panickingSweeper{}
	s := New(discardLogger(), WithSweep(sw, time.Second))

	runFor(t, s, 2500*time.Millisecond)

	if got := sw.calls.Load(); got < 2 {
		t.Errorf("expected sweeps to continue after panic, got %d", got)
	}
}

func TestRun_WarmUp(t *testing.T) {
	w := &countingWarmer{}
	s := New(discardLogger(), WithWarmUp(w, "@every 1s"))

	runFor(t, s, 2500*time.Millisecond)

	if got := w.calls.Load(); got < 1 {
		t.Errorf("expected at least 1 warm-up, got %d", got)
	}
}

func TestRun_InvalidWarmSpec(t *testing.T) {
	s := New(discardLogger(), WithWarmUp(&countingWarmer{}, "not a cron spec"))

	err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for invalid cron spec, got nil")
	}
}

func TestRun_NoJobsStopsOnCancel(t *testing.T) {
	s := New(discardLogger(), WithSweep(nil, time.Minute), WithWarmUp(nil, ""))
	runFor(t, s, 50*time.Millisecond)
}
