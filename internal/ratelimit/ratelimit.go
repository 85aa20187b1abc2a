package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/amishk599/joblens/internal/model"
)

// Limit is a token-bucket setting: RPS requests per second with bursts of
// up to Burst. RPS <= 0 disables limiting.
type Limit struct {
	RPS   float64
	Burst int
}

// SourceLimiter keeps one token bucket per source name so that a slow,
// strict site never throttles the others.
type SourceLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	def       Limit
	overrides map[string]Limit
}

// NewSourceLimiter creates a limiter applying def to every source except
// those named in overrides.
func NewSourceLimiter(def Limit, overrides map[string]Limit) *SourceLimiter {
	return &SourceLimiter{
		limiters:  make(map[string]*rate.Limiter),
		def:       def,
		overrides: overrides,
	}
}

// Wait blocks until the named source may be called.
// Returns an error if the context is cancelled, or its deadline would pass, while waiting.
func (l *SourceLimiter) Wait(ctx context.Context, source string) error {
	if err := l.limiter(source).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", source, err)
	}
	return nil
}

func (l *SourceLimiter) limiter(source string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[source]; ok {
		return lim
	}

	cfg := l.def
	if o, ok := l.overrides[source]; ok {
		cfg = o
	}

	var lim *rate.Limiter
	if cfg.RPS <= 0 {
		lim = rate.NewLimiter(rate.Inf, 0)
	} else {
		lim = rate.NewLimiter(rate.Limit(cfg.RPS), max(cfg.Burst, 1))
	}
	l.limiters[source] = lim
	return lim
}

// RateLimitedSource is a decorator that waits on the shared limiter before
// delegating to the wrapped JobSource.
type RateLimitedSource struct {
	inner   model.JobSource
	limiter *SourceLimiter
}

var _ model.JobSource = (*RateLimitedSource)(nil)

// NewRateLimitedSource wraps a JobSource with per-source rate limiting.
// All sources should share the same limiter instance.
func NewRateLimitedSource(inner model.JobSource, limiter *SourceLimiter) *RateLimitedSource {
	return &RateLimitedSource{inner: inner, limiter: limiter}
}

func (s *RateLimitedSource) Info() model.SourceInfo {
	return s.inner.Info()
}

// Search waits for the source's limiter, then delegates.
func (s *RateLimitedSource) Search(ctx context.Context, q model.Query) ([]model.RawJob, error) {
	if err := s.limiter.Wait(ctx, s.inner.Info().Name); err != nil {
		return nil, err
	}
	return s.inner.Search(ctx, q)
}
