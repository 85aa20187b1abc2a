// Package search fans a query out to every enabled source, then merges,
// normalizes, dedupes and ranks the results, caching each response.
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amishk599/joblens/internal/cache"
	"github.com/amishk599/joblens/internal/model"
	"github.com/amishk599/joblens/internal/normalize"
	"github.com/amishk599/joblens/internal/rank"
)

// Config tunes a search.
type Config struct {
	MaxResults     int           // response cap after ranking
	AdapterTimeout time.Duration // per-source budget
	Scoring        bool          // rank by completeness score instead of source order
	Coalesce       bool          // share one fan-out among concurrent misses on a key
	CacheTTL       time.Duration // <= 0 uses the cache's default
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxResults:     50,
		AdapterTimeout: 10 * time.Second,
		Scoring:        true,
		CacheTTL:       cache.DefaultTTL,
	}
}

// Orchestrator owns one search pipeline. Sources are called in parallel but
// merged in the order given to New, which is their priority order.
type Orchestrator struct {
	sources    []model.JobSource
	cache      model.ResultCache
	store      model.JobStore
	normalizer *normalize.Normalizer
	cfg        Config
	metrics    *Metrics
	logger     *slog.Logger
	now        func() time.Time
	group      singleflight.Group
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithNormalizer(n *normalize.Normalizer) Option {
	return func(o *Orchestrator) { o.normalizer = n }
}

func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithClock sets the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an orchestrator over sources in priority order.
func New(sources []model.JobSource, rc model.ResultCache, js model.JobStore, cfg Config, opts ...Option) *Orchestrator {
	def := DefaultConfig()
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = def.AdapterTimeout
	}

	o := &Orchestrator{
		sources: sources,
		cache:   rc,
		store:   js,
		cfg:     cfg,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.normalizer == nil {
		o.normalizer = normalize.New()
	}
	return o
}

// Search returns jobs matching q, from the cache when a fresh entry exists.
// Empty keywords are rejected with model.ErrInvalidQuery before any source is
// called. Source failures only shrink the result; cache and store failures
// are returned.
func (o *Orchestrator) Search(ctx context.Context, q model.Query) (model.SearchResult, error) {
	keywords := normalize.CleanText(q.Keywords)
	if keywords == "" {
		return model.SearchResult{}, fmt.Errorf("%w: keywords are required", model.ErrInvalidQuery)
	}
	location := normalize.CleanText(q.Location)

	result, err := o.lookupOrFetch(ctx, keywords, location)
	if err != nil {
		return model.SearchResult{}, err
	}
	if q.RemoteOnly {
		result = remoteView(result)
	}
	return result, nil
}

func (o *Orchestrator) lookupOrFetch(ctx context.Context, keywords, location string) (model.SearchResult, error) {
	key := cache.Key(keywords, location)

	cached, ok, err := o.cache.Get(ctx, key)
	if err != nil {
		return model.SearchResult{}, fmt.Errorf("search %q: reading cache: %w", key, err)
	}
	if ok {
		cached.Cached = true
		o.metrics.searchServed(true)
		o.logger.Debug("cache hit", "key", key, "jobs", cached.Count)
		return cached, nil
	}

	if !o.cfg.Coalesce {
		return o.fetch(ctx, key, keywords, location)
	}

	// The shared fetch must outlive whichever caller started it.
	v, err, shared := o.group.Do(key, func() (any, error) {
		return o.fetch(context.WithoutCancel(ctx), key, keywords, location)
	})
	if err != nil {
		return model.SearchResult{}, err
	}
	result := v.(model.SearchResult)
	if shared {
		result.Jobs = slices.Clone(result.Jobs)
		result.Sources = slices.Clone(result.Sources)
	}
	return result, nil
}

// fetch runs the full pipeline for a cache miss.
func (o *Orchestrator) fetch(ctx context.Context, key, keywords, location string) (model.SearchResult, error) {
	start := time.Now()
	outcomes := o.fetchAll(ctx, model.Query{Keywords: keywords, Location: location})

	var jobs []model.Job
	failed := 0
	for i, out := range outcomes {
		if out.Err != nil {
			failed++
			continue
		}
		info := o.sources[i].Info()
		for _, raw := range out.Jobs {
			jobs = append(jobs, o.normalizer.Normalize(raw, info))
		}
	}
	fetched := len(jobs)

	jobs = o.rank(jobs)

	for _, job := range jobs {
		if err := o.store.Put(job); err != nil {
			return model.SearchResult{}, fmt.Errorf("search %q: storing job %s: %w", key, job.ID, err)
		}
	}

	result := model.SearchResult{
		Jobs:      jobs,
		Count:     len(jobs),
		Keywords:  keywords,
		Location:  location,
		Sources:   o.sourceNames(),
		Timestamp: o.now().UTC(),
	}
	if err := o.cache.Set(ctx, key, result, o.cfg.CacheTTL); err != nil {
		return model.SearchResult{}, fmt.Errorf("search %q: writing cache: %w", key, err)
	}

	o.metrics.searchServed(false)
	o.metrics.resultsReturned(result.Count)
	o.logger.Info("search completed",
		"keywords", keywords,
		"location", location,
		"fetched", fetched,
		"returned", result.Count,
		"failed_sources", failed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// rank dedupes, optionally scores and sorts, and truncates to the response cap.
// The returned slice is never nil.
func (o *Orchestrator) rank(jobs []model.Job) []model.Job {
	jobs = rank.Dedupe(jobs)
	if o.cfg.Scoring {
		rank.ScoreAll(jobs)
		rank.SortByScore(jobs)
	}
	if len(jobs) > o.cfg.MaxResults {
		jobs = jobs[:o.cfg.MaxResults]
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	return jobs
}

// remoteView returns a copy of r holding only remote jobs.
func remoteView(r model.SearchResult) model.SearchResult {
	remote := make([]model.Job, 0, len(r.Jobs))
	for _, j := range r.Jobs {
		if j.Remote {
			remote = append(remote, j)
		}
	}
	r.Jobs = remote
	r.Count = len(remote)
	return r
}

// Lookup returns a previously returned job by id.
func (o *Orchestrator) Lookup(id string) (model.Job, error) {
	id = strings.TrimSpace(id)
	job, err := o.store.Get(id)
	if err != nil {
		return model.Job{}, fmt.Errorf("lookup %q: %w", id, err)
	}
	return job, nil
}

// ClearAll empties the result cache and the job store.
func (o *Orchestrator) ClearAll(ctx context.Context) error {
	if err := o.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	if err := o.store.Clear(); err != nil {
		return fmt.Errorf("clearing job store: %w", err)
	}
	o.logger.Info("cache and job store cleared")
	return nil
}

// Sources describes the enabled sources in priority order.
func (o *Orchestrator) Sources() []model.SourceInfo {
	infos := make([]model.SourceInfo, 0, len(o.sources))
	for _, s := range o.sources {
		infos = append(infos, s.Info())
	}
	return infos
}

func (o *Orchestrator) sourceNames() []string {
	names := make([]string, 0, len(o.sources))
	for _, s := range o.sources {
		names = append(names, s.Info().Name)
	}
	return names
}
