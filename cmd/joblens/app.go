package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/amishk599/joblens/internal/adapter"
	"github.com/amishk599/joblens/internal/cache"
	"github.com/amishk599/joblens/internal/config"
	"github.com/amishk599/joblens/internal/model"
	"github.com/amishk599/joblens/internal/ratelimit"
	"github.com/amishk599/joblens/internal/search"
	"github.com/amishk599/joblens/internal/store"
)

// app is the wired service: sources, cache, store and the orchestrator over them.
type app struct {
	orch     *search.Orchestrator
	sweeper  *cache.MemoryCache // nil unless the memory cache is in use
	registry *prometheus.Registry
	closers  []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{registry: prometheus.NewRegistry()}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rc, err := a.setupCache(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	js, err := a.setupStore(cfg.Store, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	sources := buildSources(cfg, httpClient, logger)
	if len(sources) == 0 {
		a.Close()
		return nil, errors.New("no usable sources configured")
	}

	a.orch = search.New(sources, rc, js,
		search.Config{
			MaxResults:     cfg.Search.MaxResults,
			AdapterTimeout: cfg.Search.AdapterTimeout,
			Scoring:        cfg.Search.Scoring,
			Coalesce:       cfg.Search.Coalesce,
			CacheTTL:       cfg.Cache.TTL,
		},
		search.WithMetrics(search.NewMetrics(a.registry)),
		search.WithLogger(logger),
	)
	return a, nil
}

func (a *app) setupCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (model.ResultCache, error) {
	switch cfg.Backend {
	case "redis":
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		logger.Info("using redis cache", "prefix", cfg.Prefix, "ttl", cfg.TTL.String())
		return cache.NewRedisCache(rdb, cfg.Prefix, cfg.TTL), nil
	default:
		mc := cache.NewMemoryCache(cfg.TTL)
		a.sweeper = mc
		logger.Debug("using memory cache", "ttl", cfg.TTL.String())
		return mc, nil
	}
}

func (a *app) setupStore(cfg config.StoreConfig, logger *slog.Logger) (model.JobStore, error) {
	switch cfg.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.DSN, cfg.MaxJobs)
		if err != nil {
			return nil, fmt.Errorf("open job store: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		logger.Info("using sqlite job store", "in_memory", cfg.DSN == "", "max_jobs", cfg.MaxJobs)
		return s, nil
	default:
		logger.Debug("using memory job store", "max_jobs", cfg.MaxJobs)
		return store.NewMemoryStore(cfg.MaxJobs), nil
	}
}

// Close releases backend connections in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

// createSource builds the adapter for one configured source.
func createSource(sc config.SourceConfig, httpClient *http.Client, logger *slog.Logger) (model.JobSource, bool) {
	switch sc.Type {
	case config.SourceRemoteOK:
		return adapter.NewRemoteOKAdapter(httpClient), true
	case config.SourceRemotive:
		return adapter.NewRemotiveAdapter(httpClient), true
	case config.SourceIndeed:
		return adapter.NewIndeedAdapter(httpClient), true
	case config.SourceWeWorkRemotely:
		return adapter.NewWeWorkRemotelyAdapter(httpClient), true
	case config.SourceGreenhouse:
		return adapter.NewGreenhouseAdapter(sc.Name, sc.BoardToken, sc.Company, httpClient), true
	case config.SourceLever:
		return adapter.NewLeverAdapter(sc.Name, sc.BoardToken, sc.Company, httpClient), true
	case config.SourceAshby:
		return adapter.NewAshbyAdapter(sc.Name, sc.BoardToken, sc.Company, httpClient), true
	default:
		logger.Warn("unsupported source type, skipping", "source", sc.Name, "type", sc.Type)
		return nil, false
	}
}

// buildSources creates every enabled source in config order, each behind the
// shared per-source rate limiter.
func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.JobSource {
	overrides := make(map[string]ratelimit.Limit, len(cfg.RateLimit.Overrides))
	for name, r := range cfg.RateLimit.Overrides {
		overrides[name] = ratelimit.Limit{RPS: r.RPS, Burst: r.Burst}
	}
	limiter := ratelimit.NewSourceLimiter(
		ratelimit.Limit{RPS: cfg.RateLimit.Default.RPS, Burst: cfg.RateLimit.Default.Burst},
		overrides,
	)

	var sources []model.JobSource
	for _, sc := range cfg.EnabledSources() {
		src, ok := createSource(sc, httpClient, logger)
		if !ok {
			continue
		}
		sources = append(sources, ratelimit.NewRateLimitedSource(src, limiter))
		logger.Debug("registered source", "name", src.Info().Name, "type", sc.Type)
	}
	return sources
}
