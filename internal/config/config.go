package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no --config flag is given.
const EnvConfigPath = "JOBLENS_CONFIG"

// DefaultPath is the implicit config file, relative to the working directory.
const DefaultPath = "config.yaml"

// Source types understood by the adapter factory.
const (
	SourceRemoteOK       = "remoteok"
	SourceRemotive       = "remotive"
	SourceIndeed         = "indeed"
	SourceWeWorkRemotely = "weworkremotely"
	SourceGreenhouse     = "greenhouse"
	SourceLever          = "lever"
	SourceAshby          = "ashby"
)

// boardTypes need a board token and a company name.
var boardTypes = map[string]bool{SourceGreenhouse: true, SourceLever: true, SourceAshby: true}

var knownTypes = map[string]bool{
	SourceRemoteOK: true, SourceRemotive: true, SourceIndeed: true, SourceWeWorkRemotely: true,
	SourceGreenhouse: true, SourceLever: true, SourceAshby: true,
}

// Config is the root configuration for the joblens service.
type Config struct {
	Server    ServerConfig
	Search    SearchConfig
	Cache     CacheConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	Trending  TrendingConfig
	Sources   []SourceConfig
}

type ServerConfig struct {
	Addr       string
	AdminToken string // empty leaves admin routes open
}

// SearchConfig tunes the orchestrator.
type SearchConfig struct {
	MaxResults     int
	AdapterTimeout time.Duration
	Scoring        bool
	Coalesce       bool
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend       string // "memory" or "redis"
	TTL           time.Duration
	SweepInterval time.Duration // memory backend only
	RedisURL      string
	Prefix        string
}

// StoreConfig selects the job store.
type StoreConfig struct {
	Backend string // "memory" or "sqlite"
	DSN     string
	MaxJobs int // 0 = unbounded
}

// SourceRate is a token-bucket setting for one source.
type SourceRate struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// RateLimitConfig controls per-source rate limiting.
type RateLimitConfig struct {
	Default   SourceRate
	Overrides map[string]SourceRate // keyed by source name
}

// RateFor returns the configured rate for the given source, falling back to Default.
func (r RateLimitConfig) RateFor(source string) SourceRate {
	if o, ok := r.Overrides[source]; ok {
		return o
	}
	return r.Default
}

type TrendingConfig struct {
	WarmSchedule string // cron spec; empty disables warm-up
}

// SourceConfig describes one adapter instance. Sources are searched in the
// order they are listed.
type SourceConfig struct {
	Name       string
	Type       string
	Enabled    bool
	BoardToken string
	Company    string
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Server    rawServerConfig    `yaml:"server"`
	Search    rawSearchConfig    `yaml:"search"`
	Cache     rawCacheConfig     `yaml:"cache"`
	Store     rawStoreConfig     `yaml:"store"`
	RateLimit rawRateLimitConfig `yaml:"rate_limit"`
	Trending  rawTrendingConfig  `yaml:"trending"`
	Sources   []rawSourceConfig  `yaml:"sources"`
}

type rawServerConfig struct {
	Addr       string `yaml:"addr"`
	AdminToken string `yaml:"admin_token"`
}

type rawSearchConfig struct {
	MaxResults     int    `yaml:"max_results"`
	AdapterTimeout string `yaml:"adapter_timeout"`
	Scoring        *bool  `yaml:"scoring"`
	Coalesce       bool   `yaml:"coalesce"`
}

type rawCacheConfig struct {
	Backend       string `yaml:"backend"`
	TTL           string `yaml:"ttl"`
	SweepInterval string `yaml:"sweep_interval"`
	RedisURL      string `yaml:"redis_url"`
	Prefix        string `yaml:"prefix"`
}

type rawStoreConfig struct {
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
	MaxJobs int    `yaml:"max_jobs"`
}

type rawRateLimitConfig struct {
	RPS       *float64              `yaml:"rps"`
	Burst     *int                  `yaml:"burst"`
	Overrides map[string]SourceRate `yaml:"overrides"`
}

type rawTrendingConfig struct {
	WarmSchedule string `yaml:"warm_schedule"`
}

type rawSourceConfig struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Enabled    *bool  `yaml:"enabled"`
	BoardToken string `yaml:"board_token"`
	Company    string `yaml:"company"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Search: SearchConfig{
			MaxResults:     50,
			AdapterTimeout: 10 * time.Second,
			Scoring:        true,
		},
		Cache: CacheConfig{
			Backend:       "memory",
			TTL:           10 * time.Minute,
			SweepInterval: time.Minute,
			Prefix:        "joblens:",
		},
		Store: StoreConfig{Backend: "memory"},
		RateLimit: RateLimitConfig{
			Default:   SourceRate{RPS: 2, Burst: 2},
			Overrides: map[string]SourceRate{},
		},
		Sources: []SourceConfig{
			{Name: SourceRemoteOK, Type: SourceRemoteOK, Enabled: true},
			{Name: SourceRemotive, Type: SourceRemotive, Enabled: true},
			{Name: SourceWeWorkRemotely, Type: SourceWeWorkRemotely, Enabled: true},
			{Name: SourceIndeed, Type: SourceIndeed, Enabled: true},
		},
	}
}

// Resolve picks the config file from flagPath, $JOBLENS_CONFIG, or
// ./config.yaml, in that order, and loads it. Only the implicit default file
// may be missing; then Default() is returned. The returned path is empty
// when defaults were used.
func Resolve(flagPath string) (*Config, string, error) {
	path, explicit := flagPath, flagPath != ""
	if !explicit {
		if env := os.Getenv(EnvConfigPath); env != "" {
			path, explicit = env, true
		}
	}
	if !explicit {
		path = DefaultPath
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := loadDotEnv("."); err != nil {
				return nil, "", err
			}
			return Default(), "", nil
		}
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// A .env file next to the config is loaded first so ${VAR} references can use it;
// variables already set in the environment win.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := loadDotEnv(filepath.Dir(path)); err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := raw.toConfig()
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// toConfig applies defaults and parses durations.
func (raw rawConfig) toConfig() (*Config, error) {
	cfg := Default()
	var err error

	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
	cfg.Server.AdminToken = raw.Server.AdminToken

	if raw.Search.MaxResults != 0 {
		cfg.Search.MaxResults = raw.Search.MaxResults
	}
	if cfg.Search.AdapterTimeout, err = parseDuration("search.adapter_timeout", raw.Search.AdapterTimeout, cfg.Search.AdapterTimeout); err != nil {
		return nil, err
	}
	if raw.Search.Scoring != nil {
		cfg.Search.Scoring = *raw.Search.Scoring
	}
	cfg.Search.Coalesce = raw.Search.Coalesce

	if raw.Cache.Backend != "" {
		cfg.Cache.Backend = raw.Cache.Backend
	}
	if cfg.Cache.TTL, err = parseDuration("cache.ttl", raw.Cache.TTL, cfg.Cache.TTL); err != nil {
		return nil, err
	}
	if cfg.Cache.SweepInterval, err = parseDuration("cache.sweep_interval", raw.Cache.SweepInterval, cfg.Cache.SweepInterval); err != nil {
		return nil, err
	}
	cfg.Cache.RedisURL = raw.Cache.RedisURL
	if raw.Cache.Prefix != "" {
		cfg.Cache.Prefix = raw.Cache.Prefix
	}

	if raw.Store.Backend != "" {
		cfg.Store.Backend = raw.Store.Backend
	}
	cfg.Store.DSN = raw.Store.DSN
	cfg.Store.MaxJobs = raw.Store.MaxJobs

	if raw.RateLimit.RPS != nil {
		cfg.RateLimit.Default.RPS = *raw.RateLimit.RPS
	}
	if raw.RateLimit.Burst != nil {
		cfg.RateLimit.Default.Burst = *raw.RateLimit.Burst
	}
	for name, o := range raw.RateLimit.Overrides {
		cfg.RateLimit.Overrides[name] = o
	}

	cfg.Trending.WarmSchedule = raw.Trending.WarmSchedule

	if len(raw.Sources) > 0 {
		cfg.Sources = make([]SourceConfig, 0, len(raw.Sources))
		for _, s := range raw.Sources {
			sc := SourceConfig{
				Name:       s.Name,
				Type:       s.Type,
				Enabled:    s.Enabled == nil || *s.Enabled,
				BoardToken: s.BoardToken,
				Company:    s.Company,
			}
			if sc.Name == "" {
				sc.Name = sc.Type
			}
			cfg.Sources = append(cfg.Sources, sc)
		}
	}

	return cfg, nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if cfg.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.AdapterTimeout <= 0 {
		return fmt.Errorf("search.adapter_timeout must be positive, got %v", cfg.Search.AdapterTimeout)
	}

	switch cfg.Cache.Backend {
	case "memory":
	case "redis":
		if cfg.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required when cache.backend is \"redis\"")
		}
	default:
		return fmt.Errorf("cache.backend must be \"memory\" or \"redis\", got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.SweepInterval < time.Second {
		return fmt.Errorf("cache.sweep_interval must be at least 1s, got %v", cfg.Cache.SweepInterval)
	}

	switch cfg.Store.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.backend must be \"memory\" or \"sqlite\", got %q", cfg.Store.Backend)
	}
	if cfg.Store.MaxJobs < 0 {
		return fmt.Errorf("store.max_jobs must not be negative, got %d", cfg.Store.MaxJobs)
	}

	rates := map[string]SourceRate{"rate_limit": cfg.RateLimit.Default}
	for name, o := range cfg.RateLimit.Overrides {
		rates[fmt.Sprintf("rate_limit.overrides[%q]", name)] = o
	}
	for field, r := range rates {
		if r.RPS < 0 || r.Burst < 0 {
			return fmt.Errorf("%s: rps and burst must not be negative", field)
		}
	}

	if spec := cfg.Trending.WarmSchedule; spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("trending.warm_schedule %q: %w", spec, err)
		}
	}

	return validateSources(cfg.Sources)
}

func validateSources(sources []SourceConfig) error {
	seen := make(map[string]bool, len(sources))
	enabled := 0
	for i, s := range sources {
		if !knownTypes[s.Type] {
			return fmt.Errorf("sources[%d]: unknown type %q", i, s.Type)
		}
		if seen[s.Name] {
			return fmt.Errorf("sources[%d]: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true

		if boardTypes[s.Type] && (s.BoardToken == "" || s.Company == "") {
			return fmt.Errorf("sources[%d] (%s): board_token and company are required for type %q", i, s.Name, s.Type)
		}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}
	return nil
}

// EnabledSources returns the enabled sources in configured order.
func (c *Config) EnabledSources() []SourceConfig {
	var out []SourceConfig
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
