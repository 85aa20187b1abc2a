package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/joblens/internal/config"
	"github.com/amishk599/joblens/internal/model"
)

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, model.SearchResult{
		Keywords:  "go",
		Count:     1,
		Sources:   []string{"remoteok", "indeed"},
		Timestamp: time.Now(),
		Cached:    true,
		Jobs: []model.Job{
			{ID: "remoteok-1", Title: "Senior Go Engineer", Company: "Acme", Location: "Remote", PostedDate: "2026-01-02"},
		},
	})

	out := buf.String()
	for _, want := range []string{"Senior Go Engineer", "Acme", "2026-01-02", `1 jobs for "go" from remoteok, indeed`, "cached"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, model.SearchResult{Keywords: "go", Jobs: []model.Job{}}); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["keywords"] != "go" {
		t.Errorf("keywords = %v", decoded["keywords"])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("truncate = %q", got)
	}
}

func TestOutputFlags_Validate(t *testing.T) {
	if err := (outputFlags{browse: true, json: true}).validate(); err == nil {
		t.Error("expected error for --browse with --json")
	}
	if err := (outputFlags{json: true}).validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildSources(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Default()
	cfg.Sources = []config.SourceConfig{
		{Name: "remoteok", Type: config.SourceRemoteOK, Enabled: true},
		{Name: "stripe", Type: config.SourceGreenhouse, Enabled: true, BoardToken: "stripe", Company: "Stripe"},
		{Name: "indeed", Type: config.SourceIndeed, Enabled: false},
		{Name: "mystery", Type: "monster", Enabled: true},
	}

	sources := buildSources(cfg, &http.Client{}, logger)
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if got := sources[0].Info().Name; got != "remoteok" {
		t.Errorf("sources[0] = %s, want remoteok", got)
	}
	if got := sources[1].Info().Name; got != "stripe" {
		t.Errorf("sources[1] = %s, want stripe", got)
	}
}

func TestNewApp_Backends(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.Default()
	a, err := newApp(testContext(t), cfg, logger)
	if err != nil {
		t.Fatalf("newApp (memory): %v", err)
	}
	if a.sweeper == nil {
		t.Error("memory cache should be exposed for sweeping")
	}
	if len(a.orch.Sources()) != len(cfg.EnabledSources()) {
		t.Errorf("orchestrator has %d sources, want %d", len(a.orch.Sources()), len(cfg.EnabledSources()))
	}
	a.Close()

	cfg.Store.Backend = "sqlite"
	cfg.Store.DSN = t.TempDir() + "/jobs.db"
	a, err = newApp(testContext(t), cfg, logger)
	if err != nil {
		t.Fatalf("newApp (sqlite): %v", err)
	}
	if len(a.closers) != 1 {
		t.Errorf("expected sqlite store closer, got %d closers", len(a.closers))
	}
	a.Close()
}

func TestNewApp_NoSources(t *testing.T) {
	cfg := config.Default()
	cfg.Sources = nil
	if _, err := newApp(testContext(t), cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Error("expected error with no sources")
	}
}

// testContext mirrors testing.T.Context (Go 1.24+): cancelled when the test ends.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
