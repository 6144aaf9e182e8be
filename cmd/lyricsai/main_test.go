package main

import (
	"testing"
	"time"

	"github.com/hyperifyio/lyricsai/internal/app"
)

// Explicit flags win over env, and env values survive when no flag is set.
func TestApplyFlags_OverrideEnv(t *testing.T) {
	t.Setenv("LYRICS_NUM_RESULTS", "12")
	t.Setenv("LYRICS_SCAN_WORKERS", "3")
	t.Setenv("LYRICS_MAX_CONCURRENT", "2")
	t.Setenv("LYRICS_MAX_CANDIDATES", "4")

	var o options
	fs := newFlagSet(&o)
	if err := fs.Parse([]string{"-num", "5", "-max.concurrent", "8", "-max.candidates", "0", "-timeout", "3s", "Let It Be - The Beatles"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := app.LoadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	applyFlags(fs, o, &cfg)

	if cfg.NumResults != 5 {
		t.Fatalf("flag should win over env, got %d", cfg.NumResults)
	}
	if cfg.MaxConcurrent != 8 {
		t.Fatalf("max.concurrent flag not applied, got %d", cfg.MaxConcurrent)
	}
	if cfg.MaxCandidates != 0 {
		t.Fatalf("an explicit zero flag should still override env, got %d", cfg.MaxCandidates)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("timeout flag not applied, got %v", cfg.Timeout)
	}
	if cfg.ScanWorkers != 3 {
		t.Fatalf("unset flag must keep the env value, got %d", cfg.ScanWorkers)
	}
	if got := fs.Args(); len(got) != 1 || got[0] != "Let It Be - The Beatles" {
		t.Fatalf("unexpected positional args %q", got)
	}
}

func TestApplyFlags_NoFlagsKeepsConfig(t *testing.T) {
	var o options
	fs := newFlagSet(&o)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := app.DefaultConfig()
	cfg.SearchURL = "http://search.local/search"
	applyFlags(fs, o, &cfg)
	if cfg.SearchURL != "http://search.local/search" || cfg.NumResults != 15 {
		t.Fatalf("config changed without flags: %+v", cfg)
	}
}

func TestApplyFlags_ProviderNormalized(t *testing.T) {
	var o options
	fs := newFlagSet(&o)
	if err := fs.Parse([]string{"-search.provider", " SearxNG "}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := app.DefaultConfig()
	applyFlags(fs, o, &cfg)
	if cfg.SearchProvider != app.ProviderSearxNG {
		t.Fatalf("provider=%q", cfg.SearchProvider)
	}
}
