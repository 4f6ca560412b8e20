package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pullwatch/pullwatch/models"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Auth.APIBaseURL != "https://api.github.com" {
		t.Fatalf("apiBaseUrl default: %q", cfg.Auth.APIBaseURL)
	}
	if cfg.Auth.TokenEnvVar != "GITHUB_TOKEN" {
		t.Fatalf("tokenEnvVar default: %q", cfg.Auth.TokenEnvVar)
	}
	if cfg.Query.State != "open" || !cfg.Query.IncludeDrafts {
		t.Fatalf("query defaults: %+v", cfg.Query)
	}
	if cfg.Limits.MaxTotal != 20 || cfg.Limits.MaxPerRepo != 10 {
		t.Fatalf("limits defaults: %+v", cfg.Limits)
	}
	if cfg.Refresh.Interval() != 5*time.Minute || !cfg.Refresh.BackoffOnRateLimit {
		t.Fatalf("refresh defaults: %+v", cfg.Refresh)
	}
	if !cfg.Alerts.ShowOnAuthError {
		t.Fatal("alerts.showOnAuthError should default to true")
	}
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
auth:
  token: sekrit
targets:
  - owner: acme
    repo: widgets
    baseMode: list
    branches: [main, dev]
limits:
  maxTotal: 5
refresh:
  updateIntervalMs: 60000
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Token != "sekrit" {
		t.Fatalf("token: %q", cfg.Auth.Token)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Owner != "acme" || len(cfg.Targets[0].Branches) != 2 {
		t.Fatalf("targets: %+v", cfg.Targets)
	}
	if cfg.Limits.MaxTotal != 5 {
		t.Fatalf("maxTotal: %d", cfg.Limits.MaxTotal)
	}
	// Unspecified keys keep their defaults.
	if cfg.Limits.MaxPerRepo != 10 || cfg.Query.State != "open" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Refresh.Interval() != time.Minute {
		t.Fatalf("interval: %v", cfg.Refresh.Interval())
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
limits:
  maxTotal: -3
  maxPerRepo: 0
refresh:
  updateIntervalMs: -100
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Limits.MaxTotal != DefaultMaxTotal || cfg.Limits.MaxPerRepo != DefaultMaxPerRepo {
		t.Fatalf("limits not clamped: %+v", cfg.Limits)
	}
	if cfg.Refresh.UpdateIntervalMs != DefaultIntervalMs {
		t.Fatalf("interval not clamped: %d", cfg.Refresh.UpdateIntervalMs)
	}
}

func TestMergeAppliesOnlySetFields(t *testing.T) {
	base := Default()
	base.Targets = []models.Target{{Owner: "acme", Repo: "widgets"}}

	maxTotal := 3
	drafts := false
	merged := Merge(base, &Overrides{MaxTotal: &maxTotal, IncludeDrafts: &drafts})

	if merged.Limits.MaxTotal != 3 {
		t.Fatalf("maxTotal: %d", merged.Limits.MaxTotal)
	}
	if merged.Query.IncludeDrafts {
		t.Fatal("includeDrafts override not applied")
	}
	if merged.Limits.MaxPerRepo != DefaultMaxPerRepo || len(merged.Targets) != 1 {
		t.Fatalf("untouched fields changed: %+v", merged)
	}
	// Merge is pure.
	if base.Limits.MaxTotal != DefaultMaxTotal || base.Query.IncludeDrafts != true {
		t.Fatalf("base mutated: %+v", base)
	}
}

func TestMergeNilOverrides(t *testing.T) {
	base := Default()
	merged := Merge(base, nil)
	if merged.Limits != base.Limits || merged.Query != base.Query {
		t.Fatalf("nil overrides should be identity: %+v", merged)
	}
}

func TestMergeClampsOverrides(t *testing.T) {
	bad := -1
	merged := Merge(Default(), &Overrides{MaxTotal: &bad, UpdateIntervalMs: &bad})
	if merged.Limits.MaxTotal != DefaultMaxTotal || merged.Refresh.UpdateIntervalMs != DefaultIntervalMs {
		t.Fatalf("overrides not clamped: %+v", merged)
	}
}

func TestResolveTokenPrecedence(t *testing.T) {
	t.Setenv("PULLWATCH_TEST_TOKEN", "from-env")

	a := AuthConfig{Token: "  explicit  ", TokenEnvVar: "PULLWATCH_TEST_TOKEN"}
	if got := a.ResolveToken(); got != "explicit" {
		t.Fatalf("explicit token should win (trimmed), got %q", got)
	}

	a = AuthConfig{Token: "   ", TokenEnvVar: "PULLWATCH_TEST_TOKEN"}
	if got := a.ResolveToken(); got != "from-env" {
		t.Fatalf("whitespace token should fall back to env, got %q", got)
	}

	a = AuthConfig{TokenEnvVar: "PULLWATCH_UNSET_VAR"}
	if got := a.ResolveToken(); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}
