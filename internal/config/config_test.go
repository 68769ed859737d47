package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected default provider %q, got %q", ProviderGoogle, cfg.Provider)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("expected default model gemini-2.5-flash, got %q", cfg.Model)
	}
	if cfg.DefaultElement != "C" {
		t.Errorf("expected default element C, got %q", cfg.DefaultElement)
	}
	if cfg.Layout.OuterBound != 180 {
		t.Errorf("expected layout defaults, got outer_bound %g", cfg.Layout.OuterBound)
	}
	if cfg.Export.Driver != ExportFS {
		t.Errorf("expected fs export driver, got %q", cfg.Export.Driver)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.atomik.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o"
	original.Port = 9090
	original.DefaultElement = "Fe"
	original.Insight.CacheTTL = 90 * time.Minute
	original.Insight.Timeout = 15 * time.Second
	original.Layout.OuterBound = 200
	original.Export.Driver = ExportS3
	original.Export.S3.Bucket = "atoms"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Port != 9090 {
		t.Errorf("port: got %d, want 9090", loaded.Port)
	}
	if loaded.DefaultElement != "Fe" {
		t.Errorf("default_element: got %q, want Fe", loaded.DefaultElement)
	}
	if loaded.Insight.CacheTTL != 90*time.Minute {
		t.Errorf("insight.cache_ttl: got %v, want 1h30m", loaded.Insight.CacheTTL)
	}
	if loaded.Insight.Timeout != 15*time.Second {
		t.Errorf("insight.timeout: got %v, want 15s", loaded.Insight.Timeout)
	}
	if loaded.Layout.OuterBound != 200 {
		t.Errorf("layout.outer_bound: got %g, want 200", loaded.Layout.OuterBound)
	}
	if loaded.Layout.MaxNucleonRadius != original.Layout.MaxNucleonRadius {
		t.Errorf("layout.max_nucleon_radius: got %g", loaded.Layout.MaxNucleonRadius)
	}
	if loaded.Export.Driver != ExportS3 || loaded.Export.S3.Bucket != "atoms" {
		t.Errorf("export: got %+v", loaded.Export)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("ATOMIK_PORT", "7000")
	t.Setenv("ATOMIK_INSIGHT__CACHE_TTL", "2h")
	t.Setenv("ATOMIK_LAYOUT__BASE_DURATION", "3.5")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Port != 7000 {
		t.Errorf("port override failed: got %d", loaded.Port)
	}
	if loaded.Insight.CacheTTL != 2*time.Hour {
		t.Errorf("nested duration override failed: got %v", loaded.Insight.CacheTTL)
	}
	if loaded.Layout.BaseDuration != 3.5 {
		t.Errorf("layout override failed: got %g", loaded.Layout.BaseDuration)
	}
}

func TestLoadRejectsNucleonRadiusOutsideFixedBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yml")

	tests := []struct {
		env, value string
	}{
		{"ATOMIK_LAYOUT__MAX_NUCLEON_RADIUS", "30"},
		{"ATOMIK_LAYOUT__MIN_NUCLEON_RADIUS", "0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if err := loaded.Validate(); err == nil {
				t.Errorf("%s=%s: expected validation error", tt.env, tt.value)
			}
		})
	}

	t.Setenv("ATOMIK_LAYOUT__MIN_NUCLEON_RADIUS", "3")
	t.Setenv("ATOMIK_LAYOUT__MAX_NUCLEON_RADIUS", "10")
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("narrowed bounds should be valid: %v", err)
	}
}

func TestLoadProviderSwitchPicksModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yml")
	t.Setenv("ATOMIK_PROVIDER", "anthropic")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Model != DefaultModel(ProviderAnthropic) {
		t.Errorf("expected %q, got %q", DefaultModel(ProviderAnthropic), loaded.Model)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"invalid provider", func(c *Config) { c.Provider = "invalid" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"huge port", func(c *Config) { c.Port = 70000 }},
		{"negative ttl", func(c *Config) { c.Insight.CacheTTL = -time.Second }},
		{"negative rpm", func(c *Config) { c.Insight.RateLimitRPM = -1 }},
		{"negative timeout", func(c *Config) { c.Insight.Timeout = -time.Second }},
		{"bad layout", func(c *Config) { c.Layout.OuterBound = 10 }},
		{"unknown driver", func(c *Config) { c.Export.Driver = "ftp" }},
		{"fs without dir", func(c *Config) { c.Export.Dir = "" }},
		{"s3 without bucket", func(c *Config) { c.Export.Driver = ExportS3 }},
		{"search without embeddings", func(c *Config) { c.Search.Provider = ProviderAnthropic }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig should be valid, got: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAPIKeyEnvVars(t *testing.T) {
	if got := APIKeyEnvVars(ProviderGoogle); len(got) != 3 || got[0] != "GOOGLE_API_KEY" {
		t.Errorf("unexpected google vars %v", got)
	}
	if got := APIKeyEnvVars(ProviderOllama); got != nil {
		t.Errorf("ollama should need no key, got %v", got)
	}
}

func TestHasAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	if HasAPIKey(ProviderGoogle) {
		t.Error("expected no google key")
	}
	t.Setenv("API_KEY", "x")
	if !HasAPIKey(ProviderGoogle) {
		t.Error("expected API_KEY to count for google")
	}
	if !HasAPIKey(ProviderOllama) {
		t.Error("ollama never needs a key")
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"8080", 8080, false},
		{" 443 ", 443, false},
		{"0", 0, true},
		{"65536", 0, true},
		{"http", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePort(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parsePort(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestDBPathAndAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/tmp/atomik"
	if got := cfg.DBPath(); got != filepath.Join("/tmp/atomik", "atomik.db") {
		t.Errorf("DBPath = %q", got)
	}
	if got := cfg.Addr(); got != ":8080" {
		t.Errorf("Addr = %q", got)
	}
}

func TestEmbeddingProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderAnthropic
	if cfg.EmbeddingProvider() != ProviderAnthropic || HasEmbeddings(cfg.EmbeddingProvider()) {
		t.Error("expected search to inherit anthropic, which has no embeddings")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("inherited provider without embeddings should still validate: %v", err)
	}

	cfg.Search.Provider = ProviderOllama
	if cfg.EmbeddingProvider() != ProviderOllama {
		t.Errorf("expected explicit search provider, got %q", cfg.EmbeddingProvider())
	}
	if got := cfg.SearchIndexPath(); got != filepath.Join(cfg.DataDir, "search.gob.gz") {
		t.Errorf("SearchIndexPath = %q", got)
	}
}
