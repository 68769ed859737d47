package config

import (
	"time"

	"github.com/ziadkadry99/atomik/internal/layout"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderGoogle     ProviderType = "google"
	ProviderOpenAI     ProviderType = "openai"
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderOllama     ProviderType = "ollama"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderMiniMax    ProviderType = "minimax"
)

// ExportDriver selects where exported diagrams are written.
type ExportDriver string

const (
	ExportFS ExportDriver = "fs"
	ExportS3 ExportDriver = "s3"
)

// Config is the top-level atomik configuration, corresponding to .atomik.yml.
type Config struct {
	Provider       ProviderType   `yaml:"provider" koanf:"provider"`
	Model          string         `yaml:"model" koanf:"model"`
	DataDir        string         `yaml:"data_dir" koanf:"data_dir"`
	Port           int            `yaml:"port" koanf:"port"`
	DefaultElement string         `yaml:"default_element" koanf:"default_element"`
	Insight        InsightConfig  `yaml:"insight" koanf:"insight"`
	Layout         layout.Options `yaml:"layout" koanf:"layout"`
	Export         ExportConfig   `yaml:"export" koanf:"export"`
	Search         SearchConfig   `yaml:"search" koanf:"search"`
}

// InsightConfig controls the AI insight fetcher.
type InsightConfig struct {
	CacheTTL     time.Duration `yaml:"cache_ttl" koanf:"cache_ttl"`
	RateLimitRPM int           `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	// Timeout bounds a single provider call; zero means none.
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
}

// ExportConfig holds settings for the export command.
type ExportConfig struct {
	Driver ExportDriver `yaml:"driver" koanf:"driver"`
	Dir    string       `yaml:"dir" koanf:"dir"`
	S3     S3Config     `yaml:"s3" koanf:"s3"`
}

// S3Config points the S3 export driver at a bucket.
type S3Config struct {
	Bucket         string `yaml:"bucket" koanf:"bucket"`
	Prefix         string `yaml:"prefix" koanf:"prefix"`
	Region         string `yaml:"region" koanf:"region"`
	Endpoint       string `yaml:"endpoint,omitempty" koanf:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style" koanf:"force_path_style"`
}

// SearchConfig controls semantic element search. Only google, openai and
// ollama serve embeddings.
type SearchConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
	// Provider defaults to the insight provider.
	Provider ProviderType `yaml:"provider,omitempty" koanf:"provider"`
	Model    string       `yaml:"model,omitempty" koanf:"model"`
}

// EmbeddingProvider is Search.Provider, or Provider when unset.
func (c *Config) EmbeddingProvider() ProviderType {
	if c.Search.Provider != "" {
		return c.Search.Provider
	}
	return c.Provider
}
