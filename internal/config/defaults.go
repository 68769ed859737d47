package config

import (
	"time"

	"github.com/ziadkadry99/atomik/internal/layout"
)

// defaultModels maps each provider to the model used when none is set.
var defaultModels = map[ProviderType]string{
	ProviderGoogle:     "gemini-2.5-flash",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderAnthropic:  "claude-haiku-4-5-20251001",
	ProviderOllama:     "llama3.1",
	ProviderOpenRouter: "google/gemini-2.5-flash",
	ProviderMiniMax:    "MiniMax-M1",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderGoogle,
		Model:          defaultModels[ProviderGoogle],
		DataDir:        ".atomik",
		Port:           8080,
		DefaultElement: "C",
		Insight: InsightConfig{
			CacheTTL:     7 * 24 * time.Hour,
			RateLimitRPM: 15,
		},
		Layout: layout.DefaultOptions(),
		Export: ExportConfig{
			Driver: ExportFS,
			Dir:    "atoms",
			S3: S3Config{
				Prefix: "atoms/",
				Region: "us-east-1",
			},
		},
		Search: SearchConfig{Enabled: true},
	}
}

// DefaultModel returns the default model for provider, or "" if unknown.
func DefaultModel(provider ProviderType) string {
	return defaultModels[provider]
}
