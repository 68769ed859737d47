package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = ".atomik.yml"

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: ATOMIK_INSIGHT__CACHE_TTL -> insight.cache_ttl.
const EnvPrefix = "ATOMIK_"

// envKey maps an environment variable name to a koanf key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ATOMIK_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// A provider switch without an explicit model picks that provider's default.
	if k.Exists("provider") && !k.Exists("model") {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// DBPath returns the sqlite file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "atomik.db")
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderGoogle:     true,
	ProviderOpenAI:     true,
	ProviderAnthropic:  true,
	ProviderOllama:     true,
	ProviderOpenRouter: true,
	ProviderMiniMax:    true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of google, openai, anthropic, ollama, openrouter, minimax", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	if c.Insight.CacheTTL < 0 {
		return fmt.Errorf("insight.cache_ttl must be non-negative")
	}
	if c.Insight.RateLimitRPM < 0 {
		return fmt.Errorf("insight.rate_limit_rpm must be non-negative")
	}
	if c.Insight.Timeout < 0 {
		return fmt.Errorf("insight.timeout must be non-negative")
	}

	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	switch c.Export.Driver {
	case ExportFS:
		if c.Export.Dir == "" {
			return fmt.Errorf("export.dir is required for the fs driver")
		}
	case ExportS3:
		if c.Export.S3.Bucket == "" {
			return fmt.Errorf("export.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("invalid export.driver %q: must be fs or s3", c.Export.Driver)
	}

	if p := c.Search.Provider; p != "" && !HasEmbeddings(p) {
		return fmt.Errorf("search.provider %q has no embeddings: must be google, openai or ollama", p)
	}

	return nil
}

// HasEmbeddings reports whether provider serves an embedding model.
func HasEmbeddings(provider ProviderType) bool {
	switch provider {
	case ProviderGoogle, ProviderOpenAI, ProviderOllama:
		return true
	}
	return false
}

// SearchIndexPath returns the persisted embedding index inside the data
// directory.
func (c *Config) SearchIndexPath() string {
	return filepath.Join(c.DataDir, "search.gob.gz")
}

// APIKeyEnvVars returns the environment variables consulted for the API
// key of the given provider, in priority order.
func APIKeyEnvVars(provider ProviderType) []string {
	switch provider {
	case ProviderGoogle:
		return []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "API_KEY"}
	case ProviderAnthropic:
		return []string{"ANTHROPIC_API_KEY"}
	case ProviderOpenAI:
		return []string{"OPENAI_API_KEY"}
	case ProviderOpenRouter:
		return []string{"OPENROUTER_API_KEY"}
	case ProviderMiniMax:
		return []string{"MINIMAX_API_KEY"}
	default:
		return nil
	}
}

// HasAPIKey reports whether a credential for provider is in the environment.
// Providers without a key requirement always report true.
func HasAPIKey(provider ProviderType) bool {
	vars := APIKeyEnvVars(provider)
	if len(vars) == 0 {
		return true
	}
	for _, v := range vars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}
