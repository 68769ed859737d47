package llm

import (
	"errors"
	"fmt"
	"os"
)

// ErrMissingAPIKey is returned when a hosted provider has no credential
// in the environment.
var ErrMissingAPIKey = errors.New("API key is not set")

// DefaultModel is used when a provider is chosen without a model.
var DefaultModel = map[string]string{
	"google":     "gemini-2.5-flash",
	"openai":     "gpt-4o-mini",
	"anthropic":  "claude-haiku-4-5-20251001",
	"ollama":     "llama3.1",
	"openrouter": "google/gemini-2.5-flash",
	"minimax":    "MiniMax-M1",
}

// googleKeyEnv lists the variables consulted for a Gemini key, in order.
var googleKeyEnv = []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "API_KEY"}

// keyEnv names the key variable of every other hosted provider.
var keyEnv = map[string]string{
	"anthropic":  "ANTHROPIC_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
	"minimax":    "MINIMAX_API_KEY",
}

// GoogleAPIKey returns the first Gemini key found in the environment.
func GoogleAPIKey() string {
	for _, name := range googleKeyEnv {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// EnvAPIKey returns the key for providerType from the environment, or ""
// when it is unset or the provider needs none.
func EnvAPIKey(providerType string) string {
	if providerType == "google" || providerType == "" {
		return GoogleAPIKey()
	}
	if name, ok := keyEnv[providerType]; ok {
		return os.Getenv(name)
	}
	return ""
}

// NewProvider creates a new LLM provider based on the given provider type and model.
// Supported provider types: "google", "openai", "anthropic", "ollama",
// "openrouter", "minimax". An empty model selects DefaultModel.
func NewProvider(providerType string, model string) (Provider, error) {
	return NewProviderWithKey(providerType, model, EnvAPIKey(providerType))
}

// NewProviderWithKey is NewProvider with the credential supplied by the
// caller instead of the environment. Ollama ignores apiKey.
func NewProviderWithKey(providerType, model, apiKey string) (Provider, error) {
	if providerType == "" {
		providerType = "google"
	}
	if model == "" {
		model = DefaultModel[providerType]
	}

	if providerType != "ollama" && apiKey == "" {
		if _, known := DefaultModel[providerType]; !known {
			return nil, fmt.Errorf("unsupported provider type: %s", providerType)
		}
		name := keyEnv[providerType]
		if providerType == "google" {
			name = googleKeyEnv[0]
		}
		return nil, fmt.Errorf("%s: %w", name, ErrMissingAPIKey)
	}

	switch providerType {
	case "google":
		p := NewGoogleProvider(apiKey, model)
		if base := os.Getenv("GEMINI_BASE_URL"); base != "" {
			p.WithBaseURL(base)
		}
		return p, nil

	case "anthropic":
		return NewAnthropicProvider(apiKey, model), nil

	case "openai":
		return NewOpenAIProvider(apiKey, model), nil

	case "openrouter":
		return NewOpenAICompatibleProvider("openrouter", apiKey, model, "https://openrouter.ai/api/v1"), nil

	case "minimax":
		return NewOpenAICompatibleProvider("minimax", apiKey, model, "https://api.minimax.io/v1"), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
