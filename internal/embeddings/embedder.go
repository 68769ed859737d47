// Package embeddings turns element descriptions into vectors for semantic
// search.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Embedder generates text embeddings.
type Embedder interface {
	// Embed returns one vector per text, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name identifies the provider and model. Vectors from embedders with
	// different names are not comparable.
	Name() string
}

// ErrUnsupported is returned for providers without an embedding model.
var ErrUnsupported = errors.New("provider has no embedding model")

// DefaultModel is used when a provider is chosen without a model.
var DefaultModel = map[string]string{
	"google": "gemini-embedding-001",
	"openai": "text-embedding-3-small",
	"ollama": "nomic-embed-text",
}

// New creates an embedder for provider. apiKey is ignored by ollama.
func New(provider, model, apiKey string) (Embedder, error) {
	def, ok := DefaultModel[provider]
	if !ok {
		return nil, fmt.Errorf("%s: %w", provider, ErrUnsupported)
	}
	if model == "" {
		model = def
	}

	switch provider {
	case "google":
		return NewGoogleEmbedder(apiKey, model), nil
	case "openai":
		return NewOpenAIEmbedder(apiKey, model), nil
	default:
		return NewOllamaEmbedder(model, os.Getenv("OLLAMA_HOST")), nil
	}
}

func checkCount(provider string, got, want int) error {
	if got != want {
		return fmt.Errorf("%s returned %d embeddings, expected %d", provider, got, want)
	}
	return nil
}
