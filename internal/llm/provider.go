// Package llm holds the chat-completion clients the insight fetcher uses.
// Every backend satisfies Provider; NewProvider picks one by name.
package llm

import "context"

// Provider turns a conversation into one completion.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name is the provider key used in config, e.g. "google".
	Name() string
}
