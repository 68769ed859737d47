package embeddings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// OllamaEmbedder embeds through a local Ollama server's /api/embed, which
// accepts the whole batch in one request.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaEmbedder targets baseURL, or the default local port when empty.
func NewOllamaEmbedder(model, baseURL string) *OllamaEmbedder {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaEmbedder{baseURL: strings.TrimRight(baseURL, "/"), model: model, client: &http.Client{}}
}

func (e *OllamaEmbedder) Name() string { return "ollama/" + e.model }

type ollamaEmbedBody struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedReply struct {
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error"`
}

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var reply ollamaEmbedReply
	status, err := postJSON(ctx, e.client, e.baseURL+"/api/embed", nil, ollamaEmbedBody{Model: e.model, Input: texts}, &reply)
	switch {
	case err != nil:
		return nil, fmt.Errorf("ollama embed: %w", err)
	case reply.Error != "":
		return nil, fmt.Errorf("ollama embed: %w", errors.New(reply.Error))
	case status != http.StatusOK:
		return nil, fmt.Errorf("ollama embed: status %d", status)
	}
	if err := checkCount("ollama", len(reply.Embeddings), len(texts)); err != nil {
		return nil, err
	}
	return reply.Embeddings, nil
}
