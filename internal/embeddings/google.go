package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const googleEmbedBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// googleBatchLimit is the most requests batchEmbedContents accepts.
const googleBatchLimit = 100

// GoogleEmbedder calls the Gemini batchEmbedContents endpoint.
type GoogleEmbedder struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGoogleEmbedder creates a Gemini embedder. With an empty apiKey the
// client must authenticate itself; see WithHTTPClient.
func NewGoogleEmbedder(apiKey, model string) *GoogleEmbedder {
	return &GoogleEmbedder{
		apiKey:  apiKey,
		model:   model,
		baseURL: googleEmbedBaseURL,
		client:  &http.Client{},
	}
}

// WithHTTPClient replaces the HTTP client, e.g. with an OAuth2 client.
func (e *GoogleEmbedder) WithHTTPClient(c *http.Client) *GoogleEmbedder {
	e.client = c
	return e
}

// WithBaseURL points the embedder at another endpoint.
func (e *GoogleEmbedder) WithBaseURL(base string) *GoogleEmbedder {
	e.baseURL = base
	return e
}

func (e *GoogleEmbedder) Name() string {
	return "google/" + e.model
}

type googleBatchRequest struct {
	Requests []googleEmbedRequest `json:"requests"`
}

type googleEmbedRequest struct {
	Model   string        `json:"model"`
	Content googleContent `json:"content"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
	Error *struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func (e *GoogleEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += googleBatchLimit {
		end := min(start+googleBatchLimit, len(texts))
		vecs, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *GoogleEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	batch := googleBatchRequest{Requests: make([]googleEmbedRequest, len(texts))}
	for i, t := range texts {
		batch.Requests[i] = googleEmbedRequest{
			Model:   "models/" + e.model,
			Content: googleContent{Parts: []googlePart{{Text: t}}},
		}
	}

	hdr := http.Header{}
	if e.apiKey != "" {
		hdr.Set("x-goog-api-key", e.apiKey)
	}
	endpoint := fmt.Sprintf("%s/%s:batchEmbedContents", e.baseURL, url.PathEscape(e.model))

	var reply googleBatchResponse
	status, err := postJSON(ctx, e.client, endpoint, hdr, batch, &reply)
	switch {
	case err != nil:
		return nil, fmt.Errorf("gemini embed: %w", err)
	case reply.Error != nil:
		return nil, fmt.Errorf("gemini embed: %s: %s", reply.Error.Status, reply.Error.Message)
	case status != http.StatusOK:
		return nil, fmt.Errorf("gemini embed: status %d", status)
	}

	if err := checkCount("gemini", len(reply.Embeddings), len(texts)); err != nil {
		return nil, err
	}
	vecs := make([][]float32, len(reply.Embeddings))
	for i, emb := range reply.Embeddings {
		vecs[i] = emb.Values
	}
	return vecs, nil
}
