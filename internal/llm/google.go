package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const googleAPIBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GoogleProvider calls Gemini's generateContent endpoint. It authenticates
// either with an API key header or through an HTTP client that injects
// OAuth2 bearer tokens.
type GoogleProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGoogleProvider(apiKey, model string) *GoogleProvider {
	return &GoogleProvider{apiKey: apiKey, model: model, baseURL: googleAPIBaseURL, client: &http.Client{}}
}

// NewGoogleOAuthProvider creates a Gemini provider whose requests go through
// client, typically an oauth2 client.
func NewGoogleOAuthProvider(client *http.Client, model string) *GoogleProvider {
	p := NewGoogleProvider("", pick(model, DefaultModel["google"]))
	p.client = client
	return p
}

// WithBaseURL points the provider at another endpoint, e.g. a proxy.
func (p *GoogleProvider) WithBaseURL(base string) *GoogleProvider {
	p.baseURL = base
	return p
}

func (p *GoogleProvider) Name() string { return "google" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGeneration struct {
	Temperature      float64        `json:"temperature"`
	MaxOutputTokens  int            `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  geminiGeneration `json:"generationConfig"`
}

type geminiReply struct {
	ModelVersion string `json:"modelVersion"`
	Candidates   []struct {
		Content      *geminiContent `json:"content"`
		FinishReason string         `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// geminiRole maps conversation roles onto Gemini's user/model pair.
func geminiRole(r Role) string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}

func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := pick(req.Model, p.model)

	body := geminiRequest{
		GenerationConfig: geminiGeneration{Temperature: req.Temperature, MaxOutputTokens: req.MaxTokens},
	}
	var system []geminiPart
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			system = append(system, geminiPart{Text: m.Content})
			continue
		}
		body.Contents = append(body.Contents, geminiContent{Role: geminiRole(m.Role), Parts: []geminiPart{{Text: m.Content}}})
	}
	if len(body.Contents) == 0 {
		return nil, errors.New("google: request has no user content")
	}
	if len(system) > 0 {
		body.SystemInstruction = &geminiContent{Parts: system}
	}
	if req.wantsJSON() {
		body.GenerationConfig.ResponseMIMEType = "application/json"
		body.GenerationConfig.ResponseSchema = geminiSchema(req.Schema)
	}

	hdr := http.Header{}
	if p.apiKey != "" {
		hdr.Set("x-goog-api-key", p.apiKey)
	}
	endpoint := fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(p.baseURL, "/"), url.PathEscape(model))

	var reply geminiReply
	err := call{provider: "google", client: p.client, endpoint: endpoint, header: hdr}.do(ctx, body, &reply, func() error {
		if reply.Error != nil {
			return fmt.Errorf("%s: %s", reply.Error.Status, reply.Error.Message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &CompletionResponse{
		Model:        pick(reply.ModelVersion, model),
		InputTokens:  reply.UsageMetadata.PromptTokenCount,
		OutputTokens: reply.UsageMetadata.CandidatesTokenCount,
	}
	if len(reply.Candidates) > 0 {
		first := reply.Candidates[0]
		out.FinishReason = first.FinishReason
		if first.Content != nil {
			var text strings.Builder
			for _, part := range first.Content.Parts {
				text.WriteString(part.Text)
			}
			out.Content = text.String()
		}
	}
	return out, nil
}
