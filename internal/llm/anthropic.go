package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
	// Messages API requires max_tokens; an insight card fits well inside it.
	anthropicMaxTokens = 1024
)

// AnthropicProvider talks to the Claude Messages API. Claude has no
// response-format switch here, so structured requests carry the schema as
// an instruction in the system prompt.
type AnthropicProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	return &AnthropicProvider{apiKey: apiKey, model: model, baseURL: anthropicEndpoint, client: &http.Client{}}
}

// WithBaseURL overrides the Messages endpoint.
func (p *AnthropicProvider) WithBaseURL(u string) *AnthropicProvider {
	p.baseURL = u
	return p
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

type claudeTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
	System      string       `json:"system,omitempty"`
	Messages    []claudeTurn `json:"messages"`
}

type claudeReply struct {
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var system []string
	var turns []claudeTurn
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, claudeTurn{Role: string(m.Role), Content: m.Content})
	}
	switch {
	case req.Schema != nil:
		system = append(system, schemaInstruction(req.Schema))
	case req.JSONMode:
		system = append(system, "Respond with a single JSON object.")
	}

	body := claudeRequest{
		Model:       pick(req.Model, p.model),
		MaxTokens:   pick(req.MaxTokens, anthropicMaxTokens),
		Temperature: req.Temperature,
		System:      strings.Join(system, "\n\n"),
		Messages:    turns,
	}

	hdr := http.Header{}
	hdr.Set("x-api-key", p.apiKey)
	hdr.Set("anthropic-version", anthropicVersion)

	var reply claudeReply
	err := call{provider: "anthropic", client: p.client, endpoint: p.baseURL, header: hdr}.do(ctx, body, &reply, func() error {
		if reply.Error != nil {
			return fmt.Errorf("%s: %s", reply.Error.Type, reply.Error.Message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range reply.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return &CompletionResponse{
		Content:      text.String(),
		InputTokens:  reply.Usage.InputTokens,
		OutputTokens: reply.Usage.OutputTokens,
		Model:        reply.Model,
		FinishReason: reply.StopReason,
	}, nil
}
