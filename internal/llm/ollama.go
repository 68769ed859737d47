package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// OllamaProvider runs completions against a local Ollama server's chat
// endpoint. No key is needed.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	return &OllamaProvider{baseURL: baseURL, model: model, client: &http.Client{}}
}

func (p *OllamaProvider) Name() string { return "ollama" }

type ollamaTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChat struct {
	Model    string       `json:"model"`
	Messages []ollamaTurn `json:"messages"`
	Stream   bool         `json:"stream"`
	// Format is "json" or a JSON schema object.
	Format  any `json:"format,omitempty"`
	Options struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options"`
}

type ollamaReply struct {
	Model           string     `json:"model"`
	Message         ollamaTurn `json:"message"`
	DoneReason      string     `json:"done_reason"`
	PromptEvalCount int        `json:"prompt_eval_count"`
	EvalCount       int        `json:"eval_count"`
	Error           string     `json:"error"`
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	chat := ollamaChat{Model: pick(req.Model, p.model)}
	chat.Options.Temperature = req.Temperature
	chat.Options.NumPredict = req.MaxTokens
	for _, m := range req.Messages {
		chat.Messages = append(chat.Messages, ollamaTurn{Role: string(m.Role), Content: m.Content})
	}
	if req.Schema != nil {
		chat.Format = jsonSchema(req.Schema)
	} else if req.JSONMode {
		chat.Format = "json"
	}

	var reply ollamaReply
	c := call{provider: "ollama", client: p.client, endpoint: strings.TrimRight(p.baseURL, "/") + "/api/chat"}
	err := c.do(ctx, chat, &reply, func() error {
		if reply.Error != "" {
			return errors.New(reply.Error)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CompletionResponse{
		Content:      reply.Message.Content,
		InputTokens:  reply.PromptEvalCount,
		OutputTokens: reply.EvalCount,
		Model:        reply.Model,
		FinishReason: reply.DoneReason,
	}, nil
}
