package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider speaks the Chat Completions protocol through go-openai. The
// same type serves OpenRouter and MiniMax, which only differ in base URL.
type OpenAIProvider struct {
	client *openai.Client
	name   string
	model  string
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{client: openai.NewClient(apiKey), name: "openai", model: model}
}

// NewOpenAICompatibleProvider points the OpenAI client at baseURL and
// reports itself as name.
func NewOpenAICompatibleProvider(name, apiKey, model, baseURL string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), name: name, model: model}
}

func (p *OpenAIProvider) Name() string { return p.name }

// responseFormat maps the request's output expectations onto the
// response_format field, or nil for free text.
func responseFormat(req CompletionRequest) *openai.ChatCompletionResponseFormat {
	if req.Schema != nil {
		return &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "element_insight",
				Schema: schemaMarshaler{req.Schema},
				Strict: true,
			},
		}
	}
	if req.JSONMode {
		return &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}
	return nil
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	chat := openai.ChatCompletionRequest{
		Model:          pick(req.Model, p.model),
		MaxTokens:      pick(req.MaxTokens, 1024),
		Temperature:    float32(req.Temperature),
		ResponseFormat: responseFormat(req),
	}
	for _, m := range req.Messages {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, err
	}

	out := &CompletionResponse{
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
		out.FinishReason = string(resp.Choices[0].FinishReason)
	}
	return out, nil
}
