package llm

import "strings"

// price is USD per million tokens.
type price struct {
	in, out float64
}

// prices covers the default model of every provider plus the common
// alternatives people configure. Ollama runs locally and is free.
var prices = map[string]price{
	"gemini-2.5-flash":      {0.30, 2.50},
	"gemini-2.5-flash-lite": {0.10, 0.40},
	"gemini-2.5-pro":        {1.25, 10.00},
	"gemini-2.0-flash":      {0.10, 0.40},

	"claude-sonnet-4-5-20250929": {3.00, 15.00},
	"claude-haiku-4-5-20251001":  {0.80, 4.00},

	"gpt-4o":       {2.50, 10.00},
	"gpt-4o-mini":  {0.15, 0.60},
	"gpt-4.1-mini": {0.40, 1.60},

	"MiniMax-M1": {0.40, 2.20},
}

// lookupPrice resolves model, accepting OpenRouter's "vendor/model" form.
func lookupPrice(model string) (price, bool) {
	if p, ok := prices[model]; ok {
		return p, true
	}
	if i := strings.LastIndexByte(model, '/'); i >= 0 {
		p, ok := prices[model[i+1:]]
		return p, ok
	}
	return price{}, false
}

// EstimateCost returns the USD cost of a call, or 0 for models without a
// known price.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := lookupPrice(model)
	if !ok {
		return 0
	}
	return (float64(inputTokens)*p.in + float64(outputTokens)*p.out) / 1e6
}

// EstimateTokens approximates a token count as one token per four bytes,
// never returning zero for non-empty text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return max(len(text)/4, 1)
}
