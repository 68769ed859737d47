package llm

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

// stubProvider records requests and answers with a fixed reply.
type stubProvider struct {
	mu    sync.Mutex
	name  string
	reqs  []CompletionRequest
	reply string
	err   error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return &CompletionResponse{Content: s.reply, Model: "stub"}, nil
}

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reqs)
}

func clearKeys(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "OPENROUTER_API_KEY", "MINIMAX_API_KEY",
		"GOOGLE_API_KEY", "GEMINI_API_KEY", "API_KEY", "GEMINI_BASE_URL",
	} {
		t.Setenv(name, "")
	}
}

func TestHostedProvidersNeedKey(t *testing.T) {
	clearKeys(t)
	for _, name := range []string{"", "google", "anthropic", "openai", "openrouter", "minimax"} {
		if _, err := NewProvider(name, ""); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("%q: want ErrMissingAPIKey, got %v", name, err)
		}
	}
}

func TestNewProviderByName(t *testing.T) {
	clearKeys(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("ANTHROPIC_API_KEY", "k")
	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("OPENROUTER_API_KEY", "k")
	t.Setenv("MINIMAX_API_KEY", "k")
	t.Setenv("OLLAMA_HOST", "")

	for _, name := range []string{"google", "anthropic", "openai", "openrouter", "minimax", "ollama"} {
		p, err := NewProvider(name, "")
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("NewProvider(%q).Name() = %q", name, p.Name())
		}
	}

	if _, err := NewProvider("watson", ""); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

func TestEmptyProviderIsGemini(t *testing.T) {
	clearKeys(t)
	t.Setenv("GEMINI_API_KEY", "k")

	p, err := NewProvider("", "")
	if err != nil {
		t.Fatal(err)
	}
	g, ok := p.(*GoogleProvider)
	if !ok {
		t.Fatalf("got %T, want *GoogleProvider", p)
	}
	if g.model != DefaultModel["google"] || g.baseURL != googleAPIBaseURL {
		t.Errorf("model %q at %q", g.model, g.baseURL)
	}
}

func TestOllamaHost(t *testing.T) {
	for host, want := range map[string]string{
		"":                     "http://localhost:11434",
		"http://gpu-box:11434": "http://gpu-box:11434",
	} {
		t.Setenv("OLLAMA_HOST", host)
		p, err := NewProvider("ollama", "llama3.1")
		if err != nil {
			t.Fatal(err)
		}
		if got := p.(*OllamaProvider).baseURL; got != want {
			t.Errorf("OLLAMA_HOST=%q: base URL %q, want %q", host, got, want)
		}
	}
}

func TestGoogleAPIKeyPrecedence(t *testing.T) {
	clearKeys(t)
	steps := []struct{ env, value, want string }{
		{"API_KEY", "generic", "generic"},
		{"GEMINI_API_KEY", "gemini", "gemini"},
		{"GOOGLE_API_KEY", "google", "google"},
	}
	if GoogleAPIKey() != "" {
		t.Fatal("expected no key with a clean environment")
	}
	for _, s := range steps {
		t.Setenv(s.env, s.value)
		if got := GoogleAPIKey(); got != s.want {
			t.Errorf("after setting %s: got %q, want %q", s.env, got, s.want)
		}
	}
}

func TestNewProviderWithKey(t *testing.T) {
	clearKeys(t)

	p, err := NewProviderWithKey("anthropic", "", "stored")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "anthropic" {
		t.Errorf("got %q", p.Name())
	}
	if _, err := NewProviderWithKey("openai", "", ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("want ErrMissingAPIKey, got %v", err)
	}

	if EnvAPIKey("openai") != "" {
		t.Error("expected no key in the environment")
	}
	t.Setenv("OPENAI_API_KEY", "env")
	if EnvAPIKey("openai") != "env" {
		t.Error("expected the environment key")
	}
	if EnvAPIKey("ollama") != "" {
		t.Error("ollama has no key")
	}
}

func TestRateLimiter(t *testing.T) {
	stub := &stubProvider{name: "stub", reply: "ok"}
	if NewRateLimitedProvider(stub, 0) != Provider(stub) {
		t.Error("rpm 0 should leave the provider unwrapped")
	}

	rl := NewRateLimitedProvider(stub, 2)
	if rl.Name() != "stub" {
		t.Errorf("Name() = %q", rl.Name())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	req := CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hydrogen"}}}

	for i := range 2 {
		resp, err := rl.Complete(ctx, req)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if resp.Content != "ok" {
			t.Errorf("call %d: content %q", i, resp.Content)
		}
	}
	// The bucket is empty and refills at one token every 30s.
	if _, err := rl.Complete(ctx, req); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("third call: want deadline exceeded, got %v", err)
	}
	if stub.calls() != 2 {
		t.Errorf("provider saw %d calls, want 2", stub.calls())
	}
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		model   string
		in, out int
		want    float64
	}{
		{"claude-sonnet-4-5-20250929", 1_000_000, 1_000_000, 18.0},
		{"gemini-2.5-flash", 1_000_000, 0, 0.30},
		{"google/gemini-2.5-flash", 0, 1_000_000, 2.50},
		{"gpt-4o-mini", 2_000_000, 1_000_000, 0.90},
		{"llama3.1", 1_000_000, 1_000_000, 0},
	}
	for _, tt := range tests {
		if got := EstimateCost(tt.model, tt.in, tt.out); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("EstimateCost(%q) = %f, want %f", tt.model, got, tt.want)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	for text, want := range map[string]int{
		"":                                  0,
		"Fe":                                1,
		"Iron is element 26.":               4,
		"Carbon forms four covalent bonds.": 8,
	} {
		if got := EstimateTokens(text); got != want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", text, got, want)
		}
	}
}
