package insight

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ziadkadry99/atomik/internal/db"
	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/llm"
)

// fakeProvider returns canned content and records requests.
type fakeProvider struct {
	mu      sync.Mutex
	content string
	err     error
	calls   []llm.CompletionRequest
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.content}, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func carbon() element.Record {
	return element.Record{
		AtomicNumber: 6, Symbol: "C", Name: "Carbon", AtomicMass: 12.011,
		Category: element.CategoryReactiveNonmetal, Group: 14, Period: 2, Block: element.BlockP,
		ElectronConfiguration: "[He] 2s2 2p2", Shells: []int{2, 4},
	}
}

const goodJSON = `{"funFact":"Diamond and graphite are both carbon.","realWorldUse":"Steel making.","bondingBehavior":"Forms four covalent bonds."}`

func TestFetchWithoutProviderReturnsMissingKeyFallback(t *testing.T) {
	f := NewFetcher(nil)
	got := f.FetchResult(context.Background(), carbon())
	if got.Insight != MissingKeyFallback() {
		t.Errorf("got %+v, want missing-key fallback", got.Insight)
	}
	if got.Outcome != OutcomeMissingKey || !got.Fallback() {
		t.Errorf("unexpected outcome %q", got.Outcome)
	}
	if got.Insight.BondingBehavior != "Unknown" {
		t.Errorf("BondingBehavior = %q, want Unknown", got.Insight.BondingBehavior)
	}
}

func TestFetchSuccess(t *testing.T) {
	p := &fakeProvider{content: goodJSON}
	f := NewFetcher(p, WithModel("gemini-2.5-flash"))

	got := f.FetchResult(context.Background(), carbon())
	if got.Outcome != OutcomeLive {
		t.Fatalf("Outcome = %q, want live", got.Outcome)
	}
	if got.Insight.BondingBehavior != "Forms four covalent bonds." {
		t.Errorf("unexpected insight %+v", got.Insight)
	}

	req := p.calls[0]
	if req.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", req.Model)
	}
	if req.Schema == nil || len(req.Schema.Required) != 3 {
		t.Errorf("expected schema with three required fields, got %+v", req.Schema)
	}
	if !strings.Contains(req.Messages[0].Content, "Carbon (C)") {
		t.Errorf("prompt does not name the element: %q", req.Messages[0].Content)
	}
	if !strings.Contains(req.Messages[0].Content, "Grade 11") {
		t.Errorf("prompt does not target the audience: %q", req.Messages[0].Content)
	}
}

func TestFetchFailuresReturnErrorFallback(t *testing.T) {
	cases := map[string]*fakeProvider{
		"transport":     {err: errors.New("connection refused")},
		"empty":         {content: "   "},
		"not json":      {content: "Carbon is great"},
		"missing field": {content: `{"funFact":"x","realWorldUse":"y"}`},
		"wrong type":    {content: `{"funFact":1,"realWorldUse":"y","bondingBehavior":"z"}`},
	}
	want := Insight{
		FunFact:         "Could not load AI data for Carbon.",
		RealWorldUse:    "Information unavailable.",
		BondingBehavior: "Information unavailable.",
	}

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			got := NewFetcher(p).FetchResult(context.Background(), carbon())
			if got.Insight != want {
				t.Errorf("got %+v, want %+v", got.Insight, want)
			}
			if got.Outcome != OutcomeError {
				t.Errorf("Outcome = %q, want error", got.Outcome)
			}
		})
	}
}

func TestFetchCancelledContextFallsBack(t *testing.T) {
	p := &fakeProvider{err: context.Canceled}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := NewFetcher(p).Fetch(ctx, carbon()); got != ErrorFallback(carbon()) {
		t.Errorf("got %+v, want error fallback", got)
	}
}

func TestParseToleratesCodeFence(t *testing.T) {
	in, err := Parse("```json\n" + goodJSON + "\n```")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if in.RealWorldUse != "Steel making." {
		t.Errorf("unexpected insight %+v", in)
	}
}

func TestFetchUsesCacheAndSkipsFallbacks(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()
	cache := NewCache(database, time.Hour)
	ctx := context.Background()

	broken := &fakeProvider{err: errors.New("boom")}
	NewFetcher(broken, WithCache(cache)).Fetch(ctx, carbon())
	if n, _ := cache.Len(ctx); n != 0 {
		t.Fatalf("fallback was cached (%d rows)", n)
	}

	p := &fakeProvider{content: goodJSON}
	var outcomes []Outcome
	f := NewFetcher(p, WithCache(cache), WithObserver(func(o Outcome, _ time.Duration) {
		outcomes = append(outcomes, o)
	}))

	first := f.FetchResult(ctx, carbon())
	second := f.FetchResult(ctx, carbon())
	if first.Outcome != OutcomeLive || second.Outcome != OutcomeCached {
		t.Errorf("outcomes = %q, %q; want live, cached", first.Outcome, second.Outcome)
	}
	if second.Insight != first.Insight {
		t.Errorf("cached insight differs: %+v vs %+v", second.Insight, first.Insight)
	}
	if p.callCount() != 1 {
		t.Errorf("provider called %d times, want 1", p.callCount())
	}
	if len(outcomes) != 2 {
		t.Errorf("observer called %d times, want 2", len(outcomes))
	}
}

func TestFetchTimeout(t *testing.T) {
	slow := providerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	start := time.Now()
	got := NewFetcher(slow, WithTimeout(20*time.Millisecond)).FetchResult(context.Background(), carbon())
	if got.Outcome != OutcomeError {
		t.Errorf("Outcome = %q, want error", got.Outcome)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout was not applied")
	}
}

// providerFunc adapts a blocking function to llm.Provider.
type providerFunc func(ctx context.Context) error

func (providerFunc) Name() string { return "func" }

func (f providerFunc) Complete(ctx context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := f(ctx); err != nil {
		return nil, err
	}
	return &llm.CompletionResponse{Content: goodJSON}, nil
}
