package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/llm"
)

// Outcome says where an insight came from.
type Outcome string

const (
	OutcomeLive       Outcome = "live"
	OutcomeCached     Outcome = "cached"
	OutcomeMissingKey Outcome = "missing_key"
	OutcomeError      Outcome = "error"
)

// Result is an insight plus how it was obtained.
type Result struct {
	Insight Insight
	Outcome Outcome
}

// Fallback reports whether the insight is one of the fixed placeholders.
func (r Result) Fallback() bool {
	return r.Outcome == OutcomeMissingKey || r.Outcome == OutcomeError
}

// Source produces an insight for an element. It never fails.
type Source interface {
	Fetch(ctx context.Context, rec element.Record) Insight
}

// Fetcher asks an LLM provider for insights, degrading to fixed fallbacks.
type Fetcher struct {
	provider llm.Provider
	model    string
	cache    *Cache
	timeout  time.Duration
	observe  func(Outcome, time.Duration)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithCache stores successful insights in c and serves hits from it.
func WithCache(c *Cache) Option {
	return func(f *Fetcher) { f.cache = c }
}

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(f *Fetcher) { f.model = model }
}

// WithTimeout bounds each provider call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithObserver is called once per fetch with its outcome and duration.
func WithObserver(fn func(Outcome, time.Duration)) Option {
	return func(f *Fetcher) { f.observe = fn }
}

// NewFetcher creates a Fetcher. A nil provider means no credential is
// configured and every fetch returns MissingKeyFallback.
func NewFetcher(provider llm.Provider, opts ...Option) *Fetcher {
	f := &Fetcher{provider: provider}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Configured reports whether a provider credential was available.
func (f *Fetcher) Configured() bool { return f.provider != nil }

// Model is the model name insights are requested from and cached under.
func (f *Fetcher) Model() string { return f.model }

// Fetch implements Source.
func (f *Fetcher) Fetch(ctx context.Context, rec element.Record) Insight {
	return f.FetchResult(ctx, rec).Insight
}

// FetchResult is Fetch with the outcome attached.
func (f *Fetcher) FetchResult(ctx context.Context, rec element.Record) Result {
	start := time.Now()
	res := f.fetch(ctx, rec)
	if f.observe != nil {
		f.observe(res.Outcome, time.Since(start))
	}
	return res
}

func (f *Fetcher) fetch(ctx context.Context, rec element.Record) Result {
	if f.provider == nil {
		return Result{Insight: MissingKeyFallback(), Outcome: OutcomeMissingKey}
	}

	if f.cache != nil {
		cached, ok, err := f.cache.Get(ctx, rec.AtomicNumber, f.model)
		if err != nil {
			log.Printf("insight: cache lookup for %s: %v", rec.Symbol, err)
		} else if ok {
			return Result{Insight: cached, Outcome: OutcomeCached}
		}
	}

	in, err := f.request(ctx, rec)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("insight: request for %s cancelled", rec.Symbol)
		} else {
			log.Printf("insight: request for %s failed: %v", rec.Symbol, err)
		}
		return Result{Insight: ErrorFallback(rec), Outcome: OutcomeError}
	}

	if f.cache != nil {
		if err := f.cache.Put(ctx, rec.AtomicNumber, f.model, in); err != nil {
			log.Printf("insight: caching %s: %v", rec.Symbol, err)
		}
	}
	return Result{Insight: in, Outcome: OutcomeLive}
}

func (f *Fetcher) request(ctx context.Context, rec element.Record) (Insight, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	resp, err := f.provider.Complete(ctx, llm.CompletionRequest{
		Model:       f.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: Prompt(rec)}},
		MaxTokens:   1024,
		Temperature: 0.7,
		Schema:      Schema(),
	})
	if err != nil {
		return Insight{}, err
	}
	return Parse(resp.Content)
}

// Parse decodes a provider response body into an Insight. Markdown code
// fences around the JSON are tolerated.
func Parse(content string) (Insight, error) {
	body := strings.TrimSpace(content)
	if body == "" {
		return Insight{}, errors.New("no data returned")
	}
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}

	var in Insight
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return Insight{}, fmt.Errorf("decoding insight: %w", err)
	}
	if !in.complete() {
		return Insight{}, fmt.Errorf("insight is missing one of %s", strings.Join(fields, ", "))
	}
	return in, nil
}
