package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ziadkadry99/atomik/internal/auth"
	"github.com/ziadkadry99/atomik/internal/blob"
	"github.com/ziadkadry99/atomik/internal/config"
	"github.com/ziadkadry99/atomik/internal/db"
	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/embeddings"
	"github.com/ziadkadry99/atomik/internal/insight"
	"github.com/ziadkadry99/atomik/internal/layout"
	"github.com/ziadkadry99/atomik/internal/llm"
	"github.com/ziadkadry99/atomik/internal/metrics"
	"github.com/ziadkadry99/atomik/internal/search"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `atomik init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openDatabase opens the sqlite file under the configured data directory.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// newEngine creates a layout engine from the configured geometry.
func newEngine(cfg *config.Config, seed *uint64) (*layout.Engine, error) {
	if seed != nil {
		return layout.NewSeededEngine(cfg.Layout, *seed)
	}
	return layout.NewEngine(cfg.Layout)
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings. Environment keys win over stored credentials. A missing
// credential is not an error: it yields a nil provider so that insights
// degrade to the missing-key fallback.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	name := string(cfg.Provider)
	p, err := llm.NewProvider(name, cfg.Model)
	if errors.Is(err, llm.ErrMissingAPIKey) {
		p, err = storedProvider(name, cfg.Model)
	}
	if errors.Is(err, llm.ErrMissingAPIKey) {
		if verbose {
			fmt.Fprintf(os.Stderr, "Warning: %v; insights will use fallback text\n", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return llm.NewRateLimitedProvider(p, cfg.Insight.RateLimitRPM), nil
}

// storedProvider builds a provider from the credentials file written by
// `atomik auth`.
func storedProvider(name, model string) (llm.Provider, error) {
	creds, err := auth.Load()
	if err != nil {
		log.Printf("auth: %v", err)
		creds = &auth.Credentials{}
	}
	if key := creds.APIKeys[name]; key != "" {
		return llm.NewProviderWithKey(name, model, key)
	}
	if (name == string(config.ProviderGoogle) || name == "") && creds.HasGoogleOAuth() {
		client := auth.GoogleHTTPClient(context.Background(), creds.Google)
		return llm.NewGoogleOAuthProvider(client, model), nil
	}
	return llm.NewProviderWithKey(name, model, "")
}

// newEmbedder returns the embedder for semantic search, or nil when search
// is disabled or the embedding provider has no credential.
func newEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider()
	if !cfg.Search.Enabled || !config.HasEmbeddings(provider) {
		return nil, nil
	}
	name := string(provider)
	if provider == config.ProviderOllama {
		return embeddings.New(name, cfg.Search.Model, "")
	}

	key := llm.EnvAPIKey(name)
	if key == "" {
		key = auth.StoredAPIKey(name)
	}
	if key != "" {
		return embeddings.New(name, cfg.Search.Model, key)
	}

	if provider == config.ProviderGoogle {
		if creds, err := auth.Load(); err == nil && creds.HasGoogleOAuth() {
			model := cfg.Search.Model
			if model == "" {
				model = embeddings.DefaultModel[name]
			}
			client := auth.GoogleHTTPClient(context.Background(), creds.Google)
			return embeddings.NewGoogleEmbedder("", model).WithHTTPClient(client), nil
		}
	}
	return nil, nil
}

// newSearchIndex returns an unbuilt index, or nil when search is
// unavailable.
func newSearchIndex(cfg *config.Config, catalog *element.Catalog) (*search.Index, error) {
	emb, err := newEmbedder(cfg)
	if err != nil || emb == nil {
		return nil, err
	}
	return search.New(catalog, emb), nil
}

// buildSearchIndexAsync loads or builds ix in the background so startup is
// not held up by embedding calls.
func buildSearchIndexAsync(ctx context.Context, ix *search.Index, path string) {
	go func() {
		start := time.Now()
		built, err := ix.LoadOrBuild(ctx, path)
		switch {
		case err != nil:
			log.Printf("search: building index: %v", err)
		case built:
			log.Printf("search: indexed elements in %s", time.Since(start).Round(time.Millisecond))
		}
	}()
}

// newFetcher wires the provider, cache and metrics into an insight fetcher.
// database and m may be nil.
func newFetcher(cfg *config.Config, database *db.DB, m *metrics.Metrics) (*insight.Fetcher, error) {
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	opts := []insight.Option{
		insight.WithModel(cfg.Model),
		insight.WithTimeout(cfg.Insight.Timeout),
	}
	if database != nil && cfg.Insight.CacheTTL > 0 {
		opts = append(opts, insight.WithCache(insight.NewCache(database, cfg.Insight.CacheTTL)))
	}
	if m != nil {
		opts = append(opts, insight.WithObserver(func(o insight.Outcome, d time.Duration) {
			m.ObserveInsight(string(o), d)
		}))
	}
	return insight.NewFetcher(provider, opts...), nil
}

// lookupElements resolves each reference, or every element when refs is
// empty.
func lookupElements(catalog *element.Catalog, refs []string) ([]element.Record, error) {
	if len(refs) == 0 {
		return catalog.All(), nil
	}
	out := make([]element.Record, 0, len(refs))
	for _, ref := range refs {
		rec, err := catalog.Lookup(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// blobOptions maps the export config onto blob store options.
func blobOptions(cfg *config.Config) blob.Options {
	s3cfg := cfg.Export.S3
	return blob.Options{
		Driver: blob.Driver(cfg.Export.Driver),
		Dir:    cfg.Export.Dir,
		S3: blob.S3Config{
			Bucket:          s3cfg.Bucket,
			Prefix:          s3cfg.Prefix,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			PathStyle:       s3cfg.ForcePathStyle,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}
}
