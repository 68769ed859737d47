// Package search answers free-text questions like "used in batteries" with
// the elements whose descriptions are closest in embedding space.
package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/embeddings"
)

var (
	// ErrNotReady is returned by Search until Build or Load has succeeded.
	ErrNotReady = errors.New("search index is not ready")
	// ErrEmptyQuery is returned for a blank query.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrStale is returned by Load when the file was built by another
	// embedder or for another catalog.
	ErrStale = errors.New("search index file is stale")
)

// DefaultLimit is used when Search is called without a positive limit.
const DefaultLimit = 5

// embedConcurrency bounds parallel embedding calls while building.
const embedConcurrency = 4

// Hit is one search result.
type Hit struct {
	Element    element.Record `json:"element"`
	Similarity float32        `json:"similarity"`
}

// Index is an in-memory vector index over a catalog. It is safe for
// concurrent use; Search may run while Build replaces the collection.
type Index struct {
	catalog  *element.Catalog
	embedder embeddings.Embedder
	embed    chromem.EmbeddingFunc

	mu  sync.RWMutex
	db  *chromem.DB
	col *chromem.Collection
}

// New creates an empty index. Call Build or Load before Search.
func New(catalog *element.Catalog, embedder embeddings.Embedder) *Index {
	return &Index{
		catalog:  catalog,
		embedder: embedder,
		embed:    embeddings.ToChromemFunc(embedder),
	}
}

// collectionName ties persisted vectors to the embedder that made them.
func (ix *Index) collectionName() string {
	return "elements:" + ix.embedder.Name()
}

// Document is the text embedded for rec.
func Document(rec element.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s), element %d. %s. ", rec.Name, rec.Symbol, rec.AtomicNumber, rec.Category)
	fmt.Fprintf(&sb, "Group %d, period %d, %s-block. ", rec.Group, rec.Period, rec.Block)
	sb.WriteString(rec.Summary)
	return strings.TrimSpace(sb.String())
}

// Build embeds every catalog record into a fresh collection.
func (ix *Index) Build(ctx context.Context) error {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(ix.collectionName(), nil, ix.embed)
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	records := ix.catalog.All()
	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		docs[i] = chromem.Document{
			ID:      strconv.Itoa(rec.AtomicNumber),
			Content: Document(rec),
			Metadata: map[string]string{
				"symbol":   rec.Symbol,
				"category": string(rec.Category),
				"block":    string(rec.Block),
			},
		}
	}
	if err := col.AddDocuments(ctx, docs, embedConcurrency); err != nil {
		return fmt.Errorf("embedding %d elements with %s: %w", len(docs), ix.embedder.Name(), err)
	}

	ix.mu.Lock()
	ix.db, ix.col = db, col
	ix.mu.Unlock()
	return nil
}

// Save writes the built index to path as a compressed gob.
func (ix *Index) Save(path string) error {
	ix.mu.RLock()
	db := ix.db
	ix.mu.RUnlock()
	if db == nil {
		return ErrNotReady
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	if err := db.ExportToFile(path, true, ""); err != nil {
		return fmt.Errorf("exporting index: %w", err)
	}
	return nil
}

// Load reads an index written by Save.
func (ix *Index) Load(path string) error {
	db := chromem.NewDB()
	if err := db.ImportFromFile(path, ""); err != nil {
		return fmt.Errorf("importing index: %w", err)
	}
	col := db.GetCollection(ix.collectionName(), ix.embed)
	if col == nil || col.Count() != ix.catalog.Len() {
		return ErrStale
	}

	ix.mu.Lock()
	ix.db, ix.col = db, col
	ix.mu.Unlock()
	return nil
}

// LoadOrBuild loads path when it holds a current index, otherwise builds
// and saves one. built reports whether embeddings were computed.
func (ix *Index) LoadOrBuild(ctx context.Context, path string) (built bool, err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		if err := ix.Load(path); err == nil {
			return false, nil
		}
	}
	if err := ix.Build(ctx); err != nil {
		return true, err
	}
	return true, ix.Save(path)
}

// Ready reports whether Search can answer.
func (ix *Index) Ready() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.col != nil
}

// Search returns up to limit elements ranked by similarity to query. A
// non-empty category restricts the results to that category.
func (ix *Index) Search(ctx context.Context, query string, limit int, category element.Category) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	ix.mu.RLock()
	col := ix.col
	ix.mu.RUnlock()
	if col == nil {
		return nil, ErrNotReady
	}

	var where map[string]string
	candidates := col.Count()
	if category != "" {
		where = map[string]string{"category": string(category)}
		candidates = len(ix.catalog.ByCategory(category))
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, candidates)
	if limit == 0 {
		return nil, nil
	}

	results, err := col.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		n, err := strconv.Atoi(r.ID)
		if err != nil {
			continue
		}
		rec, err := ix.catalog.ByNumber(n)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{Element: rec, Similarity: r.Similarity})
	}
	return hits, nil
}
