// Package atomview serves the interactive atom viewer: the HTML page, the
// JSON API behind it and the selection websocket.
package atomview

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/history"
	"github.com/ziadkadry99/atomik/internal/insight"
	"github.com/ziadkadry99/atomik/internal/layout"
	"github.com/ziadkadry99/atomik/internal/metrics"
	"github.com/ziadkadry99/atomik/internal/search"
)

// Insights resolves the AI insight for an element. It never fails.
type Insights interface {
	FetchResult(ctx context.Context, rec element.Record) insight.Result
}

// Searcher answers semantic element queries; see search.Index.
type Searcher interface {
	Search(ctx context.Context, query string, limit int, category element.Category) ([]search.Hit, error)
}

// Options wires the viewer to its collaborators. History and Metrics are
// optional, as is Search.
type Options struct {
	Catalog        *element.Catalog
	Engine         *layout.Engine
	Insights       Insights
	Search         Searcher
	History        *history.Store
	Metrics        *metrics.Metrics
	DefaultElement string
	Version        string
}

// Viewer provides the atom page, element API and selection websocket.
type Viewer struct {
	catalog  *element.Catalog
	engine   *layout.Engine
	insights Insights
	search   Searcher
	history  *history.Store
	metrics  *metrics.Metrics
	defRef   string
	version  string
}

// New creates a new Viewer.
func New(opts Options) *Viewer {
	def := opts.DefaultElement
	if def == "" {
		def = "6"
	}
	return &Viewer{
		catalog:  opts.Catalog,
		engine:   opts.Engine,
		insights: opts.Insights,
		search:   opts.Search,
		history:  opts.History,
		metrics:  opts.Metrics,
		defRef:   def,
		version:  opts.Version,
	}
}

// RegisterRoutes mounts the page and API routes onto r.
func (v *Viewer) RegisterRoutes(r chi.Router) {
	r.Get("/", v.handleIndex)
	r.Get("/elements/{ref}", v.handlePage)
	r.Get("/api/elements", v.handleList)
	r.Get("/api/elements/{ref}", v.handleElement)
	r.Get("/api/elements/{ref}/scene", v.handleScene)
	r.Get("/api/elements/{ref}/scene.svg", v.handleSceneSVG)
	r.Get("/api/elements/{ref}/insight", v.handleInsight)
	r.Get("/api/table", v.handleTable)
	r.Get("/api/search", v.handleSearch)
}

// RegisterSocket mounts the selection websocket onto r. r should not carry
// a request timeout.
func (v *Viewer) RegisterSocket(r chi.Router) {
	r.Get("/ws/select", v.handleWebSocket)
}

// logSelection records a selection and returns its history ID, or "" when
// history is disabled or the write failed.
func (v *Viewer) logSelection(ctx context.Context, rec element.Record, src history.Source) string {
	if v.history == nil {
		return ""
	}
	entry, err := v.history.Log(ctx, history.Entry{
		AtomicNumber: rec.AtomicNumber,
		Symbol:       rec.Symbol,
		Source:       src,
	})
	if err != nil {
		log.Printf("atomview: logging selection of %s: %v", rec.Symbol, err)
		return ""
	}
	return entry.ID
}

func (v *Viewer) markInsight(id string, status history.InsightStatus) {
	if v.history == nil || id == "" {
		return
	}
	// The request context may already be gone.
	if err := v.history.MarkInsight(context.Background(), id, status); err != nil {
		log.Printf("atomview: marking selection %s %s: %v", id, status, err)
	}
}

func (v *Viewer) searchServed(status string) {
	if v.metrics != nil {
		v.metrics.SearchServed(status)
	}
}

func (v *Viewer) sceneBuilt() {
	if v.metrics != nil {
		v.metrics.SceneBuilt()
	}
}
