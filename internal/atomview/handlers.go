package atomview

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/history"
	"github.com/ziadkadry99/atomik/internal/insight"
	"github.com/ziadkadry99/atomik/internal/layout"
	"github.com/ziadkadry99/atomik/internal/render"
	"github.com/ziadkadry99/atomik/internal/search"
)

// elementResponse is the JSON response for a single element.
type elementResponse struct {
	element.Record
	NeutronCount int             `json:"neutronCount"`
	Palette      element.Palette `json:"palette"`
}

// insightResponse is the JSON response for the insight endpoint.
type insightResponse struct {
	AtomicNumber int             `json:"atomicNumber"`
	Symbol       string          `json:"symbol"`
	Outcome      insight.Outcome `json:"outcome"`
	Fallback     bool            `json:"fallback"`
	Insight      insight.Insight `json:"insight"`
}

func newElementResponse(rec element.Record) elementResponse {
	return elementResponse{
		Record:       rec,
		NeutronCount: rec.NeutronCount(),
		Palette:      element.Colors(rec.Category),
	}
}

func (v *Viewer) handleIndex(w http.ResponseWriter, r *http.Request) {
	v.servePage(w, r, v.defRef)
}

func (v *Viewer) handlePage(w http.ResponseWriter, r *http.Request) {
	v.servePage(w, r, chi.URLParam(r, "ref"))
}

func (v *Viewer) servePage(w http.ResponseWriter, r *http.Request, ref string) {
	rec, err := v.catalog.Lookup(ref)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	scene, err := v.engine.Scene(rec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	v.sceneBuilt()

	var buf bytes.Buffer
	err = render.Page(&buf, render.PageData{
		Element:  rec,
		Scene:    scene,
		Catalog:  v.catalog,
		Insight:  render.InsightView{Loading: true},
		Version:  v.version,
		SocketWS: "/ws/select",
	})
	if err != nil {
		log.Printf("atomview: %v", err)
		http.Error(w, "rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (v *Viewer) handleList(w http.ResponseWriter, r *http.Request) {
	records := v.catalog.All()
	if pattern := r.URL.Query().Get("match"); pattern != "" {
		matched, err := v.catalog.Match(pattern)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		records = matched
	}
	out := make([]elementResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, newElementResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (v *Viewer) handleElement(w http.ResponseWriter, r *http.Request) {
	rec, ok := v.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newElementResponse(rec))
}

func (v *Viewer) handleScene(w http.ResponseWriter, r *http.Request) {
	rec, ok := v.lookup(w, r)
	if !ok {
		return
	}
	scene, ok := v.buildScene(w, r, rec)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, scene)
}

func (v *Viewer) handleSceneSVG(w http.ResponseWriter, r *http.Request) {
	rec, ok := v.lookup(w, r)
	if !ok {
		return
	}
	opts := render.DefaultSVGOptions()
	q := r.URL.Query()
	if s := q.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "size must be a positive integer")
			return
		}
		opts.Size = n
	}
	if s := q.Get("animate"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "animate must be a boolean")
			return
		}
		opts.Animate = b
	}

	scene, ok := v.buildScene(w, r, rec)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.SVG(&buf, scene, opts); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (v *Viewer) handleInsight(w http.ResponseWriter, r *http.Request) {
	rec, ok := v.lookup(w, r)
	if !ok {
		return
	}
	id := v.logSelection(r.Context(), rec, history.SourceAPI)
	res := v.insights.FetchResult(r.Context(), rec)
	v.markInsight(id, history.StatusFor(res.Outcome))

	writeJSON(w, http.StatusOK, insightResponse{
		AtomicNumber: rec.AtomicNumber,
		Symbol:       rec.Symbol,
		Outcome:      res.Outcome,
		Fallback:     res.Fallback(),
		Insight:      res.Insight,
	})
}

func (v *Viewer) handleTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, v.catalog.Table())
}

// lookup resolves the {ref} URL parameter, writing a 404 when it fails.
func (v *Viewer) lookup(w http.ResponseWriter, r *http.Request) (element.Record, bool) {
	rec, err := v.catalog.Lookup(chi.URLParam(r, "ref"))
	if err != nil {
		if errors.Is(err, element.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return element.Record{}, false
	}
	return rec, true
}

// buildScene honours an optional ?seed= for reproducible shuffles.
func (v *Viewer) buildScene(w http.ResponseWriter, r *http.Request, rec element.Record) (layout.Scene, bool) {
	var (
		scene layout.Scene
		err   error
	)
	if s := r.URL.Query().Get("seed"); s != "" {
		seed, perr := strconv.ParseUint(s, 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "seed must be an unsigned integer")
			return layout.Scene{}, false
		}
		scene, err = v.engine.SceneWithSeed(rec, seed)
	} else {
		scene, err = v.engine.Scene(rec)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, element.ErrInvalidRecord) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return layout.Scene{}, false
	}
	v.sceneBuilt()
	return scene, true
}

// searchHit is one row of the search response.
type searchHit struct {
	elementResponse
	Similarity float32 `json:"similarity"`
}

func (v *Viewer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if v.search == nil {
		writeError(w, http.StatusServiceUnavailable, "search is disabled")
		return
	}

	q := r.URL.Query()
	limit := search.DefaultLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	hits, err := v.search.Search(r.Context(), q.Get("q"), limit, element.Category(q.Get("category")))
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, search.ErrNotReady):
		v.searchServed("not_ready")
		w.Header().Set("Retry-After", "5")
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		v.searchServed("error")
		log.Printf("atomview: search %q: %v", q.Get("q"), err)
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}
	v.searchServed("ok")

	out := make([]searchHit, len(hits))
	for i, h := range hits {
		out[i] = searchHit{elementResponse: newElementResponse(h.Element), Similarity: h.Similarity}
	}
	writeJSON(w, http.StatusOK, out)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
