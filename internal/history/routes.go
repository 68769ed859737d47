package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// defaultPageSize caps GET /api/history when no limit is given.
const defaultPageSize = 50

// RegisterRoutes mounts the selection history API under /api/history.
func RegisterRoutes(r chi.Router, store *Store) {
	h := api{store: store}
	r.Route("/api/history", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/popular", h.popular)
		r.Get("/{id}", h.entry)
	})
}

type api struct {
	store *Store
}

// parseFilter reads element, source, status, since, until, limit and offset
// from q. Malformed values are rejected rather than ignored.
func parseFilter(q url.Values) (QueryFilter, error) {
	f := QueryFilter{
		Source:        Source(q.Get("source")),
		InsightStatus: InsightStatus(q.Get("status")),
		Limit:         defaultPageSize,
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"element", &f.AtomicNumber},
		{"limit", &f.Limit},
		{"offset", &f.Offset},
	}
	for _, p := range ints {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			if p.key == "element" {
				return f, errors.New("element must be an atomic number")
			}
			return f, fmt.Errorf("%s must be a non-negative integer", p.key)
		}
		*p.dst = n
	}

	times := []struct {
		key string
		dst **time.Time
	}{
		{"since", &f.Since},
		{"until", &f.Until},
	}
	for _, p := range times {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("%s must be an RFC 3339 timestamp", p.key)
		}
		*p.dst = &t
	}
	return f, nil
}

func (h api) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := h.store.Query(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

func (h api) popular(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	ranked, err := h.store.Popular(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ranked))
}

func (h api) entry(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "no selection with that id")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, e)
	}
}

// nonNil keeps empty results encoding as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
