package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/elements/{ref}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, ref := range []string{"C", "Fe", "999"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/elements/"+ref, nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("/api/elements/{ref}", "404"))
	if got != 3 {
		t.Errorf("expected 3 requests on one series, got %v", got)
	}
}

func TestInsightAndSceneCounters(t *testing.T) {
	m := New()
	m.SceneBuilt()
	m.SceneBuilt()
	m.ObserveInsight("live", 120*time.Millisecond)
	m.ObserveInsight("error", time.Second)
	m.ObserveInsight("error", time.Second)
	m.InsightDiscarded()
	m.SocketOpened()
	m.SocketOpened()
	m.SocketClosed()
	m.SearchServed("ok")
	m.SearchServed("not_ready")

	if got := testutil.ToFloat64(m.scenes); got != 2 {
		t.Errorf("scenes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.insights.WithLabelValues("error")); got != 2 {
		t.Errorf("error insights = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.staleInsights); got != 1 {
		t.Errorf("discarded = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sockets); got != 1 {
		t.Errorf("sockets = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.searches.WithLabelValues("not_ready")); got != 1 {
		t.Errorf("not_ready searches = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.SceneBuilt()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "atomik_scenes_built_total 1") {
		t.Errorf("metrics output missing scene counter:\n%s", body)
	}
}
