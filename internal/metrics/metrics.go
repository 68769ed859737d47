// Package metrics exposes Prometheus collectors for the HTTP surface,
// scene building and insight fetching.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	scenes        prometheus.Counter
	insights      *prometheus.CounterVec
	insightTime   prometheus.Histogram
	sockets       prometheus.Gauge
	staleInsights prometheus.Counter
	searches      *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atomik",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "atomik",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		scenes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atomik",
			Name:      "scenes_built_total",
			Help:      "Atom scenes laid out.",
		}),
		insights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atomik",
			Name:      "insight_fetches_total",
			Help:      "Insight fetches by outcome (live, cached, missing_key, error).",
		}, []string{"outcome"}),
		insightTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "atomik",
			Name:      "insight_fetch_duration_seconds",
			Help:      "Time spent producing an insight, fallbacks included.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		sockets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "atomik",
			Name:      "websocket_connections",
			Help:      "Open /ws/select connections.",
		}),
		staleInsights: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atomik",
			Name:      "insights_discarded_total",
			Help:      "Insights dropped because a newer selection superseded them.",
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atomik",
			Name:      "searches_total",
			Help:      "Semantic element searches by status (ok, not_ready, error).",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.requests, m.latency, m.scenes, m.insights, m.insightTime, m.sockets, m.staleInsights, m.searches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SceneBuilt counts one laid-out scene.
func (m *Metrics) SceneBuilt() { m.scenes.Inc() }

// ObserveInsight records one fetch outcome and how long it took.
func (m *Metrics) ObserveInsight(outcome string, elapsed time.Duration) {
	m.insights.WithLabelValues(outcome).Inc()
	m.insightTime.Observe(elapsed.Seconds())
}

// InsightDiscarded counts an insight that arrived for a superseded selection.
func (m *Metrics) InsightDiscarded() { m.staleInsights.Inc() }

// SearchServed counts one semantic search by status.
func (m *Metrics) SearchServed(status string) { m.searches.WithLabelValues(status).Inc() }

// SocketOpened and SocketClosed track live websocket connections.
func (m *Metrics) SocketOpened() { m.sockets.Inc() }
func (m *Metrics) SocketClosed() { m.sockets.Dec() }

// Middleware records request counts and latency keyed by chi route pattern,
// so /api/elements/{ref} is one series rather than 118.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
