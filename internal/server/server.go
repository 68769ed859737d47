// Package server owns the HTTP listener, the shared middleware stack and
// the health and metrics endpoints. Feature packages mount their own
// routes on Router or LongLived.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/atomik/internal/db"
	"github.com/ziadkadry99/atomik/internal/metrics"
)

type Config struct {
	Port int
	// AllowAll accepts any CORS origin instead of localhost only.
	AllowAll bool
	// RequestTimeout bounds ordinary requests; websockets are exempt.
	RequestTimeout time.Duration
	// ShutdownGrace is how long Run waits for in-flight requests.
	ShutdownGrace time.Duration
	Version       string
}

type Server struct {
	cfg     Config
	db      *db.DB
	metrics *metrics.Metrics

	root  chi.Router
	timed chi.Router
	http  *http.Server
}

// New builds the router. database and m may be nil.
func New(cfg Config, database *db.DB, m *metrics.Metrics) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = time.Minute
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}
	s := &Server{cfg: cfg, db: database, metrics: m}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(cors.Handler(s.corsOptions()))

	s.root = r
	s.timed = r.With(middleware.Timeout(cfg.RequestTimeout))
	s.timed.Get("/healthz", s.handleHealth)
	if m != nil {
		s.timed.Method(http.MethodGet, "/metrics", m.Handler())
	}
	return s
}

func (s *Server) corsOptions() cors.Options {
	origins := []string{"http://localhost:*", "http://127.0.0.1:*"}
	if s.cfg.AllowAll {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

type health struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Database string `json:"database,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h, code := health{Status: "ok", Version: s.cfg.Version}, http.StatusOK
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			h.Status, h.Database, code = "degraded", err.Error(), http.StatusServiceUnavailable
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(h)
}

// Router is for request/response routes; they run under RequestTimeout.
func (s *Server) Router() chi.Router { return s.timed }

// LongLived is for connections that outlive RequestTimeout, such as the
// selection websocket.
func (s *Server) LongLived() chi.Router { return s.root }

func (s *Server) Handler() http.Handler { return s.root }

// Run serves until ctx is cancelled, then drains connections for up to
// ShutdownGrace.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.root,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("server: listening on %s", addr)
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Printf("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
