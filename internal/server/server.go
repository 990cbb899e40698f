// Package server exposes aggregation and enrichment over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/model"
)

// Aggregator runs a multi-source contact search.
type Aggregator interface {
	Aggregate(ctx context.Context, sources []string, criteria model.Criteria, maxResults int) model.AggregateResult
}

// Enricher looks up one person's contact details.
type Enricher interface {
	Enrich(ctx context.Context, name, hint string, maxPages int) enrich.Result
}

// Server holds the HTTP handlers.
type Server struct {
	cfg        *config.Config
	aggregator Aggregator
	enricher   Enricher
}

// New creates a Server. enricher may be nil, which disables POST /enrich.
func New(cfg *config.Config, aggregator Aggregator, enricher Enricher) *Server {
	return &Server{cfg: cfg, aggregator: aggregator, enricher: enricher}
}

// Router builds the route tree with CORS, panic recovery and metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/scrape", s.handleScrape)
	r.Post("/enrich", s.handleEnrich)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
