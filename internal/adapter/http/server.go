// Package http exposes the REST surface: alert issuance, predictions, the
// authority dashboard, and the health/readiness/metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aegisflood/alert-service/internal/domain"
)

// AlertDispatcher issues alerts on behalf of an authenticated identity.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, issuer domain.Identity, in domain.AlertInput) (domain.Alert, error)
}

// AlertLister reads recent alerts, newest first.
type AlertLister interface {
	ListRecentAlerts(ctx context.Context, limit int) ([]domain.Alert, error)
}

// Predictor produces flood-risk assessments.
type Predictor interface {
	Predict(ctx context.Context, regionID int64) (domain.RiskAssessment, error)
	PredictByLocation(ctx context.Context, lat, lon float64) (domain.RiskAssessment, error)
}

// Dashboard serves the authority dashboard queries.
type Dashboard interface {
	ListRegionSummaries(ctx context.Context, limit int) ([]domain.RegionSummary, error)
	Stats(ctx context.Context) (domain.DashboardStats, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Dispatcher AlertDispatcher
	Alerts     AlertLister
	Predictor  Predictor
	Dashboard  Dashboard
	Ready      ReadinessChecker
	JWTSecret  string
	Logger     *slog.Logger
}

// Server exposes the REST API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates the HTTP server and mounts all routes.
func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		deps:   deps,
		logger: deps.Logger,
	}

	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.requireIdentity)

		r.Post("/alerts", s.handleCreateAlert)
		r.Get("/alerts", s.handleListAlerts)
		r.Get("/predictions/location", s.handlePredictByLocation)
		r.Get("/predictions/{regionID}", s.handlePredict)
		r.Get("/dashboard/regions", s.handleDashboardRegions)
		r.Get("/dashboard/stats", s.handleDashboardStats)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "aegisflood-alerts"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.deps.Ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
