package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aegisflood/alert-service/internal/domain"
)

// createAlertRequest is the alert-creation wire shape.
type createAlertRequest struct {
	Region    string `json:"region"`
	Message   string `json:"message"`
	RiskLevel string `json:"risk_level"`
}

// alertResponse serializes created_at as an ISO-8601 string.
type alertResponse struct {
	ID        int64  `json:"id"`
	Region    string `json:"region"`
	Message   string `json:"message"`
	RiskLevel string `json:"risk_level"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

func toAlertResponse(a domain.Alert) alertResponse {
	return alertResponse{
		ID:        a.ID,
		Region:    a.Region,
		Message:   a.Message,
		RiskLevel: string(a.RiskLevel),
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// predictionResponse serializes valid_until at date precision.
type predictionResponse struct {
	RegionID   int64          `json:"region_id"`
	RiskLevel  string         `json:"risk_level"`
	RiskScore  int            `json:"risk_score"`
	Factors    map[string]any `json:"factors"`
	ValidUntil string         `json:"valid_until"`
}

func toPredictionResponse(a domain.RiskAssessment) predictionResponse {
	return predictionResponse{
		RegionID:   a.RegionID,
		RiskLevel:  string(a.RiskLevel),
		RiskScore:  a.RiskScore,
		Factors:    a.Factors,
		ValidUntil: a.ValidUntil.Format("2006-01-02"),
	}
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Validation error"})
		return
	}

	alert, err := s.deps.Dispatcher.Dispatch(r.Context(), identityFrom(r.Context()), domain.AlertInput{
		Region:    req.Region,
		Message:   req.Message,
		RiskLevel: domain.RiskLevel(req.RiskLevel),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlertResponse(alert))
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, 100)

	alerts, err := s.deps.Alerts.ListRecentAlerts(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	regionID, err := strconv.ParseInt(chi.URLParam(r, "regionID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Validation error"})
		return
	}

	assessment, err := s.deps.Predictor.Predict(r.Context(), regionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPredictionResponse(assessment))
}

func (s *Server) handlePredictByLocation(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Validation error"})
		return
	}

	assessment, err := s.deps.Predictor.PredictByLocation(r.Context(), lat, lon)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPredictionResponse(assessment))
}

func (s *Server) handleDashboardRegions(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 200, 500)

	items, err := s.deps.Dashboard.ListRegionSummaries(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.RegionSummary{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Dashboard.Stats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeError maps domain sentinels to HTTP statuses. Persistence and other
// internal failures surface as a generic 500 with no internal detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Validation error"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Only authorities can create alerts"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Region not found"})
	default:
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal server error"})
	}
}

// queryLimit parses ?limit= with a default and a hard cap.
func queryLimit(r *http.Request, def, maxLimit int) int {
	limit := def
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}
