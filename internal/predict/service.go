// Package predict produces and persists per-region flood-risk assessments.
package predict

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aegisflood/alert-service/internal/domain"
	"github.com/aegisflood/alert-service/internal/observability"
)

// RegionDirectory provides region lookups.
type RegionDirectory interface {
	Get(ctx context.Context, id int64) (*domain.Region, error)
	List(ctx context.Context, limit int) ([]domain.Region, error)
}

// PredictionStore persists assessments as immutable records keyed by region
// and creation time.
type PredictionStore interface {
	SavePrediction(ctx context.Context, assessment domain.RiskAssessment) error
}

// RegionLocator maps coordinates to a region. Real geospatial resolution can
// replace the stub implementation without touching the Service.
type RegionLocator interface {
	Locate(ctx context.Context, lat, lon float64) (*domain.Region, error)
}

// Service orchestrates risk-engine invocation per region and persists the
// result.
type Service struct {
	regions RegionDirectory
	store   PredictionStore
	weather domain.WeatherSource
	locator RegionLocator
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a prediction Service.
func New(regions RegionDirectory, store PredictionStore, weather domain.WeatherSource, locator RegionLocator, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		regions: regions,
		store:   store,
		weather: weather,
		locator: locator,
		logger:  logger,
		metrics: metrics,
	}
}

// Predict generates a fresh assessment for the region, persists it, and
// returns it. Fails with domain.ErrNotFound when the region does not exist.
func (s *Service) Predict(ctx context.Context, regionID int64) (domain.RiskAssessment, error) {
	region, err := s.regions.Get(ctx, regionID)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("lookup region %d: %w", regionID, err)
	}
	if region == nil {
		return domain.RiskAssessment{}, fmt.Errorf("%w: region %d", domain.ErrNotFound, regionID)
	}

	rainfall, err := s.weather.Rainfall24h(ctx, regionID)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("fetch rainfall for region %d: %w", regionID, err)
	}

	assessment := domain.AssessFloodRisk(regionID, rainfall)

	if err := s.store.SavePrediction(ctx, assessment); err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("persist prediction: %w", err)
	}

	s.metrics.PredictionsCreated.Inc()
	s.metrics.PredictionRiskScore.Observe(float64(assessment.RiskScore))
	s.logger.Info("prediction created",
		"region_id", regionID,
		"risk_level", assessment.RiskLevel,
		"risk_score", assessment.RiskScore,
	)

	return assessment, nil
}

// PredictByLocation resolves coordinates to a region through the locator and
// predicts for it. Fails with domain.ErrNotFound when no region is available.
func (s *Service) PredictByLocation(ctx context.Context, lat, lon float64) (domain.RiskAssessment, error) {
	region, err := s.locator.Locate(ctx, lat, lon)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("locate region: %w", err)
	}
	if region == nil {
		return domain.RiskAssessment{}, fmt.Errorf("%w: no region for location", domain.ErrNotFound)
	}

	return s.Predict(ctx, region.ID)
}
