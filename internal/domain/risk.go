package domain

import (
	"fmt"
	"math"
	"time"
)

// RiskLevel is the categorical flood-risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"

	// RiskCritical is issuer-supplied on alerts only; AssessFloodRisk never
	// produces it.
	RiskCritical RiskLevel = "critical"
)

// PredictionMethod identifies the rule set that produced an assessment.
const PredictionMethod = "simple_rules"

// ParseRiskLevel validates an alert risk level. Alerts accept "critical" in
// addition to the three engine-derived levels.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return RiskLevel(s), nil
	default:
		return "", fmt.Errorf("%w: risk level %q", ErrInvalidInput, s)
	}
}

// RiskAssessment is an immutable point-in-time flood-risk estimate for one
// region. Created fresh on every prediction request, never mutated.
type RiskAssessment struct {
	RegionID   int64          `json:"region_id"`
	RiskLevel  RiskLevel      `json:"risk_level"`
	RiskScore  int            `json:"risk_score"` // 0-100
	Factors    map[string]any `json:"factors"`
	ValidUntil time.Time      `json:"valid_until"` // date precision, UTC
}

// AssessFloodRisk classifies 24-hour accumulated rainfall (millimetres) into
// a risk level and score. The thresholds and score arithmetic are fixed
// operational policy; out-of-range input is clamped by the same formulas
// rather than rejected, so the function never fails. Rainfall must always be
// supplied explicitly; callers that have no real figure inject one through a
// WeatherSource stub.
func AssessFloodRisk(regionID int64, rainfall24h float64) RiskAssessment {
	var (
		level RiskLevel
		score int
	)
	switch {
	case rainfall24h > 100:
		level = RiskHigh
		score = min(90, 60+int(math.Floor(rainfall24h-100)))
	case rainfall24h > 50:
		level = RiskMedium
		score = 30 + int(math.Floor(rainfall24h-50))
	default:
		level = RiskLow
		score = max(10, int(math.Floor(rainfall24h)))
	}

	now := clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return RiskAssessment{
		RegionID:  regionID,
		RiskLevel: level,
		RiskScore: score,
		Factors: map[string]any{
			"rainfall_24h":      rainfall24h,
			"prediction_method": PredictionMethod,
		},
		ValidUntil: today.AddDate(0, 0, 1),
	}
}
