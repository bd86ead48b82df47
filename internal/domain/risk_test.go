package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessFloodRisk(t *testing.T) {
	tests := []struct {
		name     string
		rainfall float64
		level    RiskLevel
		score    int
	}{
		{"heavy rainfall", 120, RiskHigh, 80},
		{"moderate rainfall", 75, RiskMedium, 55},
		{"light rainfall", 10, RiskLow, 10},
		{"zero rainfall", 0, RiskLow, 10},
		{"low boundary inclusive", 50, RiskLow, 50},
		{"just above medium threshold", 50.5, RiskMedium, 30},
		{"high boundary inclusive", 100, RiskMedium, 80},
		{"just above high threshold", 100.5, RiskHigh, 60},
		{"fractional floor", 87.9, RiskMedium, 67},
		{"extreme rainfall capped at 90", 500, RiskHigh, 90},
		{"negative rainfall floored to 10", -20, RiskLow, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AssessFloodRisk(1, tt.rainfall)
			assert.Equal(t, tt.level, result.RiskLevel)
			assert.Equal(t, tt.score, result.RiskScore)
			assert.Equal(t, int64(1), result.RegionID)
		})
	}
}

func TestAssessFloodRisk_ScoreBounds(t *testing.T) {
	for r := 0.0; r <= 300; r += 0.25 {
		result := AssessFloodRisk(1, r)
		switch {
		case r > 100:
			assert.Equal(t, RiskHigh, result.RiskLevel, "rainfall %v", r)
			assert.GreaterOrEqual(t, result.RiskScore, 60, "rainfall %v", r)
			assert.LessOrEqual(t, result.RiskScore, 90, "rainfall %v", r)
		case r > 50:
			assert.Equal(t, RiskMedium, result.RiskLevel, "rainfall %v", r)
			assert.GreaterOrEqual(t, result.RiskScore, 30, "rainfall %v", r)
			assert.LessOrEqual(t, result.RiskScore, 80, "rainfall %v", r)
		default:
			assert.Equal(t, RiskLow, result.RiskLevel, "rainfall %v", r)
			assert.GreaterOrEqual(t, result.RiskScore, 10, "rainfall %v", r)
			assert.LessOrEqual(t, result.RiskScore, 50, "rainfall %v", r)
		}
	}
}

func TestAssessFloodRisk_FactorsAndValidity(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC))
	SetClock(fake)
	t.Cleanup(func() { SetClock(nil) })

	result := AssessFloodRisk(7, 120)

	wantFactors := map[string]any{
		"rainfall_24h":      120.0,
		"prediction_method": "simple_rules",
	}
	if diff := cmp.Diff(wantFactors, result.Factors); diff != "" {
		t.Errorf("factors mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), result.ValidUntil)
}

func TestParseRiskLevel(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high", "critical"} {
		level, err := ParseRiskLevel(valid)
		require.NoError(t, err)
		assert.Equal(t, RiskLevel(valid), level)
	}

	for _, invalid := range []string{"", "extreme", "HIGH", "Low "} {
		_, err := ParseRiskLevel(invalid)
		require.Error(t, err, "input %q", invalid)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}
