package predict_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisflood/alert-service/internal/domain"
	"github.com/aegisflood/alert-service/internal/observability"
	"github.com/aegisflood/alert-service/internal/predict"
)

type fakeRegions struct {
	regions map[int64]domain.Region
	getErr  error
	listErr error
}

func (f *fakeRegions) Get(_ context.Context, id int64) (*domain.Region, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	region, ok := f.regions[id]
	if !ok {
		return nil, nil
	}
	return &region, nil
}

func (f *fakeRegions) List(_ context.Context, limit int) ([]domain.Region, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Region
	for id := int64(1); len(out) < limit; id++ {
		region, ok := f.regions[id]
		if !ok {
			break
		}
		out = append(out, region)
	}
	return out, nil
}

type fakeStore struct {
	saved []domain.RiskAssessment
	err   error
}

func (f *fakeStore) SavePrediction(_ context.Context, assessment domain.RiskAssessment) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, assessment)
	return nil
}

type fixedWeather struct {
	rainfall float64
	err      error
}

func (w fixedWeather) Rainfall24h(_ context.Context, _ int64) (float64, error) {
	return w.rainfall, w.err
}

func newService(regions *fakeRegions, store *fakeStore, weather fixedWeather) *predict.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return predict.New(
		regions, store, weather, predict.FirstRegionLocator{Regions: regions},
		logger, observability.NewMetricsForTesting(),
	)
}

func TestPredict(t *testing.T) {
	regions := &fakeRegions{regions: map[int64]domain.Region{7: {ID: 7, Name: "Kochi"}}}
	store := &fakeStore{}
	svc := newService(regions, store, fixedWeather{rainfall: 120})

	assessment, err := svc.Predict(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), assessment.RegionID)
	assert.Equal(t, domain.RiskHigh, assessment.RiskLevel)
	assert.Equal(t, 80, assessment.RiskScore)

	require.Len(t, store.saved, 1)
	assert.Equal(t, assessment, store.saved[0])
}

func TestPredict_UnknownRegion(t *testing.T) {
	svc := newService(&fakeRegions{}, &fakeStore{}, fixedWeather{rainfall: 10})

	_, err := svc.Predict(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPredict_RegionLookupError(t *testing.T) {
	regions := &fakeRegions{getErr: errors.New("connection refused")}
	svc := newService(regions, &fakeStore{}, fixedWeather{rainfall: 10})

	_, err := svc.Predict(context.Background(), 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestPredict_WeatherError(t *testing.T) {
	regions := &fakeRegions{regions: map[int64]domain.Region{7: {ID: 7}}}
	store := &fakeStore{}
	svc := newService(regions, store, fixedWeather{err: errors.New("upstream unavailable")})

	_, err := svc.Predict(context.Background(), 7)
	require.Error(t, err)
	assert.Empty(t, store.saved)
}

func TestPredict_SaveError(t *testing.T) {
	regions := &fakeRegions{regions: map[int64]domain.Region{7: {ID: 7}}}
	store := &fakeStore{err: errors.New("disk full")}
	svc := newService(regions, store, fixedWeather{rainfall: 60})

	_, err := svc.Predict(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist prediction")
}

func TestPredictByLocation(t *testing.T) {
	regions := &fakeRegions{regions: map[int64]domain.Region{
		1: {ID: 1, Name: "Alappuzha"},
		2: {ID: 2, Name: "Kochi"},
	}}
	store := &fakeStore{}
	svc := newService(regions, store, fixedWeather{rainfall: 75})

	assessment, err := svc.PredictByLocation(context.Background(), 9.49, 76.33)
	require.NoError(t, err)

	// The stub locator resolves every coordinate to the first region.
	assert.Equal(t, int64(1), assessment.RegionID)
	assert.Equal(t, domain.RiskMedium, assessment.RiskLevel)
	require.Len(t, store.saved, 1)
}

func TestPredictByLocation_NoRegions(t *testing.T) {
	svc := newService(&fakeRegions{}, &fakeStore{}, fixedWeather{rainfall: 10})

	_, err := svc.PredictByLocation(context.Background(), 9.49, 76.33)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPredictByLocation_LocatorError(t *testing.T) {
	regions := &fakeRegions{listErr: errors.New("query timeout")}
	svc := newService(regions, &fakeStore{}, fixedWeather{rainfall: 10})

	_, err := svc.PredictByLocation(context.Background(), 9.49, 76.33)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locate region")
}
