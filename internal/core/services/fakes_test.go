package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"

	"github.com/google/uuid"
)

type testLogger struct{}

func (testLogger) Debug(string, map[string]interface{}) {}
func (testLogger) Info(string, map[string]interface{})  {}
func (testLogger) Warn(string, map[string]interface{})  {}
func (testLogger) Error(string, map[string]interface{}) {}

// fakeRideRepo serves ride queries from an in-memory slice with the same
// ordering contract as the postgres adapter.
type fakeRideRepo struct {
	rides []*domain.RideMetrics
	err   error
}

func (f *fakeRideRepo) GetRecentRides(_ context.Context, _, _ uuid.UUID, after *time.Time, limit int) ([]*domain.RideMetrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	var filtered []*domain.RideMetrics
	for _, ride := range f.rides {
		if after != nil && !ride.StartedAt.After(*after) {
			continue
		}
		filtered = append(filtered, ride)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].StartedAt.After(filtered[j].StartedAt)
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (f *fakeRideRepo) GetRidesAfter(_ context.Context, _, _ uuid.UUID, after time.Time) ([]*domain.RideMetrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	var filtered []*domain.RideMetrics
	for _, ride := range f.rides {
		if ride.StartedAt.After(after) {
			filtered = append(filtered, ride)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].StartedAt.Before(filtered[j].StartedAt)
	})
	return filtered, nil
}

func (f *fakeRideRepo) GetFirstRideTime(_ context.Context, _, _ uuid.UUID) (*time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	var first *time.Time
	for _, ride := range f.rides {
		if first == nil || ride.StartedAt.Before(*first) {
			t := ride.StartedAt
			first = &t
		}
	}
	return first, nil
}

type fakeServiceLogRepo struct {
	lastService map[uuid.UUID]time.Time
}

func (f *fakeServiceLogRepo) GetLastServiceDate(_ context.Context, componentID uuid.UUID) (*time.Time, error) {
	if t, ok := f.lastService[componentID]; ok {
		return &t, nil
	}
	return nil, nil
}

type fakeBikeRepo struct {
	bike *domain.Bike
}

func (f *fakeBikeRepo) GetBikeByID(_ context.Context, bikeID uuid.UUID) (*domain.Bike, error) {
	if f.bike != nil && f.bike.BikeID == bikeID {
		return f.bike, nil
	}
	return nil, fmt.Errorf("bike not found")
}

type fakeComponentRepo struct {
	components []*domain.Component
}

func (f *fakeComponentRepo) GetActiveComponentsByBikeID(_ context.Context, _ uuid.UUID) ([]*domain.Component, error) {
	return f.components, nil
}

type fakePrefRepo struct {
	prefs []*domain.ComponentPreference
	err   error
}

func (f *fakePrefRepo) GetPreferences(_ context.Context, _, _ uuid.UUID) ([]*domain.ComponentPreference, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.prefs, nil
}

// fakePredictionCache records writes and always misses unless primed.
type fakePredictionCache struct {
	stored      map[string]*domain.BikePredictionSummary
	invalidated []string
}

func newFakePredictionCache() *fakePredictionCache {
	return &fakePredictionCache{stored: make(map[string]*domain.BikePredictionSummary)}
}

func (f *fakePredictionCache) GetSummary(_ context.Context, key string) (*domain.BikePredictionSummary, bool) {
	summary, ok := f.stored[key]
	return summary, ok
}

func (f *fakePredictionCache) SetSummary(_ context.Context, key string, summary *domain.BikePredictionSummary) {
	f.stored[key] = summary
}

func (f *fakePredictionCache) Invalidate(_ context.Context, prefix string) {
	f.invalidated = append(f.invalidated, prefix)
}

func rideAt(started time.Time, durationSeconds, distanceMiles, elevationFeet float64) *domain.RideMetrics {
	return &domain.RideMetrics{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		DurationSeconds: durationSeconds,
		DistanceMiles:   distanceMiles,
		ElevationFeet:   elevationFeet,
		StartedAt:       started,
	}
}
