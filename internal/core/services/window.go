package services

import (
	"context"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/ports"

	"github.com/google/uuid"
)

// RideWindowSelector picks the ride samples that feed the wear model: a
// bounded most-recent sample for intensity estimation, and the full
// since-last-service set.
type RideWindowSelector struct {
	rides  ports.RideRepository
	tuning Tuning
	now    func() time.Time
}

func NewRideWindowSelector(rides ports.RideRepository, tuning Tuning) *RideWindowSelector {
	return &RideWindowSelector{
		rides:  rides,
		tuning: tuning,
		now:    time.Now,
	}
}

// RecentSample returns up to RecentSampleSize rides, most recent first.
// It tries the primary lookback window, widens to the fallback window when
// the sample is short, and finally drops the window entirely. A non-nil
// lowerBound is a hard floor in every phase: no ride at or before it is
// ever returned.
func (s *RideWindowSelector) RecentSample(ctx context.Context, userID, bikeID uuid.UUID, lowerBound *time.Time) ([]*domain.RideMetrics, error) {
	now := s.now()
	target := s.tuning.RecentSampleSize

	primary := now.AddDate(0, 0, -s.tuning.PrimaryLookbackDays)
	rides, err := s.rides.GetRecentRides(ctx, userID, bikeID, laterOf(primary, lowerBound), target)
	if err != nil {
		return nil, err
	}
	if len(rides) >= target {
		return rides, nil
	}

	fallback := now.AddDate(0, 0, -s.tuning.FallbackLookbackDays)
	rides, err = s.rides.GetRecentRides(ctx, userID, bikeID, laterOf(fallback, lowerBound), target)
	if err != nil {
		return nil, err
	}
	if len(rides) >= target {
		return rides, nil
	}

	return s.rides.GetRecentRides(ctx, userID, bikeID, lowerBound, target)
}

// SinceService returns every ride strictly after the anchor date, ascending
// by start time. The anchor is the last-service date, or the first-ever ride,
// or bike creation when neither exists.
func (s *RideWindowSelector) SinceService(ctx context.Context, userID, bikeID uuid.UUID, anchor time.Time) ([]*domain.RideMetrics, error) {
	return s.rides.GetRidesAfter(ctx, userID, bikeID, anchor)
}

// laterOf returns a pointer to the later of the window start and the
// optional hard lower bound.
func laterOf(windowStart time.Time, lowerBound *time.Time) *time.Time {
	if lowerBound != nil && lowerBound.After(windowStart) {
		return lowerBound
	}
	return &windowStart
}
