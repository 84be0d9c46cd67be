package services

import (
	"context"
	"testing"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"

	"github.com/google/uuid"
)

func newTestSelector(rides []*domain.RideMetrics, now time.Time) *RideWindowSelector {
	selector := NewRideWindowSelector(&fakeRideRepo{rides: rides}, DefaultTuning())
	selector.now = func() time.Time { return now }
	return selector
}

func ridesAgo(now time.Time, daysAgo ...int) []*domain.RideMetrics {
	rides := make([]*domain.RideMetrics, 0, len(daysAgo))
	for _, d := range daysAgo {
		rides = append(rides, rideAt(now.AddDate(0, 0, -d), 3600, 10, 500))
	}
	return rides
}

func TestRecentSamplePrimaryWindowSatisfiesTarget(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	rides := ridesAgo(now, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)

	selector := newTestSelector(rides, now)
	got, err := selector.RecentSample(context.Background(), uuid.New(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("RecentSample() error = %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].StartedAt.After(got[i-1].StartedAt) {
			t.Errorf("rides[%d] not in most-recent-first order", i)
		}
	}
}

func TestRecentSampleWidensToFallbackWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	// 3 rides inside 30 days, 5 more inside 90, 2 older.
	rides := ridesAgo(now, 5, 10, 20, 40, 50, 60, 70, 80, 120, 150)

	selector := newTestSelector(rides, now)
	got, err := selector.RecentSample(context.Background(), uuid.New(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("RecentSample() error = %v", err)
	}
	// Neither window reaches the target, so the final uncapped query wins.
	if len(got) != 10 {
		t.Fatalf("len = %d, want all 10 rides", len(got))
	}
}

func TestRecentSampleStopsAtFallbackWhenFull(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	rides := ridesAgo(now, 5, 35, 40, 45, 50, 55, 60, 65, 70, 75, 120, 150)

	selector := newTestSelector(rides, now)
	got, err := selector.RecentSample(context.Background(), uuid.New(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("RecentSample() error = %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	cutoff := now.AddDate(0, 0, -90)
	for _, ride := range got {
		if !ride.StartedAt.After(cutoff) {
			t.Errorf("ride at %v is outside the fallback window", ride.StartedAt)
		}
	}
}

func TestRecentSampleHonorsLowerBound(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	rides := ridesAgo(now, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20)

	// Service happened 9 days ago; rides before it must never appear even
	// though the sample falls short of the target.
	lowerBound := now.AddDate(0, 0, -9)
	selector := newTestSelector(rides, now)
	got, err := selector.RecentSample(context.Background(), uuid.New(), uuid.New(), &lowerBound)
	if err != nil {
		t.Fatalf("RecentSample() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4 rides after the lower bound", len(got))
	}
	for _, ride := range got {
		if !ride.StartedAt.After(lowerBound) {
			t.Errorf("ride at %v is at or before the lower bound", ride.StartedAt)
		}
	}
}

func TestSinceServiceAscending(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	rides := ridesAgo(now, 1, 3, 5, 7, 30)
	anchor := now.AddDate(0, 0, -10)

	selector := newTestSelector(rides, now)
	got, err := selector.SinceService(context.Background(), uuid.New(), uuid.New(), anchor)
	if err != nil {
		t.Fatalf("SinceService() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].StartedAt.Before(got[i-1].StartedAt) {
			t.Errorf("rides[%d] not in ascending order", i)
		}
	}
}
