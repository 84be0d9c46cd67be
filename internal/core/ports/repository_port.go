package ports

import (
	"context"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"

	"github.com/google/uuid"
)

type BikeRepository interface {
	GetBikeByID(ctx context.Context, bikeID uuid.UUID) (*domain.Bike, error)
}

type ComponentRepository interface {
	GetActiveComponentsByBikeID(ctx context.Context, bikeID uuid.UUID) ([]*domain.Component, error)
}

type RideRepository interface {
	// GetRecentRides returns up to limit rides started strictly after the
	// optional lower bound, most recent first.
	GetRecentRides(ctx context.Context, userID, bikeID uuid.UUID, after *time.Time, limit int) ([]*domain.RideMetrics, error)
	// GetRidesAfter returns all rides started strictly after the bound,
	// ascending by start time.
	GetRidesAfter(ctx context.Context, userID, bikeID uuid.UUID, after time.Time) ([]*domain.RideMetrics, error)
	GetFirstRideTime(ctx context.Context, userID, bikeID uuid.UUID) (*time.Time, error)
}

type ServiceLogRepository interface {
	GetLastServiceDate(ctx context.Context, componentID uuid.UUID) (*time.Time, error)
}

type PreferenceRepository interface {
	// GetPreferences returns the user's global preferences plus the
	// bike-scoped ones for the given bike.
	GetPreferences(ctx context.Context, userID, bikeID uuid.UUID) ([]*domain.ComponentPreference, error)
}
