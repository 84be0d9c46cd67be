package domain

import (
	"time"

	"github.com/google/uuid"
)

// RideMetrics is the read-only ride record the prediction engine consumes.
// Numeric fields arrive unsanitized from the activity sync pipeline.
type RideMetrics struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	BikeID          *uuid.UUID `json:"bike_id,omitempty"`
	DurationSeconds float64    `json:"duration_seconds"`
	DistanceMiles   float64    `json:"distance_miles"`
	ElevationFeet   float64    `json:"elevation_feet"`
	StartedAt       time.Time  `json:"started_at"`
}

// Hours returns the ride duration in hours without sanitization.
func (r *RideMetrics) Hours() float64 {
	return r.DurationSeconds / 3600
}

// ServiceLog records a maintenance event for a component.
type ServiceLog struct {
	ID          uuid.UUID `json:"id"`
	ComponentID uuid.UUID `json:"component_id"`
	ServicedAt  time.Time `json:"serviced_at"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
