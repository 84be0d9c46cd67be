package services

import (
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"
)

// Upper bounds applied to ride inputs before scoring, so one corrupt or
// extreme record cannot dominate a component's wear history.
const (
	maxRideDurationSeconds = 86400
	maxRideDistanceMiles   = 500
	maxRideElevationFeet   = 50000
)

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sanitizeRide returns the ride's hours, distance and elevation clamped to
// their plausible ranges.
func sanitizeRide(ride *domain.RideMetrics) (hours, distance, elevation float64) {
	hours = clampRange(ride.DurationSeconds, 0, maxRideDurationSeconds) / 3600
	distance = clampRange(ride.DistanceMiles, 0, maxRideDistanceMiles)
	elevation = clampRange(ride.ElevationFeet, 0, maxRideElevationFeet)
	return hours, distance, elevation
}

// RideWearBreakdown scores one ride against a weight tuple and returns the
// four additive terms separately. The steepness proxy is elevation per mile
// with a one-mile floor so short steep rides still register.
func RideWearBreakdown(ride *domain.RideMetrics, w domain.WearWeights) domain.WearBreakdown {
	h, d, c := sanitizeRide(ride)

	dist := d
	if dist < 1 {
		dist = 1
	}
	v := c / dist

	return domain.WearBreakdown{
		Hours:     w.WH * h,
		Distance:  w.WD * (d / 10),
		Climbing:  w.WC * (c / 3000),
		Steepness: w.WV * (v / 300),
	}
}

// CalculateRideWear returns the total wear score of one ride, never negative.
func CalculateRideWear(ride *domain.RideMetrics, w domain.WearWeights) float64 {
	total := RideWearBreakdown(ride, w).Total()
	if total < 0 {
		return 0
	}
	return total
}

// TotalWear sums the wear scores of a ride set.
func TotalWear(rides []*domain.RideMetrics, w domain.WearWeights) float64 {
	var total float64
	for _, ride := range rides {
		total += CalculateRideWear(ride, w)
	}
	return total
}

// TotalWearBreakdown sums the per-term contributions of a ride set.
func TotalWearBreakdown(rides []*domain.RideMetrics, w domain.WearWeights) domain.WearBreakdown {
	var total domain.WearBreakdown
	for _, ride := range rides {
		b := RideWearBreakdown(ride, w)
		total.Hours += b.Hours
		total.Distance += b.Distance
		total.Climbing += b.Climbing
		total.Steepness += b.Steepness
	}
	return total
}

// TotalHours sums the sanitized hours of a ride set.
func TotalHours(rides []*domain.RideMetrics) float64 {
	var total float64
	for _, ride := range rides {
		h, _, _ := sanitizeRide(ride)
		total += h
	}
	return total
}
