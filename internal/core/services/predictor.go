package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/ports"
)

const wearPerHourEpsilon = 1e-6

// ComponentPredictor computes the service prediction for one component.
type ComponentPredictor struct {
	rides       ports.RideRepository
	serviceLogs ports.ServiceLogRepository
	window      *RideWindowSelector
	logger      ports.LoggerPort
	tuning      Tuning
}

func NewComponentPredictor(
	rides ports.RideRepository,
	serviceLogs ports.ServiceLogRepository,
	window *RideWindowSelector,
	logger ports.LoggerPort,
	tuning Tuning,
) *ComponentPredictor {
	return &ComponentPredictor{
		rides:       rides,
		serviceLogs: serviceLogs,
		window:      window,
		logger:      logger,
		tuning:      tuning,
	}
}

// resolveInterval picks the effective base interval: the component's own
// override, then a preference-supplied custom interval, then the catalog.
func resolveInterval(comp *domain.Component, customInterval *float64) float64 {
	if comp.ServiceDueAtHours != nil && *comp.ServiceDueAtHours > 0 {
		return *comp.ServiceDueAtHours
	}
	if customInterval != nil && *customInterval > 0 {
		return *customInterval
	}
	return domain.IntervalFor(comp.Type, comp.Location)
}

// serviceAnchor determines the date wear accumulates from: the last logged
// service, else the first-ever ride, else bike creation.
func (p *ComponentPredictor) serviceAnchor(ctx context.Context, bike *domain.Bike, comp *domain.Component) (time.Time, error) {
	last, err := p.serviceLogs.GetLastServiceDate(ctx, comp.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last service date: %w", err)
	}
	if last != nil {
		return *last, nil
	}

	first, err := p.rides.GetFirstRideTime(ctx, bike.UserID, bike.BikeID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get first ride time: %w", err)
	}
	if first != nil {
		return *first, nil
	}

	return bike.CreatedAt, nil
}

// Predict runs the deterministic or adaptive prediction for one component.
// The adaptive branch applies only to the paid tier in adaptive mode and
// only when recent rides exist; otherwise the result matches the
// deterministic branch.
func (p *ComponentPredictor) Predict(
	ctx context.Context,
	bike *domain.Bike,
	comp *domain.Component,
	customInterval *float64,
	tier domain.PlanTier,
	mode domain.PredictionMode,
) (*domain.ComponentPrediction, error) {
	interval := resolveInterval(comp, customInterval)
	weights := domain.WeightsFor(comp.Type)

	anchor, err := p.serviceAnchor(ctx, bike, comp)
	if err != nil {
		return nil, err
	}

	sinceRides, err := p.window.SinceService(ctx, bike.UserID, bike.BikeID, anchor)
	if err != nil {
		return nil, fmt.Errorf("failed to get rides since service: %w", err)
	}
	hoursSinceService := TotalHours(sinceRides)

	recentRides, err := p.window.RecentSample(ctx, bike.UserID, bike.BikeID, &anchor)
	if err != nil {
		return nil, fmt.Errorf("failed to sample recent rides: %w", err)
	}

	hoursRemaining := math.Max(0, interval-hoursSinceService)

	adaptive := tier == domain.TierPaid && mode == domain.ModeAdaptive && len(recentRides) > 0
	if adaptive {
		wearSinceService := TotalWear(sinceRides, weights)
		recentWearPerHour := wearPerHour(recentRides, weights)

		ratio := clampRange(recentWearPerHour/p.tuning.BaselineWearPerHour, p.tuning.WearRatioMin, p.tuning.WearRatioMax)
		effective := math.Min(interval*p.tuning.MaxExtensionRatio, interval/ratio)

		hoursRemaining = math.Max(0, (effective-wearSinceService)/math.Max(recentWearPerHour, wearPerHourEpsilon))
	}

	hoursRemaining = roundTenth(hoursRemaining)
	status := p.statusFor(hoursRemaining)

	pred := &domain.ComponentPrediction{
		ComponentID:        comp.ID,
		Type:               comp.Type,
		Location:           comp.Location,
		Brand:              comp.Brand,
		Model:              comp.Model,
		Status:             status,
		HoursRemaining:     hoursRemaining,
		RidesRemaining:     ridesRemaining(hoursRemaining, recentRides),
		EstimatedDaysToDue: estimatedDaysToDue(hoursRemaining, recentRides),
		Confidence:         p.confidenceFor(len(sinceRides), hoursSinceService),
		CurrentHours:       comp.HoursUsed,
		IntervalHours:      interval,
		HoursSinceService:  roundTenth(hoursSinceService),
	}

	if tier == domain.TierPaid {
		breakdown := TotalWearBreakdown(recentRides, weights)
		pred.Drivers = WearDrivers(breakdown)
		why := ExplainPrediction(status, pred.Drivers)
		pred.Why = &why
	}

	return pred, nil
}

// statusFor maps hours remaining onto a service status. The thresholds are
// checked from most to least urgent so the mapping stays deterministic.
func (p *ComponentPredictor) statusFor(hoursRemaining float64) domain.ServiceStatus {
	switch {
	case hoursRemaining <= 0:
		return domain.StatusOverdue
	case hoursRemaining <= p.tuning.DueNowThresholdHours:
		return domain.StatusDueNow
	case hoursRemaining <= p.tuning.DueSoonThresholdHours:
		return domain.StatusDueSoon
	default:
		return domain.StatusAllGood
	}
}

// confidenceFor grades how much ride data backs the estimate. HIGH needs
// both the ride-count and hour minimums; MEDIUM needs either of the lower
// ones.
func (p *ComponentPredictor) confidenceFor(rideCount int, totalHours float64) domain.Confidence {
	if rideCount >= p.tuning.HighConfidenceRides && totalHours >= p.tuning.HighConfidenceHours {
		return domain.ConfidenceHigh
	}
	if rideCount >= p.tuning.MedConfidenceRides || totalHours >= p.tuning.MedConfidenceHours {
		return domain.ConfidenceMedium
	}
	return domain.ConfidenceLow
}

func wearPerHour(rides []*domain.RideMetrics, w domain.WearWeights) float64 {
	hours := TotalHours(rides)
	if len(rides) == 0 || hours <= 0 {
		return 1.0
	}
	return TotalWear(rides, w) / hours
}

func ridesRemaining(hoursRemaining float64, recentRides []*domain.RideMetrics) int {
	if hoursRemaining <= 0 || len(recentRides) == 0 {
		return 0
	}
	avg := TotalHours(recentRides) / float64(len(recentRides))
	if avg <= 0 {
		return 0
	}
	return int(math.Round(hoursRemaining / avg))
}

// estimatedDaysToDue projects hours remaining onto the rider's recent
// cadence, hours ridden per day over the sampled window. Nil without a
// usable recent sample.
func estimatedDaysToDue(hoursRemaining float64, recentRides []*domain.RideMetrics) *float64 {
	hours := TotalHours(recentRides)
	if len(recentRides) == 0 || hours <= 0 {
		return nil
	}

	newest, oldest := recentRides[0].StartedAt, recentRides[0].StartedAt
	for _, ride := range recentRides[1:] {
		if ride.StartedAt.After(newest) {
			newest = ride.StartedAt
		}
		if ride.StartedAt.Before(oldest) {
			oldest = ride.StartedAt
		}
	}
	spanDays := newest.Sub(oldest).Hours() / 24
	if spanDays < 1 {
		spanDays = 1
	}

	days := roundTenth(hoursRemaining / (hours / spanDays))
	return &days
}

func roundTenth(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Round(v*10) / 10
}
