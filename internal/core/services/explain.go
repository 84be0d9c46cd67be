package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"
)

// Human labels for the four wear terms, in breakdown order.
const (
	FactorTime      = "Time in saddle"
	FactorDistance  = "Distance ridden"
	FactorElevation = "Elevation gained"
	FactorIntensity = "Ride intensity"
)

// secondFactorMinPercent is the share a runner-up factor needs before the
// explanation names it alongside the leader.
const secondFactorMinPercent = 20.0

// WearDrivers normalizes a wear breakdown into ranked percentage
// contributions. A zero breakdown yields an even four-way split.
func WearDrivers(b domain.WearBreakdown) []domain.WearDriver {
	total := b.Total()

	drivers := []domain.WearDriver{
		{Factor: FactorTime, Percent: 25},
		{Factor: FactorDistance, Percent: 25},
		{Factor: FactorElevation, Percent: 25},
		{Factor: FactorIntensity, Percent: 25},
	}
	if total > 0 {
		drivers[0].Percent = roundPercent(b.Hours / total * 100)
		drivers[1].Percent = roundPercent(b.Distance / total * 100)
		drivers[2].Percent = roundPercent(b.Climbing / total * 100)
		drivers[3].Percent = roundPercent(b.Steepness / total * 100)
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Percent > drivers[j].Percent
	})
	return drivers
}

// ExplainPrediction renders a status-specific sentence naming the top one
// or two wear drivers.
func ExplainPrediction(status domain.ServiceStatus, drivers []domain.WearDriver) string {
	factors := lowerFactor(drivers[0].Factor)
	if len(drivers) > 1 && drivers[1].Percent >= secondFactorMinPercent {
		factors = fmt.Sprintf("%s and %s", factors, lowerFactor(drivers[1].Factor))
	}

	switch status {
	case domain.StatusOverdue:
		return fmt.Sprintf("Service is overdue, driven mainly by %s.", factors)
	case domain.StatusDueNow:
		return fmt.Sprintf("Service is due now; recent wear comes mostly from %s.", factors)
	case domain.StatusDueSoon:
		return fmt.Sprintf("Service is coming up soon, with %s the biggest factor.", factors)
	default:
		return fmt.Sprintf("No service needed yet; wear so far comes mostly from %s.", factors)
	}
}

func lowerFactor(label string) string {
	return strings.ToLower(label[:1]) + label[1:]
}

func roundPercent(v float64) float64 {
	return math.Round(v*10) / 10
}
