package domain

import (
	"time"

	"github.com/google/uuid"
)

type ServiceStatus string

const (
	StatusAllGood ServiceStatus = "ALL_GOOD"
	StatusDueSoon ServiceStatus = "DUE_SOON"
	StatusDueNow  ServiceStatus = "DUE_NOW"
	StatusOverdue ServiceStatus = "OVERDUE"
)

// Severity orders statuses for aggregation: OVERDUE > DUE_NOW > DUE_SOON > ALL_GOOD.
func (s ServiceStatus) Severity() int {
	switch s {
	case StatusOverdue:
		return 3
	case StatusDueNow:
		return 2
	case StatusDueSoon:
		return 1
	default:
		return 0
	}
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

type PlanTier string

const (
	TierFree PlanTier = "free"
	TierPaid PlanTier = "paid"
)

type PredictionMode string

const (
	ModeAdaptive      PredictionMode = "adaptive"
	ModeDeterministic PredictionMode = "deterministic"
)

// WearBreakdown holds the four additive wear-score terms for a ride set.
type WearBreakdown struct {
	Hours     float64 `json:"hours"`
	Distance  float64 `json:"distance"`
	Climbing  float64 `json:"climbing"`
	Steepness float64 `json:"steepness"`
}

func (b WearBreakdown) Total() float64 {
	return b.Hours + b.Distance + b.Climbing + b.Steepness
}

// WearDriver is one ranked contributor to a component's wear.
type WearDriver struct {
	Factor  string  `json:"factor"`
	Percent float64 `json:"percent"`
}

type ComponentPrediction struct {
	ComponentID        uuid.UUID     `json:"component_id" validate:"required"`
	Type               ComponentType `json:"type" validate:"required"`
	Location           MountLocation `json:"location"`
	Brand              string        `json:"brand,omitempty"`
	Model              string        `json:"model,omitempty"`
	Status             ServiceStatus `json:"status" validate:"required,oneof=ALL_GOOD DUE_SOON DUE_NOW OVERDUE"`
	HoursRemaining     float64       `json:"hours_remaining" validate:"min=0"`
	RidesRemaining     int           `json:"rides_remaining"`
	EstimatedDaysToDue *float64      `json:"estimated_days_to_due,omitempty"`
	Confidence         Confidence    `json:"confidence" validate:"required,oneof=HIGH MEDIUM LOW"`
	CurrentHours       float64       `json:"current_hours"`
	IntervalHours      float64       `json:"interval_hours"`
	HoursSinceService  float64       `json:"hours_since_service"`
	Why                *string       `json:"why,omitempty"`
	Drivers            []WearDriver  `json:"drivers,omitempty"`
}

// BikePredictionSummary is the cached result of a full prediction run.
// GeneratedAt serializes as RFC3339 and rehydrates on cache reads.
type BikePredictionSummary struct {
	BikeID            uuid.UUID             `json:"bike_id" validate:"required"`
	BikeName          string                `json:"bike_name"`
	Components        []ComponentPrediction `json:"components" validate:"dive"`
	PriorityComponent *ComponentPrediction  `json:"priority_component,omitempty"`
	OverallStatus     ServiceStatus         `json:"overall_status" validate:"required,oneof=ALL_GOOD DUE_SOON DUE_NOW OVERDUE"`
	DueNowCount       int                   `json:"due_now_count" validate:"min=0"`
	DueSoonCount      int                   `json:"due_soon_count" validate:"min=0"`
	GeneratedAt       time.Time             `json:"generated_at" validate:"required"`
	AlgoVersion       string                `json:"algo_version" validate:"required"`
}
