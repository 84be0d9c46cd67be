package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"

	"github.com/google/uuid"
)

func floatPtr(v float64) *float64 { return &v }

func newTestPredictor(rides []*domain.RideMetrics, lastService map[uuid.UUID]time.Time, now time.Time) *ComponentPredictor {
	rideRepo := &fakeRideRepo{rides: rides}
	window := NewRideWindowSelector(rideRepo, DefaultTuning())
	window.now = func() time.Time { return now }
	return NewComponentPredictor(
		rideRepo,
		&fakeServiceLogRepo{lastService: lastService},
		window,
		testLogger{},
		DefaultTuning(),
	)
}

func testBike(now time.Time) *domain.Bike {
	return &domain.Bike{
		UserID:    uuid.New(),
		BikeID:    uuid.New(),
		BikeName:  "Trail Bike",
		CreatedAt: now.AddDate(-1, 0, 0),
	}
}

func TestResolveInterval(t *testing.T) {
	chain := &domain.Component{Type: domain.Chain}

	tests := []struct {
		name   string
		comp   *domain.Component
		custom *float64
		want   float64
	}{
		{"component override wins", &domain.Component{Type: domain.Chain, ServiceDueAtHours: floatPtr(70)}, floatPtr(120), 70},
		{"custom interval beats catalog", chain, floatPtr(120), 120},
		{"catalog value", chain, nil, 100},
		{"zero override ignored", &domain.Component{Type: domain.Chain, ServiceDueAtHours: floatPtr(0)}, nil, 100},
		{"front brake pad", &domain.Component{Type: domain.BrakePad, Location: domain.LocationFront}, nil, 120},
		{"rear brake pad", &domain.Component{Type: domain.BrakePad, Location: domain.LocationRear}, nil, 100},
		{"paired without location gets rear", &domain.Component{Type: domain.Tire}, nil, 150},
		{"unknown type gets default", &domain.Component{Type: domain.ComponentType("gearbox")}, nil, domain.DefaultIntervalHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveInterval(tt.comp, tt.custom); got != tt.want {
				t.Errorf("resolveInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredictDeterministicOverdue(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	bike := testBike(now)
	comp := &domain.Component{ID: uuid.New(), Type: domain.Chain, ServiceDueAtHours: floatPtr(70)}

	// Ten rides of 8.2 hours each since the last service: 82 hours against a
	// 70 hour interval.
	var rides []*domain.RideMetrics
	for i := 0; i < 10; i++ {
		rides = append(rides, rideAt(now.AddDate(0, 0, -2*(i+1)), 29520, 15, 1000))
	}
	lastService := map[uuid.UUID]time.Time{comp.ID: now.AddDate(0, 0, -60)}

	predictor := newTestPredictor(rides, lastService, now)
	pred, err := predictor.Predict(context.Background(), bike, comp, nil, domain.TierFree, domain.ModeAdaptive)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if pred.HoursRemaining != 0 {
		t.Errorf("HoursRemaining = %v, want 0", pred.HoursRemaining)
	}
	if pred.Status != domain.StatusOverdue {
		t.Errorf("Status = %v, want OVERDUE", pred.Status)
	}
	if pred.Confidence != domain.ConfidenceHigh {
		t.Errorf("Confidence = %v, want HIGH", pred.Confidence)
	}
	if pred.RidesRemaining != 0 {
		t.Errorf("RidesRemaining = %v, want 0", pred.RidesRemaining)
	}
	if pred.IntervalHours != 70 {
		t.Errorf("IntervalHours = %v, want 70", pred.IntervalHours)
	}
	if pred.Why != nil || pred.Drivers != nil {
		t.Error("free tier must not include Why or Drivers")
	}
}

func TestPredictNoRecentRidesMatchesDeterministic(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	bike := testBike(now)
	comp := &domain.Component{ID: uuid.New(), Type: domain.Chain}
	lastService := map[uuid.UUID]time.Time{comp.ID: now.AddDate(0, 0, -30)}

	predictor := newTestPredictor(nil, lastService, now)
	adaptive, err := predictor.Predict(context.Background(), bike, comp, nil, domain.TierPaid, domain.ModeAdaptive)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	deterministic, err := predictor.Predict(context.Background(), bike, comp, nil, domain.TierPaid, domain.ModeDeterministic)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if adaptive.HoursRemaining != deterministic.HoursRemaining {
		t.Errorf("adaptive HoursRemaining = %v, deterministic = %v; must match with no recent rides",
			adaptive.HoursRemaining, deterministic.HoursRemaining)
	}
	if adaptive.HoursRemaining != 100 {
		t.Errorf("HoursRemaining = %v, want full catalog interval 100", adaptive.HoursRemaining)
	}
	if adaptive.Status != domain.StatusAllGood {
		t.Errorf("Status = %v, want ALL_GOOD", adaptive.Status)
	}
	if adaptive.Confidence != domain.ConfidenceLow {
		t.Errorf("Confidence = %v, want LOW", adaptive.Confidence)
	}
	if adaptive.Why == nil || len(adaptive.Drivers) != 4 {
		t.Error("paid tier must include Why and Drivers even without ride data")
	}
	if adaptive.EstimatedDaysToDue != nil {
		t.Errorf("EstimatedDaysToDue = %v, want nil without recent rides", *adaptive.EstimatedDaysToDue)
	}
}

func TestPredictAdaptiveIntenseRidingShrinksInterval(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	bike := testBike(now)
	comp := &domain.Component{ID: uuid.New(), Type: domain.Chain, ServiceDueAtHours: floatPtr(70)}

	// Five hard rides: one hour, 20 miles, 6000 feet each. Chain wear per
	// ride is 7.2, so wear per hour is 7.2 and the ratio clamps at 1.5.
	var rides []*domain.RideMetrics
	for i := 0; i < 5; i++ {
		rides = append(rides, rideAt(now.AddDate(0, 0, -2*(i+1)), 3600, 20, 6000))
	}
	lastService := map[uuid.UUID]time.Time{comp.ID: now.AddDate(0, 0, -15)}

	predictor := newTestPredictor(rides, lastService, now)
	pred, err := predictor.Predict(context.Background(), bike, comp, nil, domain.TierPaid, domain.ModeAdaptive)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// effective = min(70*1.25, 70/1.5) = 46.67; (46.67 - 36) / 7.2 = 1.48
	if pred.HoursRemaining != 1.5 {
		t.Errorf("HoursRemaining = %v, want 1.5", pred.HoursRemaining)
	}
	if pred.Status != domain.StatusDueNow {
		t.Errorf("Status = %v, want DUE_NOW", pred.Status)
	}
	if pred.RidesRemaining != 2 {
		t.Errorf("RidesRemaining = %v, want 2", pred.RidesRemaining)
	}
	if pred.Confidence != domain.ConfidenceMedium {
		t.Errorf("Confidence = %v, want MEDIUM", pred.Confidence)
	}
	// Five ride hours over an eight day span is 0.625 h/day of cadence.
	if pred.EstimatedDaysToDue == nil || *pred.EstimatedDaysToDue != 2.4 {
		t.Errorf("EstimatedDaysToDue = %v, want 2.4", pred.EstimatedDaysToDue)
	}
	if pred.Why == nil || !strings.Contains(*pred.Why, "due now") {
		t.Errorf("Why = %v, want a due-now explanation", pred.Why)
	}
}

func TestPredictAdaptiveEasyRidingCapsExtension(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	bike := testBike(now)
	comp := &domain.Component{ID: uuid.New(), Type: domain.Tire, Location: domain.LocationRear}

	// Flat cruising: tire wear per hour is 0.6, ratio clamps at 0.75, and
	// the effective interval caps at 1.25x the base rather than 1/0.75.
	var rides []*domain.RideMetrics
	for i := 0; i < 5; i++ {
		rides = append(rides, rideAt(now.AddDate(0, 0, -2*(i+1)), 3600, 0, 0))
	}
	lastService := map[uuid.UUID]time.Time{comp.ID: now.AddDate(0, 0, -15)}

	predictor := newTestPredictor(rides, lastService, now)
	pred, err := predictor.Predict(context.Background(), bike, comp, nil, domain.TierPaid, domain.ModeAdaptive)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// effective = min(150*1.25, 150/0.75) = 187.5; (187.5 - 3) / 0.6 = 307.5
	if pred.HoursRemaining != 307.5 {
		t.Errorf("HoursRemaining = %v, want 307.5", pred.HoursRemaining)
	}
	if pred.Status != domain.StatusAllGood {
		t.Errorf("Status = %v, want ALL_GOOD", pred.Status)
	}
}

func TestPredictDeterministicModeSkipsAdaptive(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	bike := testBike(now)
	comp := &domain.Component{ID: uuid.New(), Type: domain.Chain, ServiceDueAtHours: floatPtr(70)}

	var rides []*domain.RideMetrics
	for i := 0; i < 5; i++ {
		rides = append(rides, rideAt(now.AddDate(0, 0, -2*(i+1)), 3600, 20, 6000))
	}
	lastService := map[uuid.UUID]time.Time{comp.ID: now.AddDate(0, 0, -15)}

	predictor := newTestPredictor(rides, lastService, now)
	pred, err := predictor.Predict(context.Background(), bike, comp, nil, domain.TierPaid, domain.ModeDeterministic)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if pred.HoursRemaining != 65 {
		t.Errorf("HoursRemaining = %v, want 65 (interval minus hours ridden)", pred.HoursRemaining)
	}
	if pred.Status != domain.StatusAllGood {
		t.Errorf("Status = %v, want ALL_GOOD", pred.Status)
	}
}

func TestPredictAnchorFallsBackToFirstRide(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	bike := testBike(now)
	comp := &domain.Component{ID: uuid.New(), Type: domain.Chain}

	// No service log: wear accumulates from the first ride, which is itself
	// excluded because the since-service set is strictly after the anchor.
	rides := []*domain.RideMetrics{
		rideAt(now.AddDate(0, 0, -20), 3600, 10, 500),
		rideAt(now.AddDate(0, 0, -10), 7200, 15, 800),
		rideAt(now.AddDate(0, 0, -5), 7200, 15, 800),
	}

	predictor := newTestPredictor(rides, nil, now)
	pred, err := predictor.Predict(context.Background(), bike, comp, nil, domain.TierFree, domain.ModeAdaptive)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if pred.HoursSinceService != 4 {
		t.Errorf("HoursSinceService = %v, want 4 (first ride excluded)", pred.HoursSinceService)
	}
}

func TestStatusFor(t *testing.T) {
	predictor := newTestPredictor(nil, nil, time.Now())

	tests := []struct {
		hours float64
		want  domain.ServiceStatus
	}{
		{-1, domain.StatusOverdue},
		{0, domain.StatusOverdue},
		{0.1, domain.StatusDueNow},
		{5, domain.StatusDueNow},
		{5.1, domain.StatusDueSoon},
		{15, domain.StatusDueSoon},
		{15.1, domain.StatusAllGood},
		{500, domain.StatusAllGood},
	}

	for _, tt := range tests {
		if got := predictor.statusFor(tt.hours); got != tt.want {
			t.Errorf("statusFor(%v) = %v, want %v", tt.hours, got, tt.want)
		}
	}
}

func TestConfidenceFor(t *testing.T) {
	predictor := newTestPredictor(nil, nil, time.Now())

	tests := []struct {
		rides int
		hours float64
		want  domain.Confidence
	}{
		{10, 20, domain.ConfidenceHigh},
		{15, 40, domain.ConfidenceHigh},
		{10, 19, domain.ConfidenceMedium}, // hours short of HIGH
		{9, 25, domain.ConfidenceMedium},  // rides short of HIGH
		{4, 0, domain.ConfidenceMedium},
		{0, 8, domain.ConfidenceMedium},
		{3, 7.9, domain.ConfidenceLow},
		{0, 0, domain.ConfidenceLow},
	}

	for _, tt := range tests {
		if got := predictor.confidenceFor(tt.rides, tt.hours); got != tt.want {
			t.Errorf("confidenceFor(%d, %v) = %v, want %v", tt.rides, tt.hours, got, tt.want)
		}
	}
}
