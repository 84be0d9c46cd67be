package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PredictionService orchestrates a bike-level prediction: cache lookup,
// data fetch, parallel per-component prediction and aggregation.
type PredictionService struct {
	bikeRepo      ports.BikeRepository
	componentRepo ports.ComponentRepository
	prefRepo      ports.PreferenceRepository
	predictor     *ComponentPredictor
	cache         ports.PredictionCache
	logger        ports.LoggerPort
	algoVersion   string
}

func NewPredictionService(
	bikeRepo ports.BikeRepository,
	componentRepo ports.ComponentRepository,
	prefRepo ports.PreferenceRepository,
	predictor *ComponentPredictor,
	cache ports.PredictionCache,
	logger ports.LoggerPort,
	algoVersion string,
) *PredictionService {
	return &PredictionService{
		bikeRepo:      bikeRepo,
		componentRepo: componentRepo,
		prefRepo:      prefRepo,
		predictor:     predictor,
		cache:         cache,
		logger:        logger,
		algoVersion:   algoVersion,
	}
}

// CacheKey builds the durable-tier key. Any change to this layout must bump
// the algorithm version segment to avoid cross-version collisions.
func CacheKey(algoVersion string, userID, bikeID uuid.UUID, tier domain.PlanTier, mode domain.PredictionMode) string {
	return fmt.Sprintf("pred:%s:user:%s:bike:%s:tier:%s:mode:%s", algoVersion, userID, bikeID, tier, mode)
}

func bikeInvalidationPrefix(algoVersion string, userID, bikeID uuid.UUID) string {
	return fmt.Sprintf("pred:%s:user:%s:bike:%s:", algoVersion, userID, bikeID)
}

func userInvalidationPrefix(algoVersion string, userID uuid.UUID) string {
	return fmt.Sprintf("pred:%s:user:%s:", algoVersion, userID)
}

// GetBikeByID resolves a bike from its string identifier. Handlers use it
// for the ownership check before requesting predictions.
func (s *PredictionService) GetBikeByID(ctx context.Context, bikeID string) (*domain.Bike, error) {
	bikeUUID, err := uuid.Parse(bikeID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"bike_id": bikeID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("invalid bike ID: %w", err)
	}

	bike, err := s.bikeRepo.GetBikeByID(ctx, bikeUUID)
	if err != nil {
		s.logger.Error("Failed to get bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, err
	}
	return bike, nil
}

// GetBikePrediction returns the cached summary for (user, bike, tier, mode)
// or computes and caches a fresh one. Component predictions run in
// parallel; each goroutine writes only its own slot.
func (s *PredictionService) GetBikePrediction(
	ctx context.Context,
	bike *domain.Bike,
	tier domain.PlanTier,
	mode domain.PredictionMode,
) (*domain.BikePredictionSummary, error) {
	key := CacheKey(s.algoVersion, bike.UserID, bike.BikeID, tier, mode)
	if summary, ok := s.cache.GetSummary(ctx, key); ok {
		return summary, nil
	}

	components, err := s.componentRepo.GetActiveComponentsByBikeID(ctx, bike.BikeID)
	if err != nil {
		s.logger.Error("Failed to get components", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bike.BikeID.String(),
		})
		return nil, err
	}

	prefs := s.loadPreferences(ctx, bike.UserID, bike.BikeID)
	eligible := make([]*domain.Component, 0, len(components))
	for _, comp := range components {
		if !comp.Type.Trackable() {
			continue
		}
		if pref, ok := prefs[comp.Type]; ok && !pref.enabled {
			continue
		}
		eligible = append(eligible, comp)
	}

	predictions := make([]domain.ComponentPrediction, len(eligible))
	g, gctx := errgroup.WithContext(ctx)
	for i, comp := range eligible {
		g.Go(func() error {
			pref := prefs[comp.Type]
			pred, err := s.predictor.Predict(gctx, bike, comp, pref.customInterval, tier, mode)
			if err != nil {
				return fmt.Errorf("predict %s: %w", comp.Type, err)
			}
			predictions[i] = *pred
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("Component prediction failed", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bike.BikeID.String(),
		})
		return nil, err
	}

	summary := Aggregate(bike, predictions, s.algoVersion)
	s.cache.SetSummary(ctx, key, summary)

	s.logger.Info("Prediction summary generated", map[string]interface{}{
		"bike_id":          bike.BikeID.String(),
		"components_count": len(summary.Components),
		"overall_status":   string(summary.OverallStatus),
		"tier":             string(tier),
	})

	return summary, nil
}

// InvalidateBike drops every cached summary for one bike across tiers and
// modes. Called when a service is logged or rides change.
func (s *PredictionService) InvalidateBike(ctx context.Context, userID, bikeID uuid.UUID) {
	s.cache.Invalidate(ctx, bikeInvalidationPrefix(s.algoVersion, userID, bikeID))
	s.logger.Info("Invalidated bike predictions", map[string]interface{}{
		"user_id": userID.String(),
		"bike_id": bikeID.String(),
	})
}

// InvalidateUser drops every cached summary for a user, e.g. on a role
// change.
func (s *PredictionService) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	s.cache.Invalidate(ctx, userInvalidationPrefix(s.algoVersion, userID))
	s.logger.Info("Invalidated user predictions", map[string]interface{}{
		"user_id": userID.String(),
	})
}

// Aggregate builds the bike-level summary from per-component predictions.
// Components are ordered most urgent first; the priority component is the
// most severe, ties broken by lowest hours remaining.
func Aggregate(bike *domain.Bike, predictions []domain.ComponentPrediction, algoVersion string) *domain.BikePredictionSummary {
	sorted := make([]domain.ComponentPrediction, len(predictions))
	copy(sorted, predictions)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].Status.Severity(), sorted[j].Status.Severity()
		if si != sj {
			return si > sj
		}
		return sorted[i].HoursRemaining < sorted[j].HoursRemaining
	})

	summary := &domain.BikePredictionSummary{
		BikeID:        bike.BikeID,
		BikeName:      bike.BikeName,
		Components:    sorted,
		OverallStatus: domain.StatusAllGood,
		GeneratedAt:   time.Now().UTC(),
		AlgoVersion:   algoVersion,
	}

	if len(sorted) > 0 {
		priority := sorted[0]
		summary.PriorityComponent = &priority
		summary.OverallStatus = priority.Status
	}
	for _, pred := range sorted {
		switch pred.Status {
		case domain.StatusDueNow:
			summary.DueNowCount++
		case domain.StatusDueSoon:
			summary.DueSoonCount++
		}
	}

	return summary
}

type resolvedPreference struct {
	enabled        bool
	customInterval *float64
}

// loadPreferences flattens the user's preference rows into one decision per
// component type, bike scope overriding global scope. Preference store
// failures degrade to defaults rather than failing the prediction.
func (s *PredictionService) loadPreferences(ctx context.Context, userID, bikeID uuid.UUID) map[domain.ComponentType]resolvedPreference {
	resolved := make(map[domain.ComponentType]resolvedPreference)

	prefs, err := s.prefRepo.GetPreferences(ctx, userID, bikeID)
	if err != nil {
		s.logger.Warn("Failed to get preferences", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID.String(),
		})
		return resolved
	}

	// Global rows first so bike rows overwrite them.
	for _, pref := range prefs {
		if pref.Scope == domain.ScopeGlobal {
			resolved[pref.ComponentType] = resolvedPreference{enabled: pref.Enabled, customInterval: pref.CustomIntervalHours}
		}
	}
	for _, pref := range prefs {
		if pref.Scope == domain.ScopeBike && pref.BikeID != nil && *pref.BikeID == bikeID {
			resolved[pref.ComponentType] = resolvedPreference{enabled: pref.Enabled, customInterval: pref.CustomIntervalHours}
		}
	}

	return resolved
}
