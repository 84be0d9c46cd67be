package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/ports"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/runtime"
	httptransport "github.com/go-openapi/runtime/client"
	"github.com/google/uuid"
	user_client "github.com/sm8ta/webike_user_microservice_nikita/pkg/client"
	"github.com/sm8ta/webike_user_microservice_nikita/pkg/client/users"
)

type PredictionHandler struct {
	predictionService *services.PredictionService
	logger            ports.LoggerPort
	metrics           ports.MetricsPort
	userClient        *user_client.UserMicroservice
}

func NewPredictionHandler(
	predictionService *services.PredictionService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
	userClient *user_client.UserMicroservice,
) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		logger:            logger,
		metrics:           metrics,
		userClient:        userClient,
	}
}

type WearDriverInfo struct {
	Factor  string  `json:"factor"`
	Percent float64 `json:"percent"`
}

type ComponentPredictionInfo struct {
	ComponentID        uuid.UUID        `json:"component_id"`
	Type               string           `json:"type"`
	Location           string           `json:"location"`
	Brand              string           `json:"brand,omitempty"`
	Model              string           `json:"model,omitempty"`
	Status             string           `json:"status"`
	HoursRemaining     float64          `json:"hours_remaining"`
	RidesRemaining     int              `json:"rides_remaining"`
	EstimatedDaysToDue *float64         `json:"estimated_days_to_due,omitempty"`
	Confidence         string           `json:"confidence"`
	CurrentHours       float64          `json:"current_hours"`
	IntervalHours      float64          `json:"interval_hours"`
	HoursSinceService  float64          `json:"hours_since_service"`
	Why                *string          `json:"why,omitempty"`
	Drivers            []WearDriverInfo `json:"drivers,omitempty"`
}

type GetPredictionsResponse struct {
	BikeID            uuid.UUID                 `json:"bike_id"`
	BikeName          string                    `json:"bike_name"`
	Components        []ComponentPredictionInfo `json:"components"`
	PriorityComponent *ComponentPredictionInfo  `json:"priority_component,omitempty"`
	OverallStatus     string                    `json:"overall_status"`
	DueNowCount       int                       `json:"due_now_count"`
	DueSoonCount      int                       `json:"due_soon_count"`
	GeneratedAt       time.Time                 `json:"generated_at"`
	AlgoVersion       string                    `json:"algo_version"`
}

// @Summary Get service predictions for a bike
// @Description Returns per-component service predictions and the bike-level summary
// @Tags predictions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Bike ID" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"
// @Param mode query string false "Prediction mode" Enums(adaptive, deterministic)
// @Success 200 {object} GetPredictionsResponse "Prediction summary"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Access denied"
// @Failure 404 {object} errorResponse "Bike not found"
// @Router /bikes/{id}/predictions [get]
func (h *PredictionHandler) GetBikePredictions(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikeID := c.Param("id")

	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		h.logger.Warn("Unauthorized access attempt to GetBikePredictions", map[string]interface{}{
			"bike_id": bikeID,
			"ip":      c.ClientIP(),
		})
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bike, err := h.predictionService.GetBikeByID(c.Request.Context(), bikeID)
	if err != nil {
		h.logger.Error("Failed to get bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		newErrorResponse(c, http.StatusNotFound, "Bike not found")
		return
	}

	if payload.Role != domain.Admin && payload.UserID != bike.UserID {
		h.logger.Warn("Access denied to bike predictions", map[string]interface{}{
			"requester_id": payload.UserID.String(),
			"bike_owner":   bike.UserID.String(),
			"bike_id":      bikeID,
		})
		newErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	tier := h.resolveTier(c, payload)
	mode := domain.ModeAdaptive
	if tier == domain.TierFree || c.Query("mode") == string(domain.ModeDeterministic) {
		mode = domain.ModeDeterministic
	}

	summary, err := h.predictionService.GetBikePrediction(c.Request.Context(), bike, tier, mode)
	if err != nil {
		h.logger.Error("Failed to compute predictions", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to compute predictions")
		return
	}

	c.JSON(http.StatusOK, toPredictionsResponse(summary))
}

// @Summary Invalidate cached predictions for a bike
// @Description Drops cached prediction summaries after a service log or ride change
// @Tags predictions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Bike ID"
// @Success 200 {object} successResponse "Cache invalidated"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Access denied"
// @Failure 404 {object} errorResponse "Bike not found"
// @Router /bikes/{id}/predictions/invalidate [post]
func (h *PredictionHandler) InvalidateBikePredictions(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikeID := c.Param("id")

	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bike, err := h.predictionService.GetBikeByID(c.Request.Context(), bikeID)
	if err != nil {
		newErrorResponse(c, http.StatusNotFound, "Bike not found")
		return
	}

	if payload.Role != domain.Admin && payload.UserID != bike.UserID {
		newErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	h.predictionService.InvalidateBike(c.Request.Context(), bike.UserID, bike.BikeID)

	c.JSON(http.StatusOK, successResponse{Message: "Predictions invalidated"})
}

// @Summary Invalidate all cached predictions for the current user
// @Description Drops every cached prediction summary for the caller, e.g. after a role change
// @Tags predictions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} successResponse "Cache invalidated"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /users/me/predictions/invalidate [post]
func (h *PredictionHandler) InvalidateMyPredictions(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.predictionService.InvalidateUser(c.Request.Context(), payload.UserID)

	c.JSON(http.StatusOK, successResponse{Message: "Predictions invalidated"})
}

// resolveTier re-checks the caller's role against the user service so a
// recent plan change takes effect before the token expires. Lookup failures
// degrade to the token's role.
func (h *PredictionHandler) resolveTier(c *gin.Context, payload *domain.TokenPayload) domain.PlanTier {
	if h.userClient == nil {
		return payload.Role.Tier()
	}

	params := users.NewGetUsersIDParams()
	params.ID = payload.UserID.String()
	params.Context = c.Request.Context()

	authHeader := c.GetHeader("Authorization")
	var authInfo runtime.ClientAuthInfoWriter
	if authHeader != "" {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		authInfo = httptransport.BearerToken(token)
	}

	resp, err := h.userClient.Users.GetUsersID(params, authInfo)
	if err != nil || resp == nil || resp.Payload == nil {
		h.logger.Warn("Failed to get user from user-service", map[string]interface{}{
			"error":   errString(err),
			"user_id": payload.UserID.String(),
		})
		return payload.Role.Tier()
	}

	return domain.UserRole(resp.Payload.Role).Tier()
}

func errString(err error) string {
	if err == nil {
		return "empty response"
	}
	return err.Error()
}

func toPredictionsResponse(summary *domain.BikePredictionSummary) GetPredictionsResponse {
	components := make([]ComponentPredictionInfo, len(summary.Components))
	for i, pred := range summary.Components {
		components[i] = toComponentInfo(&pred)
	}

	response := GetPredictionsResponse{
		BikeID:        summary.BikeID,
		BikeName:      summary.BikeName,
		Components:    components,
		OverallStatus: string(summary.OverallStatus),
		DueNowCount:   summary.DueNowCount,
		DueSoonCount:  summary.DueSoonCount,
		GeneratedAt:   summary.GeneratedAt,
		AlgoVersion:   summary.AlgoVersion,
	}
	if summary.PriorityComponent != nil {
		priority := toComponentInfo(summary.PriorityComponent)
		response.PriorityComponent = &priority
	}
	return response
}

func toComponentInfo(pred *domain.ComponentPrediction) ComponentPredictionInfo {
	info := ComponentPredictionInfo{
		ComponentID:        pred.ComponentID,
		Type:               string(pred.Type),
		Location:           string(pred.Location),
		Brand:              pred.Brand,
		Model:              pred.Model,
		Status:             string(pred.Status),
		HoursRemaining:     pred.HoursRemaining,
		RidesRemaining:     pred.RidesRemaining,
		EstimatedDaysToDue: pred.EstimatedDaysToDue,
		Confidence:         string(pred.Confidence),
		CurrentHours:       pred.CurrentHours,
		IntervalHours:      pred.IntervalHours,
		HoursSinceService:  pred.HoursSinceService,
		Why:                pred.Why,
	}
	if len(pred.Drivers) > 0 {
		info.Drivers = make([]WearDriverInfo, len(pred.Drivers))
		for i, d := range pred.Drivers {
			info.Drivers[i] = WearDriverInfo{Factor: d.Factor, Percent: d.Percent}
		}
	}
	return info
}
