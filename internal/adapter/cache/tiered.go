package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

// durableOpTimeout bounds every durable-tier round trip so a slow Redis
// degrades to the fallback tier instead of stalling the request.
const durableOpTimeout = 2 * time.Second

// TieredPredictionCache composes the durable Redis tier with the in-process
// fallback tier. Reads try durable first; writes mirror to both. Tier
// failures are logged and swallowed, never surfaced to the caller.
type TieredPredictionCache struct {
	durable  ports.CachePort
	local    ports.CachePort
	validate *validator.Validate
	logger   ports.LoggerPort
	metrics  ports.MetricsPort
	ttl      time.Duration
}

// NewTieredPredictionCache builds the façade. A nil durable tier is allowed
// and leaves only the in-process tier active.
func NewTieredPredictionCache(
	durable ports.CachePort,
	local ports.CachePort,
	validate *validator.Validate,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
	ttl time.Duration,
) *TieredPredictionCache {
	return &TieredPredictionCache{
		durable:  durable,
		local:    local,
		validate: validate,
		logger:   logger,
		metrics:  metrics,
		ttl:      ttl,
	}
}

func (c *TieredPredictionCache) GetSummary(ctx context.Context, key string) (*domain.BikePredictionSummary, bool) {
	if c.durable != nil {
		opCtx, cancel := context.WithTimeout(ctx, durableOpTimeout)
		data, err := c.durable.Get(opCtx, key)
		cancel()
		switch {
		case err == nil:
			summary, decodeErr := c.decode(data)
			if decodeErr == nil {
				c.metrics.RecordCacheHit("durable")
				return summary, true
			}
			// Corrupt or cross-version payload: treat as a miss and drop
			// the entry so it cannot be served again.
			c.logger.Warn("Dropping invalid cached prediction", map[string]interface{}{
				"key":   key,
				"error": decodeErr.Error(),
			})
			c.deleteDurable(ctx, key)
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("Durable cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	data, err := c.local.Get(ctx, key)
	if err == nil {
		if summary, decodeErr := c.decode(data); decodeErr == nil {
			c.metrics.RecordCacheHit("memory")
			return summary, true
		}
		_ = c.local.Delete(ctx, key)
	}

	c.metrics.RecordCacheMiss()
	return nil, false
}

func (c *TieredPredictionCache) SetSummary(ctx context.Context, key string, summary *domain.BikePredictionSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("Failed to marshal prediction summary", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	if c.durable != nil {
		opCtx, cancel := context.WithTimeout(ctx, durableOpTimeout)
		if err := c.durable.Set(opCtx, key, data, c.ttl); err != nil {
			c.logger.Warn("Durable cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		cancel()
	}

	if err := c.local.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Fallback cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (c *TieredPredictionCache) Invalidate(ctx context.Context, prefix string) {
	if c.durable != nil {
		opCtx, cancel := context.WithTimeout(ctx, durableOpTimeout)
		if err := c.durable.DeleteByPrefix(opCtx, prefix); err != nil {
			c.logger.Warn("Durable cache invalidation failed", map[string]interface{}{
				"prefix": prefix,
				"error":  err.Error(),
			})
		}
		cancel()
	}

	if err := c.local.DeleteByPrefix(ctx, prefix); err != nil {
		c.logger.Warn("Fallback cache invalidation failed", map[string]interface{}{
			"prefix": prefix,
			"error":  err.Error(),
		})
	}
}

// decode rehydrates a serialized summary and checks its structure before
// the engine trusts it.
func (c *TieredPredictionCache) decode(data []byte) (*domain.BikePredictionSummary, error) {
	var summary domain.BikePredictionSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(&summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *TieredPredictionCache) deleteDurable(ctx context.Context, key string) {
	opCtx, cancel := context.WithTimeout(ctx, durableOpTimeout)
	defer cancel()
	if err := c.durable.Delete(opCtx, key); err != nil {
		c.logger.Warn("Failed to delete invalid cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
