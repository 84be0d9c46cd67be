package ports

import (
	"context"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"
)

// CachePort is one cache tier holding serialized values. Implementations
// must treat DeleteByPrefix as incremental work and never block the whole
// keyspace.
type CachePort interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// PredictionCache is the tiered façade the prediction service talks to.
// Lookups and writes never return errors: tier failures degrade internally.
type PredictionCache interface {
	GetSummary(ctx context.Context, key string) (*domain.BikePredictionSummary, bool)
	SetSummary(ctx context.Context, key string, summary *domain.BikePredictionSummary)
	Invalidate(ctx context.Context, prefix string)
}
