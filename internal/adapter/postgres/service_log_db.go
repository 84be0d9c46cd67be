package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type ServiceLogRepository struct {
	db *sql.DB
}

func NewServiceLogRepository(db *sql.DB) *ServiceLogRepository {
	return &ServiceLogRepository{db: db}
}

// GetLastServiceDate returns nil when no service was ever logged.
func (r *ServiceLogRepository) GetLastServiceDate(ctx context.Context, componentID uuid.UUID) (*time.Time, error) {
	query := `SELECT MAX(serviced_at) FROM service_logs WHERE component_id = $1`

	var last sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, componentID).Scan(&last); err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}
