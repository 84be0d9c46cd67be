package postgres

import (
	"context"
	"database/sql"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"

	"github.com/google/uuid"
)

type ComponentRepository struct {
	db *sql.DB
}

func NewComponentRepository(db *sql.DB) *ComponentRepository {
	return &ComponentRepository{db: db}
}

func (r *ComponentRepository) GetActiveComponentsByBikeID(ctx context.Context, bikeID uuid.UUID) ([]*domain.Component, error) {
	query := `SELECT id, bike_id, type, location, brand, model, hours_used, service_due_at_hours,
                     installed_at, created_at, updated_at
              FROM components
              WHERE bike_id = $1 AND retired_at IS NULL
              ORDER BY installed_at`

	rows, err := r.db.QueryContext(ctx, query, bikeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []*domain.Component

	for rows.Next() {
		component := &domain.Component{}
		var serviceDueAt sql.NullFloat64
		err := rows.Scan(
			&component.ID,
			&component.BikeID,
			&component.Type,
			&component.Location,
			&component.Brand,
			&component.Model,
			&component.HoursUsed,
			&serviceDueAt,
			&component.InstalledAt,
			&component.CreatedAt,
			&component.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if serviceDueAt.Valid {
			component.ServiceDueAtHours = &serviceDueAt.Float64
		}
		components = append(components, component)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return components, nil
}
