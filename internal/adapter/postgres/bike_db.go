package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"

	"github.com/google/uuid"
)

type BikeRepository struct {
	db *sql.DB
}

func NewBikeRepository(db *sql.DB) *BikeRepository {
	return &BikeRepository{db: db}
}

func (r *BikeRepository) GetBikeByID(ctx context.Context, bikeID uuid.UUID) (*domain.Bike, error) {
	query := `SELECT user_id, bike_id, bike_name, type, manufacturer, model, created_at, updated_at
              FROM bikes WHERE bike_id = $1`

	bike := &domain.Bike{}
	err := r.db.QueryRowContext(ctx, query, bikeID).Scan(
		&bike.UserID,
		&bike.BikeID,
		&bike.BikeName,
		&bike.Type,
		&bike.Manufacturer,
		&bike.Model,
		&bike.CreatedAt,
		&bike.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bike not found")
	}
	if err != nil {
		return nil, err
	}

	return bike, nil
}
