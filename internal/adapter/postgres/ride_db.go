package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"

	"github.com/google/uuid"
)

type RideRepository struct {
	db *sql.DB
}

func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{db: db}
}

func (r *RideRepository) GetRecentRides(ctx context.Context, userID, bikeID uuid.UUID, after *time.Time, limit int) ([]*domain.RideMetrics, error) {
	query := `SELECT id, user_id, bike_id, duration_seconds, distance_miles, elevation_feet, started_at
              FROM rides
              WHERE user_id = $1 AND bike_id = $2 AND ($3::timestamptz IS NULL OR started_at > $3)
              ORDER BY started_at DESC
              LIMIT $4`

	var bound interface{}
	if after != nil {
		bound = *after
	}

	rows, err := r.db.QueryContext(ctx, query, userID, bikeID, bound, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRides(rows)
}

func (r *RideRepository) GetRidesAfter(ctx context.Context, userID, bikeID uuid.UUID, after time.Time) ([]*domain.RideMetrics, error) {
	query := `SELECT id, user_id, bike_id, duration_seconds, distance_miles, elevation_feet, started_at
              FROM rides
              WHERE user_id = $1 AND bike_id = $2 AND started_at > $3
              ORDER BY started_at`

	rows, err := r.db.QueryContext(ctx, query, userID, bikeID, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRides(rows)
}

func (r *RideRepository) GetFirstRideTime(ctx context.Context, userID, bikeID uuid.UUID) (*time.Time, error) {
	query := `SELECT MIN(started_at) FROM rides WHERE user_id = $1 AND bike_id = $2`

	var first sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, userID, bikeID).Scan(&first); err != nil {
		return nil, err
	}
	if !first.Valid {
		return nil, nil
	}
	return &first.Time, nil
}

func scanRides(rows *sql.Rows) ([]*domain.RideMetrics, error) {
	var rides []*domain.RideMetrics

	for rows.Next() {
		ride := &domain.RideMetrics{}
		var bikeID uuid.NullUUID
		err := rows.Scan(
			&ride.ID,
			&ride.UserID,
			&bikeID,
			&ride.DurationSeconds,
			&ride.DistanceMiles,
			&ride.ElevationFeet,
			&ride.StartedAt,
		)
		if err != nil {
			return nil, err
		}
		if bikeID.Valid {
			ride.BikeID = &bikeID.UUID
		}
		rides = append(rides, ride)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rides, nil
}
