package postgres

import (
	"context"
	"database/sql"

	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/domain"

	"github.com/google/uuid"
)

type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetPreferences returns both the user's global rows and the rows scoped to
// the given bike; the service layer resolves precedence.
func (r *PreferenceRepository) GetPreferences(ctx context.Context, userID, bikeID uuid.UUID) ([]*domain.ComponentPreference, error) {
	query := `SELECT id, user_id, bike_id, scope, component_type, enabled, custom_interval_hours, updated_at
              FROM component_preferences
              WHERE user_id = $1 AND (bike_id IS NULL OR bike_id = $2)`

	rows, err := r.db.QueryContext(ctx, query, userID, bikeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []*domain.ComponentPreference

	for rows.Next() {
		pref := &domain.ComponentPreference{}
		var prefBikeID uuid.NullUUID
		var customInterval sql.NullFloat64
		err := rows.Scan(
			&pref.ID,
			&pref.UserID,
			&prefBikeID,
			&pref.Scope,
			&pref.ComponentType,
			&pref.Enabled,
			&customInterval,
			&pref.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if prefBikeID.Valid {
			pref.BikeID = &prefBikeID.UUID
		}
		if customInterval.Valid {
			pref.CustomIntervalHours = &customInterval.Float64
		}
		prefs = append(prefs, pref)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return prefs, nil
}
