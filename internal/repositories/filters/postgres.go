package filters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkrasnov/skyportal/internal/common"
	"github.com/dkrasnov/skyportal/internal/dbx"
	"github.com/dkrasnov/skyportal/internal/models"
)

// PostgresRepository implements Repository over dbx.DBTX. The condition and
// city lists live in JSON text columns and are encoded and decoded here so
// callers only ever see string slices.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const filterColumns = `id, user_id, min_temperature, max_temperature, weather_conditions, favorite_cities, created_at, updated_at`

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.SearchFilter, error) {
	query := `SELECT ` + filterColumns + ` FROM search_filters WHERE user_id = $1`
	return scanFilter(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) Upsert(ctx context.Context, f *models.SearchFilter) (*models.SearchFilter, error) {
	conditions, cities, err := encodeLists(f)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO search_filters (user_id, min_temperature, max_temperature, weather_conditions, favorite_cities)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			min_temperature = EXCLUDED.min_temperature,
			max_temperature = EXCLUDED.max_temperature,
			weather_conditions = EXCLUDED.weather_conditions,
			favorite_cities = EXCLUDED.favorite_cities,
			updated_at = now()
		RETURNING ` + filterColumns
	return scanFilter(r.db.QueryRowContext(ctx, query,
		f.UserID, f.MinTemperature, f.MaxTemperature, conditions, cities))
}

func (r *PostgresRepository) Update(ctx context.Context, f *models.SearchFilter) (*models.SearchFilter, error) {
	conditions, cities, err := encodeLists(f)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE search_filters SET
			min_temperature = $1,
			max_temperature = $2,
			weather_conditions = $3,
			favorite_cities = $4,
			updated_at = now()
		WHERE user_id = $5
		RETURNING ` + filterColumns
	return scanFilter(r.db.QueryRowContext(ctx, query,
		f.MinTemperature, f.MaxTemperature, conditions, cities, f.UserID))
}

func encodeLists(f *models.SearchFilter) (conditions, cities string, err error) {
	c := f.WeatherConditions
	if c == nil {
		c = []string{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", "", fmt.Errorf("encoding weather conditions: %w", err)
	}
	conditions = string(b)

	fc := f.FavoriteCities
	if fc == nil {
		fc = []string{}
	}
	b, err = json.Marshal(fc)
	if err != nil {
		return "", "", fmt.Errorf("encoding favorite cities: %w", err)
	}
	cities = string(b)
	return conditions, cities, nil
}

func scanFilter(row *sql.Row) (*models.SearchFilter, error) {
	f := &models.SearchFilter{}
	var conditions, cities string
	err := row.Scan(
		&f.ID, &f.UserID, &f.MinTemperature, &f.MaxTemperature,
		&conditions, &cities, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	// Tolerate malformed stored JSON the way the original serializers did:
	// fall back to an empty list.
	if err := json.Unmarshal([]byte(conditions), &f.WeatherConditions); err != nil {
		f.WeatherConditions = []string{}
	}
	if err := json.Unmarshal([]byte(cities), &f.FavoriteCities); err != nil {
		f.FavoriteCities = []string{}
	}
	return f, nil
}
