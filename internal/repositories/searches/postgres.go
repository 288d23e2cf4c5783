package searches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dkrasnov/skyportal/internal/common"
	"github.com/dkrasnov/skyportal/internal/dbx"
	"github.com/dkrasnov/skyportal/internal/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
//
// Substring filters use LOWER(...) LIKE instead of ILIKE so the same
// statements run under the sqlite-backed integration tests.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const searchColumns = `id, user_id, city, country, temperature, description, humidity, wind_speed, pressure, searched_at`

func (r *PostgresRepository) Create(ctx context.Context, s *models.WeatherSearch) (*models.WeatherSearch, error) {
	query := `
		INSERT INTO weather_searches (user_id, city, country, temperature, description, humidity, wind_speed, pressure)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, searched_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.UserID, s.City, s.Country, s.Temperature, s.Description,
		s.Humidity, s.WindSpeed, s.Pressure,
	).Scan(&s.ID, &s.SearchedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]models.WeatherSearch, error) {
	query := `SELECT ` + searchColumns + ` FROM weather_searches WHERE user_id = $1 ORDER BY id DESC LIMIT $2`
	return r.querySearches(ctx, query, userID, limit)
}

func (r *PostgresRepository) Search(ctx context.Context, userID int64, q HistoryQuery) ([]models.WeatherSearch, error) {
	query := `SELECT ` + searchColumns + ` FROM weather_searches WHERE user_id = $1`
	args := []any{userID}

	next := func() string { return "$" + strconv.Itoa(len(args)+1) }

	if q.City != "" {
		query += ` AND LOWER(city) LIKE '%' || LOWER(` + next() + `) || '%'`
		args = append(args, q.City)
	}
	if q.Country != "" {
		query += ` AND LOWER(country) LIKE '%' || LOWER(` + next() + `) || '%'`
		args = append(args, q.Country)
	}
	if q.Condition != "" {
		query += ` AND LOWER(description) LIKE '%' || LOWER(` + next() + `) || '%'`
		args = append(args, q.Condition)
	}
	if q.MinTemp != nil {
		query += ` AND temperature >= ` + next()
		args = append(args, *q.MinTemp)
	}
	if q.MaxTemp != nil {
		query += ` AND temperature <= ` + next()
		args = append(args, *q.MaxTemp)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	query += ` ORDER BY id DESC LIMIT ` + next()
	args = append(args, limit)

	return r.querySearches(ctx, query, args...)
}

func (r *PostgresRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM weather_searches WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CountTempRange(ctx context.Context, userID int64, min, max *float64) (int64, error) {
	query := `SELECT COUNT(*) FROM weather_searches WHERE user_id = $1`
	args := []any{userID}
	if min != nil {
		args = append(args, *min)
		query += ` AND temperature >= $` + strconv.Itoa(len(args))
	}
	if max != nil {
		args = append(args, *max)
		query += ` AND temperature < $` + strconv.Itoa(len(args))
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) TopCities(ctx context.Context, userID int64, limit int) ([]models.CityCount, error) {
	query := `
		SELECT city, COUNT(*) AS cnt FROM weather_searches
		WHERE user_id = $1
		GROUP BY city
		ORDER BY cnt DESC, city
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.CityCount{}
	for rows.Next() {
		var c models.CityCount
		if err := rows.Scan(&c.City, &c.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) TopConditions(ctx context.Context, userID int64, limit int) ([]models.ConditionCount, error) {
	query := `
		SELECT description, COUNT(*) AS cnt FROM weather_searches
		WHERE user_id = $1
		GROUP BY description
		ORDER BY cnt DESC, description
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.ConditionCount{}
	for rows.Next() {
		var c models.ConditionCount
		if err := rows.Scan(&c.Description, &c.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) UserCitySuggestions(ctx context.Context, userID int64, query string, limit int) ([]string, error) {
	q := `
		SELECT DISTINCT city FROM weather_searches
		WHERE user_id = $1 AND LOWER(city) LIKE '%' || LOWER($2) || '%'
		ORDER BY city
		LIMIT $3
	`
	return r.queryStrings(ctx, q, userID, query, limit)
}

func (r *PostgresRepository) PopularCitySuggestions(ctx context.Context, query string, limit int) ([]string, error) {
	q := `
		SELECT city FROM weather_searches
		WHERE LOWER(city) LIKE '%' || LOWER($1) || '%'
		GROUP BY city
		ORDER BY COUNT(*) DESC, city
		LIMIT $2
	`
	return r.queryStrings(ctx, q, query, limit)
}

func (r *PostgresRepository) Latest(ctx context.Context, userID int64) (*models.WeatherSearch, error) {
	query := `SELECT ` + searchColumns + ` FROM weather_searches WHERE user_id = $1 ORDER BY id DESC LIMIT 1`
	s := &models.WeatherSearch{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.City, &s.Country, &s.Temperature,
		&s.Description, &s.Humidity, &s.WindSpeed, &s.Pressure, &s.SearchedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) querySearches(ctx context.Context, query string, args ...any) ([]models.WeatherSearch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.WeatherSearch{}
	for rows.Next() {
		var s models.WeatherSearch
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.City, &s.Country, &s.Temperature,
			&s.Description, &s.Humidity, &s.WindSpeed, &s.Pressure, &s.SearchedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
