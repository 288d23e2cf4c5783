// Package searches declares the repository contract for recorded weather
// lookups and the aggregate queries built on top of them.
package searches

import (
	"context"

	"github.com/dkrasnov/skyportal/internal/models"
)

// HistoryQuery is the optional filter set for searching a user's lookup
// history. Zero-value fields are ignored.
type HistoryQuery struct {
	City      string
	Country   string
	Condition string
	MinTemp   *float64
	MaxTemp   *float64
	Limit     int
}

type Repository interface {
	// Create records one weather lookup and returns it with the
	// store-assigned id and timestamp.
	Create(ctx context.Context, search *models.WeatherSearch) (*models.WeatherSearch, error)

	// ListRecent returns the user's newest searches, most recent first.
	ListRecent(ctx context.Context, userID int64, limit int) ([]models.WeatherSearch, error)

	// Search applies the HistoryQuery filters over the user's history,
	// newest first.
	Search(ctx context.Context, userID int64, q HistoryQuery) ([]models.WeatherSearch, error)

	// Count returns the user's total number of recorded searches.
	Count(ctx context.Context, userID int64) (int64, error)

	// CountTempRange counts the user's searches with temperature in
	// [min, max); a nil bound is open.
	CountTempRange(ctx context.Context, userID int64, min, max *float64) (int64, error)

	// TopCities returns the user's most-searched cities with counts.
	TopCities(ctx context.Context, userID int64, limit int) ([]models.CityCount, error)

	// TopConditions returns the user's most common weather descriptions
	// with counts.
	TopConditions(ctx context.Context, userID int64, limit int) ([]models.ConditionCount, error)

	// UserCitySuggestions returns distinct cities from the user's own
	// history matching the query substring, case-insensitively.
	UserCitySuggestions(ctx context.Context, userID int64, query string, limit int) ([]string, error)

	// PopularCitySuggestions returns cities matching the query substring
	// across all users, most searched first.
	PopularCitySuggestions(ctx context.Context, query string, limit int) ([]string, error)

	// Latest returns the user's most recent search, or
	// common.ErrorNotFound when the history is empty.
	Latest(ctx context.Context, userID int64) (*models.WeatherSearch, error)
}
