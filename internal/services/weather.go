package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dkrasnov/skyportal/internal/common"
	"github.com/dkrasnov/skyportal/internal/models"
	"github.com/dkrasnov/skyportal/internal/repositories/repomanager"
	"github.com/dkrasnov/skyportal/internal/repositories/searches"
	"github.com/dkrasnov/skyportal/internal/weather"
)

const (
	historyLimit       = 10
	searchResultsLimit = 20
	favoriteFetchLimit = 5
	topAggregateLimit  = 5
	suggestionsCap     = 8
)

// WeatherProvider is the upstream lookup the service depends on.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (*weather.Report, error)
}

// SearchQuery is the caller-facing filter set for advanced history search.
type SearchQuery struct {
	City      string
	Country   string
	Condition string
	MinTemp   *float64
	MaxTemp   *float64
}

// FavoriteReport is a live lookup for one of the caller's favorite cities.
type FavoriteReport struct {
	weather.Report
	IsFavorite bool `json:"is_favorite"`
}

// Analytics is the aggregate view of one user's search history.
type Analytics struct {
	TotalSearches int64                   `json:"total_searches"`
	TopCities     []models.CityCount      `json:"top_cities"`
	TempRanges    map[string]int64        `json:"temperature_ranges"`
	TopConditions []models.ConditionCount `json:"top_conditions"`
	LastSearch    *models.WeatherSearch   `json:"last_search"`
}

// WeatherService fetches current conditions, records lookups, and serves
// the history, filter, suggestion, and analytics queries built on them.
// Successful lookups are cached per city so repeated requests inside the
// TTL do not hit the upstream API.
type WeatherService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	provider    WeatherProvider
	cache       *gocache.Cache
}

func NewWeatherService(db *sql.DB, m repomanager.RepositoryManager, provider WeatherProvider, cacheTTL time.Duration) *WeatherService {
	return &WeatherService{
		db:          db,
		repomanager: m,
		provider:    provider,
		cache:       gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// Current returns the weather for a city and records the lookup in the
// caller's history. Cache hits are recorded too: every request the user
// makes counts as a search.
func (s *WeatherService) Current(ctx context.Context, userID int64, city string) (*models.WeatherSearch, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, common.NewValidationError("city", "this field is required")
	}

	report, err := s.lookup(ctx, city)
	if err != nil {
		return nil, err
	}

	search := &models.WeatherSearch{
		UserID:      userID,
		City:        report.City,
		Country:     report.Country,
		Temperature: report.Temperature,
		Description: report.Description,
		Humidity:    report.Humidity,
		WindSpeed:   report.WindSpeed,
		Pressure:    report.Pressure,
	}
	recorded, err := s.repomanager.Searches(s.db).Create(ctx, search)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return recorded, nil
}

// History returns the caller's most recent lookups, newest first.
func (s *WeatherService) History(ctx context.Context, userID int64) ([]models.WeatherSearch, error) {
	list, err := s.repomanager.Searches(s.db).ListRecent(ctx, userID, historyLimit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// SearchHistory filters the caller's past lookups by city, country,
// condition, and temperature bounds, newest first.
func (s *WeatherService) SearchHistory(ctx context.Context, userID int64, q *SearchQuery) ([]models.WeatherSearch, error) {
	hq := searches.HistoryQuery{
		City:      q.City,
		Country:   q.Country,
		Condition: q.Condition,
		MinTemp:   q.MinTemp,
		MaxTemp:   q.MaxTemp,
		Limit:     searchResultsLimit,
	}
	list, err := s.repomanager.Searches(s.db).Search(ctx, userID, hq)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// FavoritesWeather fetches live conditions for the caller's stored
// favorite cities, up to favoriteFetchLimit of them. Cities the upstream
// lookup fails for are skipped rather than failing the whole request.
// The second return value reports whether any favorites are configured.
func (s *WeatherService) FavoritesWeather(ctx context.Context, userID int64) ([]FavoriteReport, bool, error) {
	f, err := s.repomanager.Filters(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, nil
		}
		return nil, false, common.ErrorInternal
	}
	if len(f.FavoriteCities) == 0 {
		return nil, false, nil
	}

	cities := f.FavoriteCities
	if len(cities) > favoriteFetchLimit {
		cities = cities[:favoriteFetchLimit]
	}

	out := make([]FavoriteReport, 0, len(cities))
	for _, city := range cities {
		report, err := s.lookup(ctx, city)
		if err != nil {
			continue
		}
		out = append(out, FavoriteReport{Report: *report, IsFavorite: true})
	}
	return out, true, nil
}

// Filters returns the caller's stored search preferences, or an empty
// record when none have been saved yet.
func (s *WeatherService) Filters(ctx context.Context, userID int64) (*models.SearchFilter, error) {
	f, err := s.repomanager.Filters(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &models.SearchFilter{
				UserID:            userID,
				WeatherConditions: []string{},
				FavoriteCities:    []string{},
			}, nil
		}
		return nil, common.ErrorInternal
	}
	return f, nil
}

// SaveFilters creates or replaces the caller's preference record.
func (s *WeatherService) SaveFilters(ctx context.Context, f *models.SearchFilter) (*models.SearchFilter, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	saved, err := s.repomanager.Filters(s.db).Upsert(ctx, f)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return saved, nil
}

// UpdateFilters overwrites an existing preference record.
func (s *WeatherService) UpdateFilters(ctx context.Context, f *models.SearchFilter) (*models.SearchFilter, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	saved, err := s.repomanager.Filters(s.db).Update(ctx, f)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return saved, nil
}

// Suggestions returns city-name completions for a typed prefix: the
// caller's own history first, then globally popular cities, deduplicated.
// Queries shorter than two characters return an empty list.
func (s *WeatherService) Suggestions(ctx context.Context, userID int64, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []string{}, nil
	}

	repo := s.repomanager.Searches(s.db)
	own, err := repo.UserCitySuggestions(ctx, userID, query, topAggregateLimit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	popular, err := repo.PopularCitySuggestions(ctx, query, topAggregateLimit)
	if err != nil {
		return nil, common.ErrorInternal
	}

	seen := make(map[string]bool, len(own)+len(popular))
	out := make([]string, 0, suggestionsCap)
	for _, city := range append(own, popular...) {
		key := strings.ToLower(city)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, city)
		if len(out) == suggestionsCap {
			break
		}
	}
	return out, nil
}

// Analytics aggregates the caller's history: totals, top cities, counts
// per temperature band, top conditions, and the most recent search.
func (s *WeatherService) Analytics(ctx context.Context, userID int64) (*Analytics, error) {
	repo := s.repomanager.Searches(s.db)

	total, err := repo.Count(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	cities, err := repo.TopCities(ctx, userID, topAggregateLimit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	conditions, err := repo.TopConditions(ctx, userID, topAggregateLimit)
	if err != nil {
		return nil, common.ErrorInternal
	}

	ranges, err := s.temperatureRanges(ctx, repo, userID)
	if err != nil {
		return nil, err
	}

	a := &Analytics{
		TotalSearches: total,
		TopCities:     cities,
		TempRanges:    ranges,
		TopConditions: conditions,
	}

	last, err := repo.Latest(ctx, userID)
	switch {
	case err == nil:
		a.LastSearch = last
	case errors.Is(err, common.ErrorNotFound):
		// no searches yet, last_search stays null
	default:
		return nil, common.ErrorInternal
	}
	return a, nil
}

func (s *WeatherService) temperatureRanges(ctx context.Context, repo searches.Repository, userID int64) (map[string]int64, error) {
	bounds := []struct {
		name     string
		min, max *float64
	}{
		{"cold", nil, f64(10)},
		{"cool", f64(10), f64(20)},
		{"warm", f64(20), f64(30)},
		{"hot", f64(30), nil},
	}
	out := make(map[string]int64, len(bounds))
	for _, b := range bounds {
		n, err := repo.CountTempRange(ctx, userID, b.min, b.max)
		if err != nil {
			return nil, common.ErrorInternal
		}
		out[b.name] = n
	}
	return out, nil
}

// lookup consults the per-city cache before the upstream provider. Keys are
// lowercased so "Riga" and "riga" share an entry.
func (s *WeatherService) lookup(ctx context.Context, city string) (*weather.Report, error) {
	key := strings.ToLower(city)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*weather.Report), nil
	}

	report, err := s.provider.Current(ctx, city)
	if err != nil {
		if errors.Is(err, weather.ErrCityNotFound) {
			return nil, weather.ErrCityNotFound
		}
		return nil, fmt.Errorf("weather lookup failed: %w", err)
	}

	s.cache.SetDefault(key, report)
	return report, nil
}

func validateFilter(f *models.SearchFilter) error {
	if f.MinTemperature != nil && f.MaxTemperature != nil && *f.MinTemperature > *f.MaxTemperature {
		return common.NewValidationError("min_temperature", "must not exceed max_temperature")
	}
	return nil
}

func f64(v float64) *float64 { return &v }
