// Package repotest provides in-memory repository implementations for tests
// that exercise services and handlers without a database.
package repotest

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/dkrasnov/skyportal/internal/common"
	"github.com/dkrasnov/skyportal/internal/dbx"
	"github.com/dkrasnov/skyportal/internal/models"
	"github.com/dkrasnov/skyportal/internal/repositories/filters"
	"github.com/dkrasnov/skyportal/internal/repositories/revokedtokens"
	"github.com/dkrasnov/skyportal/internal/repositories/searches"
	"github.com/dkrasnov/skyportal/internal/repositories/users"
)

// Manager vends in-memory repositories regardless of the DBTX it is
// handed. The repository fields are exported so tests can seed and
// inspect state directly.
type Manager struct {
	UsersRepo   *UserRepo
	LedgerRepo  *LedgerRepo
	SearchRepo  *SearchRepo
	FiltersRepo *FilterRepo
}

func NewManager() *Manager {
	return &Manager{
		UsersRepo:   &UserRepo{ByUsername: map[string]*models.User{}},
		LedgerRepo:  &LedgerRepo{JTIs: map[string]bool{}},
		SearchRepo:  &SearchRepo{},
		FiltersRepo: &FilterRepo{ByUser: map[int64]*models.SearchFilter{}},
	}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *Manager) Users(dbx.DBTX) users.Repository                 { return m.UsersRepo }
func (m *Manager) RevokedTokens(dbx.DBTX) revokedtokens.Repository { return m.LedgerRepo }
func (m *Manager) Searches(dbx.DBTX) searches.Repository           { return m.SearchRepo }
func (m *Manager) Filters(dbx.DBTX) filters.Repository             { return m.FiltersRepo }

// UserRepo is an in-memory users.Repository. Setting CreateErr makes the
// next Create fail with it, which simulates losing a uniqueness race.
type UserRepo struct {
	ByUsername map[string]*models.User
	CreateErr  error
	nextID     int64
}

func (r *UserRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}
	if _, ok := r.ByUsername[u.Username]; ok {
		return nil, common.ErrorConflict
	}
	r.nextID++
	cp := *u
	cp.ID = r.nextID
	cp.DateJoined = time.Now()
	r.ByUsername[u.Username] = &cp
	out := cp
	return &out, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := r.ByUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range r.ByUsername {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UserRepo) UpdateProfile(_ context.Context, id int64, firstName, lastName string) (*models.User, error) {
	for _, u := range r.ByUsername {
		if u.ID == id {
			u.FirstName = firstName
			u.LastName = lastName
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UserRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	for _, u := range r.ByUsername {
		if u.ID == id {
			u.LastLogin = sql.NullTime{Time: at, Valid: true}
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *UserRepo) CountByFlags(context.Context) (int64, int64, int64, error) {
	var total, active, staff int64
	for _, u := range r.ByUsername {
		total++
		if u.IsActive {
			active++
		}
		if u.IsStaff {
			staff++
		}
	}
	return total, active, staff, nil
}

// LedgerRepo is an in-memory revokedtokens.Repository. Add mirrors the
// SQL implementation's atomicity: for any jti exactly one caller ever
// observes true.
type LedgerRepo struct {
	mu   sync.Mutex
	JTIs map[string]bool
}

func (r *LedgerRepo) Add(_ context.Context, jti string, _ int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.JTIs[jti] {
		return false, nil
	}
	r.JTIs[jti] = true
	return true, nil
}

func (r *LedgerRepo) PurgeOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// SearchRepo is an in-memory searches.Repository. Rows are kept newest
// first, matching the ordering the SQL implementation returns.
type SearchRepo struct {
	Rows   []models.WeatherSearch
	nextID int64
}

func (r *SearchRepo) Create(_ context.Context, s *models.WeatherSearch) (*models.WeatherSearch, error) {
	r.nextID++
	cp := *s
	cp.ID = r.nextID
	cp.SearchedAt = time.Now()
	r.Rows = append([]models.WeatherSearch{cp}, r.Rows...)
	out := cp
	return &out, nil
}

func (r *SearchRepo) ListRecent(_ context.Context, userID int64, limit int) ([]models.WeatherSearch, error) {
	out := []models.WeatherSearch{}
	for _, row := range r.Rows {
		if row.UserID == userID {
			out = append(out, row)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *SearchRepo) Search(_ context.Context, userID int64, q searches.HistoryQuery) ([]models.WeatherSearch, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	out := []models.WeatherSearch{}
	for _, row := range r.Rows {
		if row.UserID != userID {
			continue
		}
		if q.City != "" && !strings.Contains(strings.ToLower(row.City), strings.ToLower(q.City)) {
			continue
		}
		if q.Country != "" && !strings.Contains(strings.ToLower(row.Country), strings.ToLower(q.Country)) {
			continue
		}
		if q.Condition != "" && !strings.Contains(strings.ToLower(row.Description), strings.ToLower(q.Condition)) {
			continue
		}
		if q.MinTemp != nil && row.Temperature < *q.MinTemp {
			continue
		}
		if q.MaxTemp != nil && row.Temperature > *q.MaxTemp {
			continue
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *SearchRepo) Count(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, row := range r.Rows {
		if row.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *SearchRepo) CountTempRange(_ context.Context, userID int64, min, max *float64) (int64, error) {
	var n int64
	for _, row := range r.Rows {
		if row.UserID != userID {
			continue
		}
		if min != nil && row.Temperature < *min {
			continue
		}
		if max != nil && row.Temperature >= *max {
			continue
		}
		n++
	}
	return n, nil
}

func (r *SearchRepo) TopCities(_ context.Context, userID int64, limit int) ([]models.CityCount, error) {
	counts := map[string]int64{}
	order := []string{}
	for _, row := range r.Rows {
		if row.UserID != userID {
			continue
		}
		if _, ok := counts[row.City]; !ok {
			order = append(order, row.City)
		}
		counts[row.City]++
	}
	out := []models.CityCount{}
	for _, city := range order {
		out = append(out, models.CityCount{City: city, Count: counts[city]})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *SearchRepo) TopConditions(_ context.Context, userID int64, limit int) ([]models.ConditionCount, error) {
	counts := map[string]int64{}
	order := []string{}
	for _, row := range r.Rows {
		if row.UserID != userID {
			continue
		}
		if _, ok := counts[row.Description]; !ok {
			order = append(order, row.Description)
		}
		counts[row.Description]++
	}
	out := []models.ConditionCount{}
	for _, d := range order {
		out = append(out, models.ConditionCount{Description: d, Count: counts[d]})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *SearchRepo) UserCitySuggestions(_ context.Context, userID int64, query string, limit int) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, row := range r.Rows {
		if row.UserID != userID {
			continue
		}
		if !strings.Contains(strings.ToLower(row.City), strings.ToLower(query)) {
			continue
		}
		key := strings.ToLower(row.City)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row.City)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *SearchRepo) PopularCitySuggestions(_ context.Context, query string, limit int) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, row := range r.Rows {
		if !strings.Contains(strings.ToLower(row.City), strings.ToLower(query)) {
			continue
		}
		key := strings.ToLower(row.City)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row.City)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *SearchRepo) Latest(_ context.Context, userID int64) (*models.WeatherSearch, error) {
	for _, row := range r.Rows {
		if row.UserID == userID {
			cp := row
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

// FilterRepo is an in-memory filters.Repository.
type FilterRepo struct {
	ByUser map[int64]*models.SearchFilter
	nextID int64
}

func (r *FilterRepo) Get(_ context.Context, userID int64) (*models.SearchFilter, error) {
	f, ok := r.ByUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *FilterRepo) Upsert(_ context.Context, f *models.SearchFilter) (*models.SearchFilter, error) {
	cp := *f
	if existing, ok := r.ByUser[f.UserID]; ok {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		cp.ID = r.nextID
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = time.Now()
	r.ByUser[f.UserID] = &cp
	out := cp
	return &out, nil
}

func (r *FilterRepo) Update(_ context.Context, f *models.SearchFilter) (*models.SearchFilter, error) {
	if _, ok := r.ByUser[f.UserID]; !ok {
		return nil, common.ErrorNotFound
	}
	return r.Upsert(context.Background(), f)
}
