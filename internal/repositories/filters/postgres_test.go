package filters

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dkrasnov/skyportal/internal/common"
	"github.com/dkrasnov/skyportal/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func filterRow(id, userID int64, conditions, cities string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "min_temperature", "max_temperature",
		"weather_conditions", "favorite_cities", "created_at", "updated_at",
	}).AddRow(id, userID, nil, nil, conditions, cities, now, now)
}

func TestGet_DecodesJSONLists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+search_filters\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs(int64(1)).
		WillReturnRows(filterRow(1, 1, `["rain","snow"]`, `["London"]`))

	got, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(got.WeatherConditions) != 2 || got.WeatherConditions[0] != "rain" {
		t.Fatalf("unexpected conditions: %+v", got.WeatherConditions)
	}
	if len(got.FavoriteCities) != 1 || got.FavoriteCities[0] != "London" {
		t.Fatalf("unexpected cities: %+v", got.FavoriteCities)
	}
}

func TestGet_MalformedJSONFallsBackToEmpty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+search_filters`).
		WithArgs(int64(1)).
		WillReturnRows(filterRow(1, 1, `{broken`, ``))

	got, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(got.WeatherConditions) != 0 || len(got.FavoriteCities) != 0 {
		t.Fatalf("expected empty lists, got %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+search_filters`).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 2)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpsert_EncodesListsAsJSON(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+search_filters.*ON\s+CONFLICT\s*\(user_id\)\s*DO\s+UPDATE`).
		WithArgs(int64(1), nil, nil, `["rain"]`, `["Paris","Rome"]`).
		WillReturnRows(filterRow(3, 1, `["rain"]`, `["Paris","Rome"]`))

	got, err := repo.Upsert(context.Background(), &models.SearchFilter{
		UserID:            1,
		WeatherConditions: []string{"rain"},
		FavoriteCities:    []string{"Paris", "Rome"},
	})
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if got.ID != 3 || len(got.FavoriteCities) != 2 {
		t.Fatalf("unexpected filter: %+v", got)
	}
}

func TestUpsert_NilListsBecomeEmptyJSON(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+search_filters`).
		WithArgs(int64(1), nil, nil, `[]`, `[]`).
		WillReturnRows(filterRow(4, 1, `[]`, `[]`))

	if _, err := repo.Upsert(context.Background(), &models.SearchFilter{UserID: 1}); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+search_filters\s+SET`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.SearchFilter{UserID: 5})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
