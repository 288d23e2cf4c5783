package repotest

import (
	"context"
	"fmt"
	"testing"

	"github.com/dkrasnov/skyportal/internal/models"
	"github.com/dkrasnov/skyportal/internal/repositories/searches"
)

// The fakes stand in for the SQL repositories in service and handler
// tests, so their matching rules must line up with the SQL ones.

func TestSearchRepo_CountryMatchesSubstring(t *testing.T) {
	t.Parallel()

	repo := &SearchRepo{}
	ctx := context.Background()
	if _, err := repo.Create(ctx, &models.WeatherSearch{UserID: 1, City: "London", Country: "United Kingdom"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := repo.Create(ctx, &models.WeatherSearch{UserID: 1, City: "Riga", Country: "Latvia"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	rows, err := repo.Search(ctx, 1, searches.HistoryQuery{Country: "kingdom"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(rows) != 1 || rows[0].City != "London" {
		t.Fatalf("country filter must match case-insensitive substrings, got %+v", rows)
	}
}

func TestSearchRepo_LimitDefaultsToTwenty(t *testing.T) {
	t.Parallel()

	repo := &SearchRepo{}
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		s := &models.WeatherSearch{UserID: 1, City: fmt.Sprintf("City%d", i), Country: "LV"}
		if _, err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	rows, err := repo.Search(ctx, 1, searches.HistoryQuery{})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(rows) != 20 {
		t.Fatalf("expected the default cap of 20 rows, got %d", len(rows))
	}

	rows, err = repo.Search(ctx, 1, searches.HistoryQuery{Limit: 5})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows with an explicit limit, got %d", len(rows))
	}
}

func TestLedgerRepo_AddInsertsOnce(t *testing.T) {
	t.Parallel()

	repo := &LedgerRepo{JTIs: map[string]bool{}}
	ctx := context.Background()

	inserted, err := repo.Add(ctx, "jti-1", 1)
	if err != nil || !inserted {
		t.Fatalf("first Add = (%v, %v), want (true, nil)", inserted, err)
	}
	inserted, err = repo.Add(ctx, "jti-1", 1)
	if err != nil || inserted {
		t.Fatalf("second Add = (%v, %v), want (false, nil)", inserted, err)
	}
}
