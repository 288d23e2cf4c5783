package revokedtokens

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestAdd_Inserts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+revoked_tokens\s*\(jti,\s*user_id\).*ON\s+CONFLICT\s*\(jti\)\s*DO\s+NOTHING`).
		WithArgs("jti-1", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := repo.Add(context.Background(), "jti-1", 7)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if !inserted {
		t.Fatalf("expected inserted=true for a fresh jti")
	}
}

func TestAdd_DuplicateReportsNotInserted(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// ON CONFLICT DO NOTHING reports zero rows affected; the call still
	// succeeds but the jti was consumed by an earlier writer.
	mock.ExpectExec(`INSERT\s+INTO\s+revoked_tokens`).
		WithArgs("jti-1", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.Add(context.Background(), "jti-1", 7)
	if err != nil {
		t.Fatalf("duplicate Add must not error: %v", err)
	}
	if inserted {
		t.Fatalf("expected inserted=false for a duplicate jti")
	}
}

func TestPurgeOlderThan(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	mock.ExpectExec(`DELETE\s+FROM\s+revoked_tokens\s+WHERE\s+revoked_at\s*<\s*\$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.PurgeOlderThan(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("PurgeOlderThan error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 purged, got %d", n)
	}
}
