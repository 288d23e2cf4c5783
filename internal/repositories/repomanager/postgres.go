// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dkrasnov/skyportal/internal/dbx"
	"github.com/dkrasnov/skyportal/internal/migrations"
	"github.com/dkrasnov/skyportal/internal/repositories/filters"
	"github.com/dkrasnov/skyportal/internal/repositories/revokedtokens"
	"github.com/dkrasnov/skyportal/internal/repositories/searches"
	"github.com/dkrasnov/skyportal/internal/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// RevokedTokens returns a revokedtokens.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) RevokedTokens(db dbx.DBTX) revokedtokens.Repository {
	return revokedtokens.NewPostgresRepository(db)
}

// Searches returns a searches.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Searches(db dbx.DBTX) searches.Repository {
	return searches.NewPostgresRepository(db)
}

// Filters returns a filters.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Filters(db dbx.DBTX) filters.Repository {
	return filters.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
