package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkrasnov/skyportal/internal/dbx"
	"github.com/dkrasnov/skyportal/internal/repositories/filters"
	"github.com/dkrasnov/skyportal/internal/repositories/revokedtokens"
	"github.com/dkrasnov/skyportal/internal/repositories/searches"
	"github.com/dkrasnov/skyportal/internal/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// constructors serve both plain connections and transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RevokedTokens(db dbx.DBTX) revokedtokens.Repository
	Searches(db dbx.DBTX) searches.Repository
	Filters(db dbx.DBTX) filters.Repository
}
