package revokedtokens

import (
	"context"
	"fmt"
	"time"

	"github.com/dkrasnov/skyportal/internal/dbx"
)

// PostgresRepository implements the ledger over dbx.DBTX. Add relies on
// the jti primary key and ON CONFLICT DO NOTHING: the row count tells the
// caller whether this statement consumed the jti or lost to an earlier
// writer, without a separate lookup.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, jti string, userID int64) (bool, error) {
	query := `
		INSERT INTO revoked_tokens (jti, user_id)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, jti, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM revoked_tokens WHERE revoked_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
