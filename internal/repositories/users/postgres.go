package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dkrasnov/skyportal/internal/common"
	"github.com/dkrasnov/skyportal/internal/dbx"
	"github.com/dkrasnov/skyportal/internal/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, is_active, is_staff, date_joined, last_login`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.IsActive, &user.IsStaff,
		&user.DateJoined, &user.LastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, is_active, is_staff)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date_joined
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.IsActive, user.IsStaff,
	).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) (*models.User, error) {
	query := `
		UPDATE users SET first_name = $1, last_name = $2
		WHERE id = $3
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, firstName, lastName, id))
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_login = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CountByFlags(ctx context.Context) (total, active, staff int64, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE is_staff)
		FROM users
	`
	if err = r.db.QueryRowContext(ctx, query).Scan(&total, &active, &staff); err != nil {
		return 0, 0, 0, fmt.Errorf("db error: %w", err)
	}
	return total, active, staff, nil
}
