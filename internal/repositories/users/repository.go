// Package users declares the repository contract for identity records.
package users

import (
	"context"
	"time"

	"github.com/dkrasnov/skyportal/internal/models"
)

// Repository defines operations over stored identities. Implementations
// return common.ErrorNotFound for absent rows and common.ErrorConflict on
// username/email uniqueness violations.
type Repository interface {
	// Create inserts a new identity and returns it with the store-assigned
	// id and date_joined.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername looks up an identity by exact username match.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID looks up an identity by id.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// UpdateProfile replaces the mutable name fields and returns the
	// updated identity.
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) (*models.User, error)

	// TouchLastLogin records a successful login timestamp.
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error

	// CountByFlags returns total, active, and staff user counts.
	CountByFlags(ctx context.Context) (total, active, staff int64, err error)
}
