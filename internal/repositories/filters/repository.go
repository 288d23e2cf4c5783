// Package filters declares the repository contract for per-user search
// preference records.
package filters

import (
	"context"

	"github.com/dkrasnov/skyportal/internal/models"
)

// Repository manages the single SearchFilter record each user may have.
type Repository interface {
	// Get returns the user's filter record or common.ErrorNotFound.
	Get(ctx context.Context, userID int64) (*models.SearchFilter, error)

	// Upsert creates the user's filter record or replaces an existing one.
	Upsert(ctx context.Context, f *models.SearchFilter) (*models.SearchFilter, error)

	// Update overwrites an existing record and returns it, or
	// common.ErrorNotFound when the user has none.
	Update(ctx context.Context, f *models.SearchFilter) (*models.SearchFilter, error)
}
