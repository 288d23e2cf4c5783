// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, the token lifecycle, and
// profile reads/updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dkrasnov/skyportal/internal/auth"
	"github.com/dkrasnov/skyportal/internal/common"
	"github.com/dkrasnov/skyportal/internal/dbx"
	"github.com/dkrasnov/skyportal/internal/models"
	"github.com/dkrasnov/skyportal/internal/repositories/repomanager"
)

// RegisterRequest carries the fields of a registration attempt.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// ProfileUpdate carries the mutable profile fields. A nil pointer leaves
// the stored value untouched.
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// AuthService provides authentication-related operations:
// - Register: validate and create users
// - Login: verify credentials and mint token pairs
// - Refresh/Logout: drive the refresh-token lifecycle
// - Profile/UpdateProfile: read and edit the caller's account
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
}

// NewAuthService constructs an AuthService over the repositories and the
// token issuer.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer) *AuthService {
	return &AuthService{db: db, repomanager: m, issuer: issuer}
}

// Register validates the request, creates the user, and returns its public
// projection. Validation failures come back as *common.ValidationError;
// a taken username or email maps to common.ErrorConflict.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.UserProjection, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	// The pre-check gives the caller a field-level message; the unique
	// index still backstops registrations racing outside this tx.
	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByUsername(ctx, req.Username); err == nil {
			return common.NewValidationError("username", "a user with that username already exists")
		} else if !errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInternal
		}

		var createErr error
		created, createErr = repo.Create(ctx, &models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			IsActive:     true,
		})
		return createErr
	})
	if err != nil {
		var ve *common.ValidationError
		if errors.As(err, &ve) || errors.Is(err, common.ErrorConflict) || errors.Is(err, common.ErrorInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	p := created.Projection()
	return &p, nil
}

// Login verifies the credentials and, on success, records the login time
// and returns a fresh token pair with the user's projection. Unknown
// usernames and wrong passwords both map to common.ErrorUnauthorized so
// the reply does not reveal which part failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (*auth.TokenPair, *models.UserProjection, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.issuer.IssuePair(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrInactiveAccount) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if err := repo.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		return nil, nil, common.ErrorInternal
	}

	p := user.Projection()
	return pair, &p, nil
}

// Refresh rotates a refresh token into a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	return s.issuer.Refresh(ctx, refreshToken)
}

// Logout revokes the refresh token. Access tokens already in the wild stay
// valid until their own expiry; only the refresh path is cut off.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.issuer.Revoke(ctx, refreshToken)
}

// Profile returns the public projection of a user by id.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.UserProjection, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	p := user.Projection()
	return &p, nil
}

// UpdateProfile applies a partial name update and returns the result.
// Username and email are immutable through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, upd *ProfileUpdate) (*models.UserProjection, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	firstName := user.FirstName
	lastName := user.LastName
	if upd.FirstName != nil {
		firstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		lastName = strings.TrimSpace(*upd.LastName)
	}

	updated, err := repo.UpdateProfile(ctx, userID, firstName, lastName)
	if err != nil {
		return nil, common.ErrorInternal
	}
	p := updated.Projection()
	return &p, nil
}

// AccountStats returns total, active, and staff user counts for the admin
// dashboard.
func (s *AuthService) AccountStats(ctx context.Context) (total, active, staff int64, err error) {
	return s.repomanager.Users(s.db).CountByFlags(ctx)
}

func validateRegistration(req *RegisterRequest) error {
	ve := &common.ValidationError{}

	if strings.TrimSpace(req.Username) == "" {
		ve.Add("username", "this field is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		ve.Add("email", "this field is required")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		ve.Add("email", "enter a valid email address")
	}
	if req.Password == "" {
		ve.Add("password", "this field is required")
	} else if len(req.Password) < 8 {
		ve.Add("password", "password must be at least 8 characters")
	}
	if req.PasswordConfirm != req.Password {
		ve.Add("password_confirm", "password fields didn't match")
	}

	if ve.Empty() {
		return nil
	}
	return ve
}
