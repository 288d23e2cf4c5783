package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dkrasnov/skyportal/internal/common"
	"github.com/dkrasnov/skyportal/internal/models"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Ledger is the subset of the revocation-ledger repository the issuer needs.
type Ledger interface {
	// Add records a jti as revoked and reports whether this call inserted
	// it. The check and the insert must be one atomic operation: of any
	// number of concurrent Adds for the same jti, exactly one sees true.
	Add(ctx context.Context, jti string, userID int64) (bool, error)
}

// Issuer mints access/refresh token pairs and drives the refresh-token
// lifecycle: issue -> rotate-on-use -> revoke. Rotated-out and logged-out
// refresh tokens are recorded in the ledger so they cannot be replayed.
type Issuer struct {
	codec      *Codec
	ledger     Ledger
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(codec *Codec, ledger Ledger, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		codec:      codec,
		ledger:     ledger,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair mints a fresh token pair for an active identity.
func (i *Issuer) IssuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	if !user.IsActive {
		return nil, common.ErrInactiveAccount
	}
	return i.mintPair(user.ID)
}

// Refresh validates a refresh token, consumes its jti through the ledger,
// and mints a replacement pair for the same subject.
//
// Checks run in order: signature, token type, expiry, ledger. Consuming
// the jti and checking for prior use is a single ledger append: only the
// caller whose Add actually inserted gets a new pair, so concurrent
// Refresh calls bearing the same token cannot both succeed.
func (i *Issuer) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := i.codec.Decode(refreshToken)
	if err != nil && !errors.Is(err, common.ErrTokenExpired) {
		return nil, common.ErrInvalidToken
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, common.ErrWrongTokenType
	}
	if err != nil {
		return nil, common.ErrTokenExpired
	}

	consumed, ledgerErr := i.ledger.Add(ctx, claims.ID, claims.UserID)
	if ledgerErr != nil {
		return nil, common.ErrorInternal
	}
	if !consumed {
		return nil, common.ErrTokenRevoked
	}
	return i.mintPair(claims.UserID)
}

// Revoke records the refresh token's jti in the ledger without issuing a
// replacement. Malformed, expired, or non-refresh input is a no-op success,
// and revoking the same token twice is idempotent.
func (i *Issuer) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := i.codec.Decode(refreshToken)
	if err != nil && !errors.Is(err, common.ErrTokenExpired) {
		return nil
	}
	if claims.TokenType != TokenTypeRefresh || claims.ID == "" {
		return nil
	}
	if _, err := i.ledger.Add(ctx, claims.ID, claims.UserID); err != nil {
		return common.ErrorInternal
	}
	return nil
}

func (i *Issuer) mintPair(userID int64) (*TokenPair, error) {
	access, err := i.codec.Encode(userID, TokenTypeAccess, i.accessTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := i.codec.Encode(userID, TokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
