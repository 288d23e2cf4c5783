// Package auth implements the token subsystem: an HS256 claim codec for
// access and refresh tokens, password hashing, and the issuer that mints,
// rotates, and revokes token pairs.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dkrasnov/skyportal/internal/common"
)

// Token type discriminators carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the signed claim set carried by both token kinds. The jti
// (RegisteredClaims.ID) is what the revocation ledger tracks for refresh
// tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
}

// Codec signs and verifies compact token strings with a symmetric HMAC
// secret. It performs pure computation and no I/O.
type Codec struct {
	secret []byte
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Encode mints a signed token for userID with the given type discriminator
// and validity window. Every token gets a fresh jti.
func (c *Codec) Encode(userID int64, tokenType string, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID:    userID,
		TokenType: tokenType,
	})
	return token.SignedString(c.secret)
}

// Decode verifies the signature and parses the claim set. The signature
// check always precedes semantic checks, so no claim of a tampered token
// is ever trusted.
//
// An expired but otherwise well-signed token returns the parsed claims
// together with common.ErrTokenExpired, which lets the issuer check the
// token type before reporting expiry. Every other failure returns
// common.ErrInvalidToken without claims.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return claims, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
