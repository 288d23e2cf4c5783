package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkrasnov/skyportal/internal/auth"
	"github.com/dkrasnov/skyportal/internal/logging"
	"github.com/dkrasnov/skyportal/internal/models"
)

type identityKeyType struct{}

var identityKey identityKeyType

// UserStore is the identity lookup the middleware needs.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Authenticator resolves the Authorization header into an identity on the
// request context. Requests without a Bearer header pass through anonymous;
// the per-route guards decide whether that is acceptable.
type Authenticator struct {
	codec *auth.Codec
	store UserStore
	log   logging.Logger
}

func NewAuthenticator(codec *auth.Codec, store UserStore, log logging.Logger) *Authenticator {
	return &Authenticator{codec: codec, store: store, log: log}
}

// Middleware authenticates the request when a Bearer token is presented.
// A presented token that fails any check is a hard 401; absence of a
// token is not.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := a.codec.Decode(parts[1])
		if err != nil {
			writeErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if claims.TokenType != auth.TokenTypeAccess {
			writeErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		user, err := a.store.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if !user.IsActive {
			writeErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFrom returns the authenticated user on the context, or nil for
// anonymous requests.
func IdentityFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(identityKey).(*models.User)
	return user
}
