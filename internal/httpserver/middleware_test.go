package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkrasnov/skyportal/internal/auth"
	"github.com/dkrasnov/skyportal/internal/common"
	"github.com/dkrasnov/skyportal/internal/logging"
	"github.com/dkrasnov/skyportal/internal/models"
)

type staticStore struct {
	users map[int64]*models.User
}

func (s *staticStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func newTestAuthenticator(t *testing.T) (*Authenticator, *auth.Codec, *staticStore) {
	t.Helper()
	codec := auth.NewCodec([]byte("test-secret"))
	store := &staticStore{users: map[int64]*models.User{
		1: {ID: 1, Username: "alice", IsActive: true},
		2: {ID: 2, Username: "mallory", IsActive: false},
	}}
	return NewAuthenticator(codec, store, logging.NewNopLogger()), codec, store
}

// echoIdentity reports whether the middleware attached a user.
func echoIdentity(t *testing.T, got **models.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAnonymousPassThrough(t *testing.T) {
	a, _, _ := newTestAuthenticator(t)

	for _, header := range []string{"", "Token abc", "Bearer"} {
		var got *models.User
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		a.Middleware(echoIdentity(t, &got)).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("header %q: status = %d, want 200", header, rec.Code)
		}
		if got != nil {
			t.Errorf("header %q: expected anonymous request", header)
		}
	}
}

func TestMiddlewareValidToken(t *testing.T) {
	a, codec, _ := newTestAuthenticator(t)

	token, err := codec.Encode(1, auth.TokenTypeAccess, time.Hour)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var got *models.User
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	a.Middleware(echoIdentity(t, &got)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.Username != "alice" {
		t.Fatalf("identity = %+v, want alice", got)
	}
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	a, codec, _ := newTestAuthenticator(t)

	otherCodec := auth.NewCodec([]byte("other-secret"))
	forged, _ := otherCodec.Encode(1, auth.TokenTypeAccess, time.Hour)
	expired, _ := codec.Encode(1, auth.TokenTypeAccess, -time.Hour)
	refresh, _ := codec.Encode(1, auth.TokenTypeRefresh, time.Hour)
	unknownUser, _ := codec.Encode(99, auth.TokenTypeAccess, time.Hour)
	inactive, _ := codec.Encode(2, auth.TokenTypeAccess, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong signature", forged},
		{"expired", expired},
		{"refresh used as access", refresh},
		{"unknown user", unknownUser},
		{"inactive user", inactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *models.User
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			a.Middleware(echoIdentity(t, &got)).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if got != nil {
				t.Fatal("handler must not run for rejected tokens")
			}
		})
	}
}
