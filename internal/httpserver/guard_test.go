package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkrasnov/skyportal/internal/models"
)

func guardedRequest(t *testing.T, capability Capability, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	handler := Require(capability)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), identityKey, user))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthenticated(t *testing.T) {
	if rec := guardedRequest(t, Authenticated, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}
	user := &models.User{ID: 1, Username: "alice", IsActive: true}
	if rec := guardedRequest(t, Authenticated, user); rec.Code != http.StatusOK {
		t.Errorf("authenticated: status = %d, want 200", rec.Code)
	}
}

func TestRequireStaff(t *testing.T) {
	if rec := guardedRequest(t, Staff, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	regular := &models.User{ID: 1, Username: "alice", IsActive: true}
	if rec := guardedRequest(t, Staff, regular); rec.Code != http.StatusForbidden {
		t.Errorf("non-staff: status = %d, want 403", rec.Code)
	}

	admin := &models.User{ID: 2, Username: "root", IsActive: true, IsStaff: true}
	if rec := guardedRequest(t, Staff, admin); rec.Code != http.StatusOK {
		t.Errorf("staff: status = %d, want 200", rec.Code)
	}
}
