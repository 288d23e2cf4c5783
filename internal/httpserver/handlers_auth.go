package httpserver

import (
	"net/http"

	"github.com/dkrasnov/skyportal/internal/logging"
	"github.com/dkrasnov/skyportal/internal/services"
)

// AuthHandlers serves the session and profile endpoints.
type AuthHandlers struct {
	svc *services.AuthService
	log logging.Logger
}

func NewAuthHandlers(svc *services.AuthService, log logging.Logger) *AuthHandlers {
	return &AuthHandlers{svc: svc, log: log}
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.log.Info(r.Context(), "user registered", "username", user.Username)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "user registered successfully",
		"user":    user,
	})
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.log.Info(r.Context(), "user logged in", "username", user.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
		"user":    user,
	})
}

func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.svc.Refresh(r.Context(), req.Refresh)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
	})
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Logout(r.Context(), req.Refresh); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())
	p, err := h.svc.Profile(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())

	var req services.ProfileUpdate
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.svc.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "profile updated successfully",
		"user":    p,
	})
}
