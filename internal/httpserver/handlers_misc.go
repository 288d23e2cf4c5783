package httpserver

import (
	"fmt"
	"net/http"

	"github.com/dkrasnov/skyportal/internal/services"
)

// MiscHandlers serves the index, the protected greeting and dashboard
// pages, and the staff-only admin stats.
type MiscHandlers struct {
	authSvc    *services.AuthService
	weatherSvc *services.WeatherService
}

func NewMiscHandlers(authSvc *services.AuthService, weatherSvc *services.WeatherService) *MiscHandlers {
	return &MiscHandlers{authSvc: authSvc, weatherSvc: weatherSvc}
}

// Index lists the API surface so a browser hitting the root gets something
// useful instead of a 404.
func (h *MiscHandlers) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Weather Portal API",
		"endpoints": map[string]string{
			"register":      "POST /api/auth/register",
			"login":         "POST /api/auth/login",
			"token_refresh": "POST /api/auth/token/refresh",
			"profile":       "GET /api/auth/profile",
			"weather":       "GET /api/weather?city=<name>",
			"history":       "GET /api/weather/history",
			"search":        "POST /api/weather/search",
			"filters":       "GET|POST|PUT /api/weather/filters",
			"suggestions":   "GET /api/weather/suggestions?q=<prefix>",
			"analytics":     "GET /api/weather/analytics",
		},
	})
}

func (h *MiscHandlers) Protected(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Hello, %s! This is a protected endpoint.", user.Username),
	})
}

// Dashboard summarizes the caller's account and recent activity.
func (h *MiscHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())

	recent, err := h.weatherSvc.History(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":            user.Projection(),
		"recent_searches": recent,
	})
}

// AdminStats reports account counts. The route guard already ensured the
// caller is staff.
func (h *MiscHandlers) AdminStats(w http.ResponseWriter, r *http.Request) {
	total, active, staff, err := h.authSvc.AccountStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"total_users":  total,
		"active_users": active,
		"staff_users":  staff,
	})
}
