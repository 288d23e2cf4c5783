package httpserver

import (
	"net/http"

	"github.com/dkrasnov/skyportal/internal/logging"
	"github.com/dkrasnov/skyportal/internal/models"
	"github.com/dkrasnov/skyportal/internal/services"
)

// WeatherHandlers serves the weather lookup, history, filter, suggestion,
// and analytics endpoints. All of them require an authenticated caller.
type WeatherHandlers struct {
	svc *services.WeatherService
	log logging.Logger
}

func NewWeatherHandlers(svc *services.WeatherService, log logging.Logger) *WeatherHandlers {
	return &WeatherHandlers{svc: svc, log: log}
}

func (h *WeatherHandlers) Current(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())
	city := r.URL.Query().Get("city")

	rec, err := h.svc.Current(r.Context(), user.ID, city)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *WeatherHandlers) History(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())

	list, err := h.svc.History(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Search dispatches an advanced search on its search_type: "current"
// looks up a city live and records it, "history" filters past lookups,
// and "favorites" fetches live weather for the caller's favorite cities.
func (h *WeatherHandlers) Search(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())

	var req struct {
		SearchType string   `json:"search_type"`
		City       string   `json:"city"`
		Country    string   `json:"country"`
		Condition  string   `json:"weather_condition"`
		MinTemp    *float64 `json:"min_temperature"`
		MaxTemp    *float64 `json:"max_temperature"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	switch req.SearchType {
	case "", "current":
		rec, err := h.svc.Current(r.Context(), user.ID, req.City)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)

	case "history":
		list, err := h.svc.SearchHistory(r.Context(), user.ID, &services.SearchQuery{
			City:      req.City,
			Country:   req.Country,
			Condition: req.Condition,
			MinTemp:   req.MinTemp,
			MaxTemp:   req.MaxTemp,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case "favorites":
		reports, configured, err := h.svc.FavoritesWeather(r.Context(), user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !configured {
			writeJSON(w, http.StatusOK, map[string]string{"message": "No favorite cities set"})
			return
		}
		writeJSON(w, http.StatusOK, reports)

	default:
		writeErrorMessage(w, http.StatusBadRequest, "invalid search type")
	}
}

func (h *WeatherHandlers) GetFilters(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())

	f, err := h.svc.Filters(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *WeatherHandlers) SaveFilters(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())

	f, err := h.decodeFilter(r, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	saved, err := h.svc.SaveFilters(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *WeatherHandlers) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())

	f, err := h.decodeFilter(r, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	saved, err := h.svc.UpdateFilters(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *WeatherHandlers) Suggestions(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())

	out, err := h.svc.Suggestions(r.Context(), user.ID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": out})
}

func (h *WeatherHandlers) Analytics(w http.ResponseWriter, r *http.Request) {
	user := IdentityFrom(r.Context())

	a, err := h.svc.Analytics(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *WeatherHandlers) decodeFilter(r *http.Request, userID int64) (*models.SearchFilter, error) {
	var req struct {
		MinTemperature    *float64 `json:"min_temperature"`
		MaxTemperature    *float64 `json:"max_temperature"`
		WeatherConditions []string `json:"weather_conditions"`
		FavoriteCities    []string `json:"favorite_cities"`
	}
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if req.WeatherConditions == nil {
		req.WeatherConditions = []string{}
	}
	if req.FavoriteCities == nil {
		req.FavoriteCities = []string{}
	}
	return &models.SearchFilter{
		UserID:            userID,
		MinTemperature:    req.MinTemperature,
		MaxTemperature:    req.MaxTemperature,
		WeatherConditions: req.WeatherConditions,
		FavoriteCities:    req.FavoriteCities,
	}, nil
}
