// Package httpserver carries the REST surface: routing, authentication
// middleware, request handlers, and the server lifecycle.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkrasnov/skyportal/internal/common"
	"github.com/dkrasnov/skyportal/internal/weather"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeErrorMessage writes a JSON error body with a custom message.
func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps a service error to the HTTP reply. Token and credential
// failures all collapse to a generic 401 so the body never reveals whether
// a token was malformed, expired, or revoked, and never echoes the token.
func writeError(w http.ResponseWriter, err error) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ve.Fields)
	case errors.Is(err, common.ErrorConflict):
		writeErrorMessage(w, http.StatusBadRequest, "already exists")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked),
		errors.Is(err, common.ErrWrongTokenType),
		errors.Is(err, common.ErrInactiveAccount):
		writeErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrorForbidden):
		writeErrorMessage(w, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, weather.ErrCityNotFound):
		writeErrorMessage(w, http.StatusNotFound, "city not found")
	case errors.Is(err, common.ErrorNotFound):
		writeErrorMessage(w, http.StatusNotFound, "not found")
	default:
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.NewValidationError("body", "invalid JSON")
	}
	return nil
}
