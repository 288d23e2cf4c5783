package httpserver

import "net/http"

// Capability is a named level of access a route demands.
type Capability int

const (
	// Authenticated requires any signed-in active user.
	Authenticated Capability = iota
	// Staff additionally requires the is_staff flag.
	Staff
)

// Require wraps a handler with an access check. Anonymous callers get 401;
// authenticated callers lacking the capability get 403. The two cases stay
// distinct so clients can tell "log in first" from "not allowed".
func Require(capability Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := IdentityFrom(r.Context())
			if user == nil {
				writeErrorMessage(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if capability == Staff && !user.IsStaff {
				writeErrorMessage(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
