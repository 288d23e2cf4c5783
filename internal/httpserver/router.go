package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the full route table. The authenticator and metrics
// middleware apply to every route; capability guards wrap individual
// subtrees.
func NewRouter(
	authn *Authenticator,
	metrics *Metrics,
	authH *AuthHandlers,
	weatherH *WeatherHandlers,
	miscH *MiscHandlers,
	gatherer prometheus.Gatherer,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(authn.Middleware)

	r.HandleFunc("/", miscH.Index).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	authRoutes := r.PathPrefix("/api/auth").Subrouter()
	authRoutes.HandleFunc("/register", authH.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", authH.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/token/refresh", authH.Refresh).Methods(http.MethodPost)

	session := r.PathPrefix("/api/auth").Subrouter()
	session.Use(Require(Authenticated))
	session.HandleFunc("/profile", authH.Profile).Methods(http.MethodGet)
	session.HandleFunc("/profile/update", authH.UpdateProfile).Methods(http.MethodPut)
	session.HandleFunc("/logout", authH.Logout).Methods(http.MethodPost)

	protected := r.PathPrefix("/api/protected").Subrouter()
	protected.Use(Require(Authenticated))
	protected.HandleFunc("/", miscH.Protected).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard", miscH.Dashboard).Methods(http.MethodGet)

	admin := r.PathPrefix("/api/protected/admin").Subrouter()
	admin.Use(Require(Staff))
	admin.HandleFunc("", miscH.AdminStats).Methods(http.MethodGet)

	weatherRoutes := r.PathPrefix("/api/weather").Subrouter()
	weatherRoutes.Use(Require(Authenticated))
	weatherRoutes.HandleFunc("", weatherH.Current).Methods(http.MethodGet)
	weatherRoutes.HandleFunc("/history", weatherH.History).Methods(http.MethodGet)
	weatherRoutes.HandleFunc("/search", weatherH.Search).Methods(http.MethodPost)
	weatherRoutes.HandleFunc("/filters", weatherH.GetFilters).Methods(http.MethodGet)
	weatherRoutes.HandleFunc("/filters", weatherH.SaveFilters).Methods(http.MethodPost)
	weatherRoutes.HandleFunc("/filters", weatherH.UpdateFilters).Methods(http.MethodPut)
	weatherRoutes.HandleFunc("/suggestions", weatherH.Suggestions).Methods(http.MethodGet)
	weatherRoutes.HandleFunc("/analytics", weatherH.Analytics).Methods(http.MethodGet)

	return r
}
