package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"parispub/internal/auth"
)

type RouterConfig struct {
	Reservations *UserReservationHandler
	Admin        *AdminHandler
	AdminAuth    *AdminAuthHandler
	Tokens       auth.TokenParser
	CORSOrigins  []string
	Logger       *zerolog.Logger
}

// NewRouter wires every route behind request logging and the CORS
// allow-list.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	r := mux.NewRouter()
	r.Use(RequestLogger(logger))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("API is running"))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public endpoints
	r.HandleFunc("/api/availability", cfg.Reservations.CheckAvailability).Methods("GET")
	r.HandleFunc("/api/reservations", cfg.Reservations.CreateReservation).Methods("POST")
	r.HandleFunc("/api/admin/login", cfg.AdminAuth.Login).Methods("POST")

	// Admin endpoints (protected)
	requireAdmin := auth.AdminAuthMiddleware(cfg.Tokens)
	r.Handle("/api/reservations", requireAdmin(http.HandlerFunc(cfg.Admin.ListReservations))).Methods("GET")
	r.Handle("/api/reservations/{id}", requireAdmin(http.HandlerFunc(cfg.Admin.AdminDeleteReservation))).Methods("DELETE")
	r.Handle("/api/auth/me", requireAdmin(http.HandlerFunc(cfg.AdminAuth.Me))).Methods("GET")

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)
	return cors(r)
}
