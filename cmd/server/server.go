// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/codr1/muniplay/internal/api"
	"github.com/codr1/muniplay/internal/api/auth"
	"github.com/codr1/muniplay/internal/api/blocks"
	"github.com/codr1/muniplay/internal/api/installations"
	"github.com/codr1/muniplay/internal/api/reservations"
	"github.com/codr1/muniplay/internal/config"
)

func newServer(cfg *config.Config) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithAuth([]byte(cfg.App.SecretKey)),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth routes
	mux.HandleFunc("POST /api/v1/auth/register", auth.HandleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", auth.HandleLogin)

	// Reservation routes
	mux.HandleFunc("POST /api/v1/reservations", reservations.HandleCreate)
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", reservations.HandleCancel)
	mux.HandleFunc("GET /api/v1/reservations/user/{userId}", reservations.HandleListByUser)
	mux.HandleFunc("GET /api/v1/reservations/installation/{installationId}", reservations.HandleListByInstallation)
	mux.HandleFunc("GET /api/v1/reservations/availability", reservations.HandleAvailability)

	// Block routes
	mux.HandleFunc("POST /api/v1/blocks", blocks.HandleCreate)
	mux.HandleFunc("GET /api/v1/blocks", blocks.HandleList)
	mux.HandleFunc("GET /api/v1/blocks/global", blocks.HandleListGlobal)
	mux.HandleFunc("GET /api/v1/blocks/installation/{installationId}", blocks.HandleListByInstallation)
	mux.HandleFunc("DELETE /api/v1/blocks/{id}", blocks.HandleDelete)

	// Installation routes
	mux.HandleFunc("POST /api/v1/installations", installations.HandleCreate)
	mux.HandleFunc("GET /api/v1/installations", installations.HandleList)
	mux.HandleFunc("GET /api/v1/installations/active", installations.HandleListActive)
	mux.HandleFunc("GET /api/v1/installations/{id}", installations.HandleGet)
	mux.HandleFunc("PUT /api/v1/installations/{id}", installations.HandleUpdate)
	mux.HandleFunc("DELETE /api/v1/installations/{id}", installations.HandleDelete)
}
