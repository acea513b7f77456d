// internal/api/installations/handlers.go
package installations

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/muniplay/internal/api/apiutil"
	"github.com/codr1/muniplay/internal/booking"
)

var (
	service     *booking.Service
	serviceOnce sync.Once
)

const installationQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *booking.Service) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
	})
}

type upsertRequest struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Number *int64 `json:"number,omitempty"`
	Active bool   `json:"active"`
}

func (req upsertRequest) params() booking.InstallationParams {
	return booking.InstallationParams{
		Name:   req.Name,
		Type:   req.Type,
		Number: req.Number,
		Active: req.Active,
	}
}

// POST /api/v1/installations
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Installation handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if apiutil.RequireAdmin(w, r) == nil {
		return
	}

	var req upsertRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "invalid request body", Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), installationQueryTimeout)
	defer cancel()

	view, err := service.CreateInstallation(ctx, req.params())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("installation_id", view.ID).Str("name", view.Name).Msg("Installation created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, view)
}

// PUT /api/v1/installations/{id}
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Installation handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if apiutil.RequireAdmin(w, r) == nil {
		return
	}

	installationID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req upsertRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "invalid request body", Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), installationQueryTimeout)
	defer cancel()

	view, err := service.UpdateInstallation(ctx, installationID, req.params())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("installation_id", view.ID).Msg("Installation updated")
	_ = apiutil.WriteJSON(w, http.StatusOK, view)
}

// DELETE /api/v1/installations/{id}
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Installation handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if apiutil.RequireAdmin(w, r) == nil {
		return
	}

	installationID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), installationQueryTimeout)
	defer cancel()

	if err := service.DeleteInstallation(ctx, installationID); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("installation_id", installationID).Msg("Installation deleted")
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/installations/{id}
func HandleGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Installation handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	installationID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), installationQueryTimeout)
	defer cancel()

	view, err := service.Installation(ctx, installationID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, view)
}

// GET /api/v1/installations
func HandleList(w http.ResponseWriter, r *http.Request) {
	listInstallations(w, r, func(ctx context.Context) ([]booking.InstallationView, error) {
		return service.Installations(ctx)
	})
}

// GET /api/v1/installations/active
func HandleListActive(w http.ResponseWriter, r *http.Request) {
	listInstallations(w, r, func(ctx context.Context) ([]booking.InstallationView, error) {
		return service.ActiveInstallations(ctx)
	})
}

func listInstallations(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]booking.InstallationView, error)) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Installation handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), installationQueryTimeout)
	defer cancel()

	views, err := list(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}
