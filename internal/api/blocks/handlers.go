// internal/api/blocks/handlers.go
package blocks

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

const blockQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *booking.Service) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
	})
}

type createRequest struct {
	InstallationID *int64 `json:"installationId,omitempty"`
	Reason         string `json:"reason"`
	Start          string `json:"start"`
	End            string `json:"end"`
}

// POST /api/v1/blocks
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Block handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	admin := apiutil.RequireAdmin(w, r)
	if admin == nil {
		return
	}

	var req createRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "invalid request body", Err: err})
		return
	}
	start, err := apiutil.ParseLocalDateTime(req.Start, "start")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	end, err := apiutil.ParseLocalDateTime(req.End, "end")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), blockQueryTimeout)
	defer cancel()

	view, err := service.CreateBlock(ctx, booking.CreateBlockParams{
		InstallationID: req.InstallationID,
		Reason:         req.Reason,
		Start:          start,
		End:            end,
		CreatedBy:      admin.ID,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("block_id", view.ID).Str("scope", view.InstallationName).Msg("Block created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, view)
}

// DELETE /api/v1/blocks/{id}
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Block handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if apiutil.RequireAdmin(w, r) == nil {
		return
	}

	blockID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), blockQueryTimeout)
	defer cancel()

	if err := service.DeleteBlock(ctx, blockID); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("block_id", blockID).Msg("Block deleted")
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/blocks
func HandleList(w http.ResponseWriter, r *http.Request) {
	listBlocks(w, r, func(ctx context.Context) ([]booking.BlockView, error) {
		return service.Blocks(ctx)
	})
}

// GET /api/v1/blocks/global
func HandleListGlobal(w http.ResponseWriter, r *http.Request) {
	listBlocks(w, r, func(ctx context.Context) ([]booking.BlockView, error) {
		return service.GlobalBlocks(ctx)
	})
}

// GET /api/v1/blocks/installation/{installationId}
func HandleListByInstallation(w http.ResponseWriter, r *http.Request) {
	installationID, err := apiutil.PathID(r, "installationId")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	listBlocks(w, r, func(ctx context.Context) ([]booking.BlockView, error) {
		return service.InstallationBlocks(ctx, installationID)
	})
}

func listBlocks(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]booking.BlockView, error)) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Block handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if apiutil.RequireUser(w, r) == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), blockQueryTimeout)
	defer cancel()

	views, err := list(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}
