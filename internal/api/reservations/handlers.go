// internal/api/reservations/handlers.go
package reservations

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/muniplay/internal/api/apiutil"
	"github.com/codr1/muniplay/internal/api/authz"
	"github.com/codr1/muniplay/internal/booking"
	"github.com/codr1/muniplay/internal/email"
)

var (
	service     *booking.Service
	emailClient email.Sender
	serviceOnce sync.Once
)

const reservationQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *booking.Service, mailer email.Sender) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
		emailClient = mailer
	})
}

type createRequest struct {
	InstallationID  int64  `json:"installationId"`
	Start           string `json:"start"`
	DurationMinutes int    `json:"durationMinutes"`
}

// POST /api/v1/reservations
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Reservation handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user := apiutil.RequireUser(w, r)
	if user == nil {
		return
	}

	var req createRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "invalid request body", Err: err})
		return
	}
	if req.InstallationID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "installationId", Reason: "must be a positive integer"})
		return
	}
	start, err := apiutil.ParseLocalDateTime(req.Start, "start")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	view, err := service.CreateReservation(ctx, user.ID, req.InstallationID, start, req.DurationMinutes)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().
		Int64("reservation_id", view.ID).
		Int64("installation_id", view.InstallationID).
		Str("start", view.Start).
		Msg("Reservation created")

	sendConfirmation(r.Context(), view, logger)
	_ = apiutil.WriteJSON(w, http.StatusCreated, view)
}

// DELETE /api/v1/reservations/{id}
func HandleCancel(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Reservation handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user := apiutil.RequireUser(w, r)
	if user == nil {
		return
	}

	reservationID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	view, err := service.CancelReservation(ctx, reservationID, user.ID, authz.IsAdmin(user))
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("reservation_id", view.ID).Msg("Reservation cancelled")

	sendCancellation(r.Context(), view, user, logger)
	_ = apiutil.WriteJSON(w, http.StatusOK, view)
}

// GET /api/v1/reservations/user/{userId}
func HandleListByUser(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Reservation handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user := apiutil.RequireUser(w, r)
	if user == nil {
		return
	}

	userID, err := apiutil.PathID(r, "userId")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	// Users see only their own reservations; admins see anyone's.
	if userID != user.ID && !authz.IsAdmin(user) {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusForbidden, Message: "you can only list your own reservations"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	views, err := service.ReservationsByUser(ctx, userID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}

// GET /api/v1/reservations/installation/{installationId}
func HandleListByInstallation(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Reservation handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// The listing exposes reservation holders, so it is admin only.
	if apiutil.RequireAdmin(w, r) == nil {
		return
	}

	installationID, err := apiutil.PathID(r, "installationId")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	views, err := service.ReservationsByInstallation(ctx, installationID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, views)
}

// GET /api/v1/reservations/availability?installation_id=&date=
func HandleAvailability(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Reservation handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	installationID, err := apiutil.QueryID(r, "installation_id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	date, err := apiutil.ParseLocalDate(r.URL.Query().Get("date"), "date")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	grid, err := service.DailyAvailability(ctx, installationID, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, grid)
}

func reservationEmailDetails(view *booking.ReservationView) email.ReservationDetails {
	details := email.ReservationDetails{
		InstallationName: view.InstallationName,
		Code:             view.Code,
		Amount:           view.Amount,
	}
	start, startErr := time.ParseInLocation(booking.TimeLayout, view.Start, time.Local)
	end, endErr := time.ParseInLocation(booking.TimeLayout, view.End, time.Local)
	if startErr == nil && endErr == nil {
		details.Date, details.TimeRange = email.FormatDateTimeRange(start, end)
	}
	return details
}

func sendConfirmation(ctx context.Context, view *booking.ReservationView, logger *zerolog.Logger) {
	if emailClient == nil {
		return
	}
	message := email.BuildReservationConfirmation(reservationEmailDetails(view))
	email.Notify(ctx, emailClient, view.UserEmail, message, logger)
}

func sendCancellation(ctx context.Context, view *booking.ReservationView, actor *authz.AuthUser, logger *zerolog.Logger) {
	if emailClient == nil {
		return
	}
	details := reservationEmailDetails(view)
	details.Amount = ""
	if actor != nil && actor.ID != view.UserID {
		details.CancelledBy = "facility staff"
	}
	message := email.BuildReservationCancellation(details)
	email.Notify(ctx, emailClient, view.UserEmail, message, logger)
}
