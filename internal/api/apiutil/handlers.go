package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/muniplay/internal/api/authz"
	"github.com/codr1/muniplay/internal/booking"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

type errorResponse struct {
	Error string `json:"error"`
}

// WriteError maps an error to an HTTP response. Business errors from the
// booking engine carry client-safe messages and a kind that picks the
// status; everything else is logged and reported as a 500 without leaking
// internals.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		_ = WriteJSON(w, handlerErr.Status, errorResponse{Error: handlerErr.Message})
		return
	}

	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		_ = WriteJSON(w, http.StatusBadRequest, errorResponse{Error: fieldErr.Error()})
		return
	}

	if kind := booking.KindOf(err); kind != 0 {
		_ = WriteJSON(w, statusForKind(kind), errorResponse{Error: err.Error()})
		return
	}

	log.Ctx(r.Context()).Error().Err(err).Msg("Unhandled handler error")
	_ = WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func statusForKind(kind booking.Kind) int {
	switch kind {
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindValidation:
		return http.StatusBadRequest
	case booking.KindConflict, booking.KindState:
		return http.StatusConflict
	case booking.KindPermission:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RequireAdmin enforces admin access for a handler, writing the response on
// failure. Returns the admin user, or nil after the response was written.
func RequireAdmin(w http.ResponseWriter, r *http.Request) *authz.AuthUser {
	logger := log.Ctx(r.Context())
	user, err := authz.RequireAdmin(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrUnauthenticated):
			logger.Warn().Msg("Admin access denied: unauthenticated")
			_ = WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		case errors.Is(err, authz.ErrForbidden):
			logger.Warn().Int64("user_id", authz.UserFromContext(r.Context()).ID).Msg("Admin access denied: forbidden")
			_ = WriteJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
		default:
			logger.Error().Err(err).Msg("Admin access denied: error")
			_ = WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		}
		return nil
	}
	return user
}

// RequireUser enforces authentication for a handler, writing the response on
// failure. Returns the user, or nil after the response was written.
func RequireUser(w http.ResponseWriter, r *http.Request) *authz.AuthUser {
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Warn().Msg("Access denied: unauthenticated")
		_ = WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return nil
	}
	return user
}
