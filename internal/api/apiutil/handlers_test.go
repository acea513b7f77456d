package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codr1/muniplay/internal/booking"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not found",
			err:        &booking.Error{Kind: booking.KindNotFound, Message: "reservation not found"},
			wantStatus: http.StatusNotFound,
			wantBody:   "reservation not found",
		},
		{
			name:       "validation",
			err:        &booking.Error{Kind: booking.KindValidation, Message: "duration must be between 60 and 180 minutes"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "duration must be between 60 and 180 minutes",
		},
		{
			name:       "conflict",
			err:        &booking.Error{Kind: booking.KindConflict, Message: "installation is already reserved"},
			wantStatus: http.StatusConflict,
			wantBody:   "installation is already reserved",
		},
		{
			name:       "permission",
			err:        &booking.Error{Kind: booking.KindPermission, Message: "not your reservation"},
			wantStatus: http.StatusForbidden,
			wantBody:   "not your reservation",
		},
		{
			name:       "state",
			err:        &booking.Error{Kind: booking.KindState, Message: "reservation is already cancelled"},
			wantStatus: http.StatusConflict,
			wantBody:   "reservation is already cancelled",
		},
		{
			name:       "wrapped business error",
			err:        fmt.Errorf("cancel: %w", &booking.Error{Kind: booking.KindState, Message: "too late to cancel"}),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "field error",
			err:        FieldError{Field: "installation_id", Reason: "must be a positive integer"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "installation_id must be a positive integer",
		},
		{
			name:       "handler error",
			err:        HandlerError{Status: http.StatusTooManyRequests, Message: "slow down"},
			wantStatus: http.StatusTooManyRequests,
			wantBody:   "slow down",
		},
		{
			name:       "infrastructure error is masked",
			err:        errors.New("sqlite: disk I/O error"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			WriteError(rec, req, tc.err)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if tc.wantBody != "" && body.Error != tc.wantBody {
				t.Errorf("error = %q, want %q", body.Error, tc.wantBody)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"padel"}`},
		{name: "unknown field", body: `{"name":"padel","extra":1}`, wantErr: true},
		{name: "trailing data", body: `{"name":"padel"}{"name":"again"}`, wantErr: true},
		{name: "not json", body: `name=padel`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tc.body))
			var dst payload
			err := DecodeJSON(req, &dst)
			if (err != nil) != tc.wantErr {
				t.Errorf("DecodeJSON() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseLocalDateTime(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "2025-03-10T14:30:00"},
		{value: "2025-03-10T14:30"},
		{value: "2025-03-10", wantErr: true},
		{value: "2025-03-10T14:30:00Z", wantErr: true},
		{value: "not a time", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			got, err := ParseLocalDateTime(tc.value, "start")
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLocalDateTime(%q) error = %v, wantErr %v", tc.value, err, tc.wantErr)
			}
			if err == nil && (got.Hour() != 14 || got.Minute() != 30) {
				t.Errorf("parsed %v, want 14:30 wall clock", got)
			}
		})
	}
}
