package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/codr1/muniplay/internal/booking"
)

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, FieldError{Field: field, Reason: "must be a positive integer"}
	}
	return value, nil
}

// PathID extracts the id path segment registered as {name} on the route.
func PathID(r *http.Request, name string) (int64, error) {
	return ParsePositiveInt64Field(r.PathValue(name), name)
}

// QueryID extracts a required positive integer query parameter.
func QueryID(r *http.Request, name string) (int64, error) {
	return ParsePositiveInt64Field(r.URL.Query().Get(name), name)
}

// ParseLocalDateTime parses the wire datetime format, an ISO-8601 local
// timestamp without a zone designator. Seconds are optional.
func ParseLocalDateTime(raw string, field string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, FieldError{Field: field, Reason: "is required"}
	}
	for _, layout := range []string{booking.TimeLayout, "2006-01-02T15:04"} {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, FieldError{Field: field, Reason: fmt.Sprintf("must be a datetime like %s", booking.TimeLayout)}
}

// ParseLocalDate parses a plain calendar date.
func ParseLocalDate(raw string, field string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, FieldError{Field: field, Reason: "is required"}
	}
	parsed, err := time.ParseInLocation(booking.DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, FieldError{Field: field, Reason: fmt.Sprintf("must be a date like %s", booking.DateLayout)}
	}
	return parsed, nil
}
