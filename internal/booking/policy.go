// internal/booking/policy.go
package booking

import (
	"fmt"
	"time"
)

// Business rules for scheduling and pricing. Durations are expressed in
// minutes, prices in integer cents so billable amounts never touch binary
// floats.
const (
	OpenHour  = 8
	CloseHour = 23

	SlotMinutes        = 30
	MinDurationMinutes = 60
	MaxDurationMinutes = 180

	MinLeadHours      = 2
	MaxAdvanceDays    = 15
	CancelCutoffHours = 4

	BasePriceCents     = 300
	ExtraHalfHourCents = 150
)

// validateDuration rejects durations outside [60, 180] minutes or not on the
// 30-minute grid.
func validateDuration(durationMinutes int) error {
	if durationMinutes < MinDurationMinutes || durationMinutes > MaxDurationMinutes {
		return validationf("duration must be between %d and %d minutes", MinDurationMinutes, MaxDurationMinutes)
	}
	if durationMinutes%SlotMinutes != 0 {
		return validationf("duration must be a multiple of %d minutes", SlotMinutes)
	}
	return nil
}

// validateStartTime rejects starts off the half-hour grid, before opening,
// or whose end would pass closing on the same calendar day. Reservations may
// not span midnight.
func validateStartTime(start time.Time, durationMinutes int) error {
	if !AlignedToSlot(start) {
		return validationf("reservations must start on the hour or half hour (:00 or :30)")
	}

	if start.Hour() < OpenHour {
		return validationf("reservations cannot start before %02d:00", OpenHour)
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	closing := time.Date(start.Year(), start.Month(), start.Day(), CloseHour, 0, 0, 0, start.Location())
	if end.After(closing) {
		return validationf("reservations cannot end after %02d:00", CloseHour)
	}
	return nil
}

// validateBookingWindow rejects starts that are not strictly after the
// minimum lead time or that exceed the maximum advance.
func validateBookingWindow(start, now time.Time) error {
	if !start.After(now.Add(MinLeadHours * time.Hour)) {
		return validationf("reservations must be made at least %d hours in advance", MinLeadHours)
	}
	if start.After(now.AddDate(0, 0, MaxAdvanceDays)) {
		return validationf("reservations can be made at most %d days in advance", MaxAdvanceDays)
	}
	return nil
}

// PriceCents computes the reservation price in cents: 3.00 for the first 60
// minutes plus 1.50 per additional half hour. The duration must already have
// passed validateDuration.
func PriceCents(durationMinutes int) int64 {
	extraHalfHours := int64(durationMinutes-MinDurationMinutes) / SlotMinutes
	return BasePriceCents + ExtraHalfHourCents*extraHalfHours
}

// FormatAmount renders cents as a plain decimal string, e.g. 450 -> "4.50".
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
