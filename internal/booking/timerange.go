// internal/booking/timerange.go
package booking

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share at least one instant. Touching endpoints do not
// overlap, so back-to-back reservations at the same boundary are legal.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// AlignedToSlot reports whether t sits exactly on a half-hour boundary
// (:00 or :30, no seconds).
func AlignedToSlot(t time.Time) bool {
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	minute := t.Minute()
	return minute == 0 || minute == 30
}
