package booking

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2025, 3, 11, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", at(14, 0), at(15, 0), at(14, 0), at(15, 0), true},
		{"partial overlap", at(14, 0), at(15, 0), at(14, 30), at(15, 30), true},
		{"containment", at(14, 0), at(16, 0), at(14, 30), at(15, 0), true},
		{"back to back", at(14, 0), at(15, 0), at(15, 0), at(16, 0), false},
		{"disjoint", at(14, 0), at(15, 0), at(16, 0), at(17, 0), false},
		{"touching at start", at(15, 0), at(16, 0), at(14, 0), at(15, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlignedToSlot(t *testing.T) {
	tests := []struct {
		minute int
		second int
		want   bool
	}{
		{0, 0, true},
		{30, 0, true},
		{15, 0, false},
		{1, 0, false},
		{0, 30, false},
	}
	for _, tt := range tests {
		ts := time.Date(2025, 3, 11, 14, tt.minute, tt.second, 0, time.UTC)
		if got := AlignedToSlot(ts); got != tt.want {
			t.Errorf("AlignedToSlot(%v) = %v, want %v", ts, got, tt.want)
		}
	}
}
