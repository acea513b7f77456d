package booking

import "testing"

func TestNewReservationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewReservationCode()
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected a 6-character code, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected digits only, got %q", code)
			}
		}
		seen[code] = true
	}
	// 100 draws from a million codes colliding every time would mean the
	// generator is broken.
	if len(seen) < 2 {
		t.Errorf("expected varied codes, got %d distinct out of 100", len(seen))
	}
}
