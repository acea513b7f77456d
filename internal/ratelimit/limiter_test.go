package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCheckLogin_Lockout(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		MaxAttempts:  3,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 100,
		Clock:        clock,
	})
	defer limiter.Close()

	identifier := "test@example.com"
	ip := "192.168.1.1"

	// Failures below the budget leave the account open
	for i := 0; i < 2; i++ {
		result := limiter.CheckLogin(identifier, ip)
		if !result.Allowed {
			t.Fatalf("attempt %d should be allowed, got blocked: %s", i+1, result.Reason)
		}
		if locked := limiter.RecordLoginFailure(identifier, ip); locked {
			t.Fatalf("attempt %d should not trigger lockout", i+1)
		}
	}

	// The third failure trips the lockout
	if locked := limiter.RecordLoginFailure(identifier, ip); !locked {
		t.Error("third failure should trigger lockout")
	}

	result := limiter.CheckLogin(identifier, ip)
	if result.Allowed {
		t.Error("locked account should be blocked")
	}
	if result.Reason != "lockout" {
		t.Errorf("expected reason 'lockout', got '%s'", result.Reason)
	}

	// The lockout expires
	clock.Advance(5*time.Minute + time.Second)
	result = limiter.CheckLogin(identifier, ip)
	if !result.Allowed {
		t.Errorf("expired lockout should allow login, got blocked: %s", result.Reason)
	}
}

func TestCheckLogin_ResetOnSuccess(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		MaxAttempts:  3,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 100,
		Clock:        clock,
	})
	defer limiter.Close()

	identifier := "test@example.com"
	ip := "192.168.1.1"

	limiter.RecordLoginFailure(identifier, ip)
	limiter.RecordLoginFailure(identifier, ip)
	limiter.ResetLoginAttempts(identifier)

	// The counter starts fresh after a successful login
	for i := 0; i < 2; i++ {
		if locked := limiter.RecordLoginFailure(identifier, ip); locked {
			t.Fatalf("failure %d after reset should not lock", i+1)
		}
	}
	if result := limiter.CheckLogin(identifier, ip); !result.Allowed {
		t.Errorf("account should still be open, got blocked: %s", result.Reason)
	}
}

func TestCheckLogin_IPLimit(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		MaxAttempts:  100,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 3,
		Clock:        clock,
	})
	defer limiter.Close()

	ip := "203.0.113.7"

	// Different accounts, same IP
	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		limiter.RecordLoginFailure("user"+string(rune('a'+i))+"@example.com", ip)
	}

	result := limiter.CheckLogin("another@example.com", ip)
	if result.Allowed {
		t.Error("IP over budget should be blocked")
	}
	if result.Reason != "ip_hourly_limit" {
		t.Errorf("expected reason 'ip_hourly_limit', got '%s'", result.Reason)
	}

	clock.Advance(time.Hour)
	if result := limiter.CheckLogin("another@example.com", ip); !result.Allowed {
		t.Errorf("IP budget should reset after an hour, got blocked: %s", result.Reason)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		trustProxy bool
		want       string
	}{
		{"direct", "203.0.113.7:1234", "", false, "203.0.113.7"},
		{"spoofed xff ignored", "203.0.113.7:1234", "198.51.100.1", false, "203.0.113.7"},
		{"trusted proxy", "10.0.0.1:1234", "198.51.100.1", true, "198.51.100.1"},
		{"rightmost public", "10.0.0.1:1234", "198.51.100.1, 203.0.113.9, 10.0.0.2", true, "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &http.Request{RemoteAddr: tt.remoteAddr, Header: http.Header{}}
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := GetClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("GetClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "al***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"612345678", "***5678"},
		{"x", "***"},
	}
	for _, tt := range tests {
		if got := SanitizeIdentifier(tt.in); got != tt.want {
			t.Errorf("SanitizeIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
