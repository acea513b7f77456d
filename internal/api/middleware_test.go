package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codr1/muniplay/internal/api/auth"
	"github.com/codr1/muniplay/internal/api/authz"
)

func TestWithAuth(t *testing.T) {
	secret := []byte("test-secret")

	token, _, err := auth.NewToken(secret, 42, "vecino@example.org", "user", time.Hour)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	var seenUser *authz.AuthUser
	handler := WithAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = authz.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUserID int64
	}{
		{name: "valid bearer", authHeader: "Bearer " + token, wantStatus: http.StatusOK, wantUserID: 42},
		{name: "no header is anonymous", authHeader: "", wantStatus: http.StatusOK},
		{name: "garbage token", authHeader: "Bearer not.a.token", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme is anonymous", authHeader: "Basic dXNlcjpwYXNz", wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seenUser = nil
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantUserID != 0 {
				if seenUser == nil {
					t.Fatal("expected authenticated user in context")
				}
				if seenUser.ID != tc.wantUserID {
					t.Errorf("user ID = %d, want %d", seenUser.ID, tc.wantUserID)
				}
			} else if rec.Code == http.StatusOK && seenUser != nil {
				t.Errorf("expected anonymous request, got user %d", seenUser.ID)
			}
		})
	}
}

func TestWithAuth_WrongSecret(t *testing.T) {
	token, _, err := auth.NewToken([]byte("one-secret"), 7, "vecino@example.org", "user", time.Hour)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	handler := WithAuth([]byte("another-secret"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for a forged token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestWithRequestID(t *testing.T) {
	var gotID string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = requestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if gotID == "" {
		t.Error("expected a request ID in context")
	}
	if header := rec.Header().Get("X-Request-ID"); header != gotID {
		t.Errorf("X-Request-ID header = %q, want %q", header, gotID)
	}
}
