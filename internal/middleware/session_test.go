package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qrforge/qrforge/internal/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSession(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	validToken, err := tokens.Issue("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	otherIssuer := auth.NewTokenIssuer("other-secret", time.Hour)
	foreignToken, err := otherIssuer.Issue("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("issue foreign token: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUserID string
	}{
		{"valid token", "Bearer " + validToken, http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc123", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + foreignToken, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID string
			handler := Session(SessionConfig{Logger: testLogger(), Tokens: tokens})(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if id := auth.IdentityFromContext(r.Context()); id != nil {
						gotUserID = id.UserID
					}
					w.WriteHeader(http.StatusOK)
				}))

			req := httptest.NewRequest(http.MethodGet, "/qrcodes", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotUserID != tt.wantUserID {
				t.Errorf("user ID = %q, want %q", gotUserID, tt.wantUserID)
			}
		})
	}
}

func TestSessionFailuresAreUniform(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	handler := Session(SessionConfig{Logger: testLogger(), Tokens: tokens})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	var bodies []string
	for _, header := range []string{"", "Bearer invalid"} {
		req := httptest.NewRequest(http.MethodGet, "/qrcodes", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		bodies = append(bodies, rec.Body.String())
	}

	if bodies[0] != bodies[1] {
		t.Errorf("auth failure bodies differ: %q vs %q", bodies[0], bodies[1])
	}
}
