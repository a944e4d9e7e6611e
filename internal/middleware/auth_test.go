package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mallfront/mallfront/internal/auth"
)

func newTestAuthConfig() AuthConfig {
	return AuthConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tokens: auth.NewTokenManager([]byte("test-secret"), time.Hour, time.Hour),
	}
}

func TestAuth_MissingToken(t *testing.T) {
	cfg := newTestAuthConfig()

	handler := Auth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without a token")
	}))

	req := httptest.NewRequest("GET", "/user/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	cfg := newTestAuthConfig()

	handler := Auth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called with a garbage token")
	}))

	req := httptest.NewRequest("GET", "/user/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	cfg := newTestAuthConfig()

	token, err := cfg.Tokens.NewSessionToken("user-123")
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}

	var gotUserID string
	handler := Auth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/user/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-123" {
		t.Errorf("expected user-123 in context, got %q", gotUserID)
	}
}

func TestAuth_RejectsVerifyToken(t *testing.T) {
	cfg := newTestAuthConfig()

	token, err := cfg.Tokens.NewEmailVerifyToken("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("NewEmailVerifyToken: %v", err)
	}

	handler := Auth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not accept a verification token as a session")
	}))

	req := httptest.NewRequest("GET", "/user/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
