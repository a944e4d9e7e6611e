package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// A session token in the shape the API actually issues. Any fragment of it
// showing up in a log line is a credential leak.
const testSessionToken = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
	"eyJ1aWQiOiIwMUhYWjRRUDdHIiwicHVycG9zZSI6InNlc3Npb24ifQ." +
	"k2n8mZq4vR7wX1cF5tY9sB3dL6hP0jA8eU2oI4gW7xM"

// TestLogging_SessionTokenRedaction ensures bearer tokens never appear in logs.
func TestLogging_SessionTokenRedaction(t *testing.T) {
	t.Parallel()

	sensitiveFragments := []string{
		testSessionToken,
		"eyJ1aWQiOiIwMUhYWjRRUDdHIiwicHVycG9zZSI6InNlc3Npb24ifQ",
		"k2n8mZq4vR7wX1cF5tY9sB3dL6hP0jA8eU2oI4gW7xM",
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/addresses/", nil)
	req.Header.Set("Authorization", "Bearer "+testSessionToken)
	req.Header.Set("User-Agent", "TestAgent/1.0")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	logOutput := buf.String()

	for _, fragment := range sensitiveFragments {
		if strings.Contains(logOutput, fragment) {
			t.Errorf("Log output contains session token fragment %q", fragment)
		}
	}
}

// TestLogging_NoAuthorizationHeaderLogged ensures the Authorization header is not logged.
func TestLogging_NoAuthorizationHeaderLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/user/", nil)
	req.Header.Set("Authorization", "Bearer "+testSessionToken)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	logOutput := buf.String()

	if strings.Contains(logOutput, testSessionToken) {
		t.Error("Log output contains Authorization header value")
	}
	if strings.Contains(logOutput, "Bearer") {
		t.Error("Log output contains 'Bearer' token prefix")
	}
}

// TestLogging_BasicFields verifies that expected non-sensitive fields are logged.
func TestLogging_BasicFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest("POST", "/addresses/", nil)
	req.Header.Set("User-Agent", "TestBrowser/2.0")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	logOutput := buf.String()

	expectedFields := []string{
		`"method":"POST"`,
		`"path":"/addresses/"`,
		`"status_code":201`,
		`"user_agent":"TestBrowser/2.0"`,
	}

	for _, field := range expectedFields {
		if !strings.Contains(logOutput, field) {
			t.Errorf("Expected log field %s not found in output", field)
		}
	}
}

// TestLogging_ErrorStatusLevel verifies error statuses are logged at error level.
func TestLogging_ErrorStatusLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		statusCode int
		wantLevel  string
	}{
		{"profile fetched", "/user/", http.StatusOK, "INFO"},
		{"address created", "/addresses/", http.StatusCreated, "INFO"},
		{"cap rejected", "/addresses/", http.StatusBadRequest, "WARN"},
		{"bad credentials", "/authorizations/", http.StatusUnauthorized, "WARN"},
		{"address missing", "/addresses/xyz/", http.StatusNotFound, "WARN"},
		{"internal error", "/browse_histories/", http.StatusInternalServerError, "ERROR"},
		{"bad gateway", "/readyz", http.StatusBadGateway, "ERROR"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))

			req := httptest.NewRequest("GET", tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			logOutput := buf.String()

			if !strings.Contains(logOutput, `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("Expected log level %s for status %d, got output: %s", tt.wantLevel, tt.statusCode, logOutput)
			}
		})
	}
}

// TestResponseWriter_CapturesStatus verifies the response writer captures status codes.
func TestResponseWriter_CapturesStatus(t *testing.T) {
	t.Parallel()

	for _, statusCode := range []int{
		http.StatusOK,
		http.StatusCreated,
		http.StatusNoContent,
		http.StatusBadRequest,
		http.StatusInternalServerError,
	} {
		rec := httptest.NewRecorder()
		wrapped := wrapResponseWriter(rec)

		wrapped.WriteHeader(statusCode)

		if wrapped.status != statusCode {
			t.Errorf("status = %d, want %d", wrapped.status, statusCode)
		}
	}
}

// TestResponseWriter_DefaultStatus verifies default status is 200 OK.
func TestResponseWriter_DefaultStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	wrapped := wrapResponseWriter(rec)

	wrapped.Write([]byte(`{"ok":true}`))

	if wrapped.status != http.StatusOK {
		t.Errorf("default status = %d, want %d", wrapped.status, http.StatusOK)
	}
}

// TestResponseWriter_DoubleWriteHeader ensures only the first WriteHeader takes effect.
func TestResponseWriter_DoubleWriteHeader(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	wrapped := wrapResponseWriter(rec)

	wrapped.WriteHeader(http.StatusCreated)
	wrapped.WriteHeader(http.StatusInternalServerError) // Should be ignored

	if wrapped.status != http.StatusCreated {
		t.Errorf("status after double write = %d, want %d", wrapped.status, http.StatusCreated)
	}
}
