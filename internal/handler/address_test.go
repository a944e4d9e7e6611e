package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mallfront/mallfront/internal/auth"
	"github.com/mallfront/mallfront/internal/service"
)

// newAddressTestHandler builds a handler whose error mapping can run without
// a database. Only Limit() is consulted on the limit path.
func newAddressTestHandler() *AddressHandler {
	return NewAddressHandler(service.NewAddressService(nil, 20, nil), newTestLogger())
}

func TestAddressHandler_ServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:       "address not found",
			err:        service.ErrAddressNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "ADDRESS_NOT_FOUND",
		},
		{
			name:        "limit reached reports the cap",
			err:         service.ErrAddressLimit,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "ADDRESS_LIMIT_REACHED",
			wantMessage: "Address limit of 20 reached",
		},
		{
			name:       "invalid title",
			err:        service.ErrInvalidTitle,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_TITLE",
		},
		{
			name:       "unknown error is an internal error",
			err:        errors.New("pool exhausted"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	h := newAddressTestHandler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			h.handleServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeErrorResponse(t, rec)
			if resp.Code != tt.wantCode {
				t.Errorf("code: got %q, want %q", resp.Code, tt.wantCode)
			}
			if tt.wantMessage != "" && resp.Error != tt.wantMessage {
				t.Errorf("message: got %q, want %q", resp.Error, tt.wantMessage)
			}
		})
	}
}

func TestAddressHandler_Create_InvalidJSON(t *testing.T) {
	h := newAddressTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/addresses/", strings.NewReader("{"))
	req = req.WithContext(auth.ContextWithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec); resp.Code != "INVALID_JSON" {
		t.Errorf("code: got %q, want INVALID_JSON", resp.Code)
	}
}

func TestAddressHandler_Create_ValidationError(t *testing.T) {
	// Receiver missing, mobile malformed
	body := `{"title":"Home","province":"P","city":"C","district":"D","place":"1 Main Street","mobile":"12345"}`

	h := newAddressTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/addresses/", strings.NewReader(body))
	req = req.WithContext(auth.ContextWithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec); resp.Code != "VALIDATION_ERROR" {
		t.Errorf("code: got %q, want VALIDATION_ERROR", resp.Code)
	}
}

func TestAddressHandler_MissingID(t *testing.T) {
	h := newAddressTestHandler()

	tests := []struct {
		name string
		call func(w http.ResponseWriter, r *http.Request)
	}{
		{name: "delete", call: h.Delete},
		{name: "set default", call: h.SetDefault},
		{name: "rename title", call: h.RenameTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No route context, so the id URL param resolves empty
			req := httptest.NewRequest(http.MethodPut, "/addresses/", strings.NewReader(`{"title":"Home"}`))
			req = req.WithContext(auth.ContextWithUserID(req.Context(), "user-1"))
			rec := httptest.NewRecorder()

			tt.call(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
			if resp := decodeErrorResponse(t, rec); resp.Code != "MISSING_ID" {
				t.Errorf("code: got %q, want MISSING_ID", resp.Code)
			}
		})
	}
}
