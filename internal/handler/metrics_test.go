package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mallfront/mallfront/internal/metrics"
)

func TestMetricsHandler_Metrics(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncUserRegistered()
	recorder.IncLoginAttempt("success")
	recorder.IncLoginAttempt("success")
	recorder.IncLoginAttempt("failed")
	recorder.IncLoginAttempt("rate_limited")
	recorder.IncAddressCreated()
	recorder.IncAddressLimitHit()
	recorder.IncVerificationMailSent("success")
	recorder.IncVerificationMailSent("dropped")
	recorder.IncEmailVerified()
	recorder.IncHistoryPushed()
	recorder.IncCartMerged()

	h := NewMetricsHandler(recorder)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	h.Metrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; version=0.0.4" {
		t.Errorf("unexpected Content-Type: %s", ct)
	}

	body := rec.Body.String()
	wantLines := []string{
		"mallfront_users_registered_total 1",
		`mallfront_login_attempts_total{status="success"} 2`,
		`mallfront_login_attempts_total{status="failed"} 1`,
		`mallfront_login_attempts_total{status="rate_limited"} 1`,
		"mallfront_addresses_created_total 1",
		"mallfront_addresses_deleted_total 0",
		"mallfront_address_limit_hits_total 1",
		`mallfront_verification_mails_total{status="success"} 1`,
		`mallfront_verification_mails_total{status="dropped"} 1`,
		"mallfront_emails_verified_total 1",
		"mallfront_history_pushes_total 1",
		"mallfront_cart_merges_total 1",
	}
	for _, line := range wantLines {
		if !strings.Contains(body, line+"\n") {
			t.Errorf("missing metric line %q in body:\n%s", line, body)
		}
	}
}

func TestMetricsHandler_NilSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	h.Metrics(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
