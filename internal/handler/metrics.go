package handler

import (
	"fmt"
	"net/http"

	"github.com/mallfront/mallfront/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "mallfront_users_registered_total %d\n", snap.UsersRegistered)

	writeMetric(w, "mallfront_login_attempts_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "mallfront_login_attempts_total{status=\"failed\"} %d\n", snap.LoginFailures)
	writeMetric(w, "mallfront_login_attempts_total{status=\"rate_limited\"} %d\n", snap.LoginsRateLimited)

	writeMetric(w, "mallfront_addresses_created_total %d\n", snap.AddressesCreated)
	writeMetric(w, "mallfront_addresses_deleted_total %d\n", snap.AddressesDeleted)
	writeMetric(w, "mallfront_address_limit_hits_total %d\n", snap.AddressLimitHits)

	writeMetric(w, "mallfront_verification_mails_total{status=\"success\"} %d\n", snap.VerificationMailsSent)
	writeMetric(w, "mallfront_verification_mails_total{status=\"dropped\"} %d\n", snap.VerificationMailsDropped)
	writeMetric(w, "mallfront_emails_verified_total %d\n", snap.EmailsVerified)

	writeMetric(w, "mallfront_history_pushes_total %d\n", snap.HistoryPushes)
	writeMetric(w, "mallfront_cart_merges_total %d\n", snap.CartsMerged)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
