// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLoginAttempt(status string) // status: "success", "failed", "rate_limited"

	// Address management metrics
	IncAddressCreated()
	IncAddressDeleted()
	IncAddressLimitHit()

	// Email verification metrics
	IncVerificationMailSent(status string) // status: "success" or "dropped"
	IncEmailVerified()

	// Browsing history metrics
	IncHistoryPushed()

	// Cart metrics
	IncCartMerged()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
