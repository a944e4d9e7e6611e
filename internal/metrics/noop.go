package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginAttempt is a no-op.
func (n *NoopRecorder) IncLoginAttempt(status string) {}

// IncAddressCreated is a no-op.
func (n *NoopRecorder) IncAddressCreated() {}

// IncAddressDeleted is a no-op.
func (n *NoopRecorder) IncAddressDeleted() {}

// IncAddressLimitHit is a no-op.
func (n *NoopRecorder) IncAddressLimitHit() {}

// IncVerificationMailSent is a no-op.
func (n *NoopRecorder) IncVerificationMailSent(status string) {}

// IncEmailVerified is a no-op.
func (n *NoopRecorder) IncEmailVerified() {}

// IncHistoryPushed is a no-op.
func (n *NoopRecorder) IncHistoryPushed() {}

// IncCartMerged is a no-op.
func (n *NoopRecorder) IncCartMerged() {}
