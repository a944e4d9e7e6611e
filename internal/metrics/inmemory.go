package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered       uint64
	LoginSuccesses        uint64
	LoginFailures         uint64
	LoginsRateLimited     uint64
	AddressesCreated      uint64
	AddressesDeleted      uint64
	AddressLimitHits      uint64
	VerificationMailsSent uint64
	VerificationMailsDropped uint64
	EmailsVerified        uint64
	HistoryPushes         uint64
	CartsMerged           uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered       uint64
	loginSuccesses        uint64
	loginFailures         uint64
	loginsRateLimited     uint64
	addressesCreated      uint64
	addressesDeleted      uint64
	addressLimitHits      uint64
	verificationMailsSent uint64
	verificationMailsDropped uint64
	emailsVerified        uint64
	historyPushes         uint64
	cartsMerged           uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:       atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:        atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:         atomic.LoadUint64(&m.loginFailures),
		LoginsRateLimited:     atomic.LoadUint64(&m.loginsRateLimited),
		AddressesCreated:      atomic.LoadUint64(&m.addressesCreated),
		AddressesDeleted:      atomic.LoadUint64(&m.addressesDeleted),
		AddressLimitHits:      atomic.LoadUint64(&m.addressLimitHits),
		VerificationMailsSent: atomic.LoadUint64(&m.verificationMailsSent),
		VerificationMailsDropped: atomic.LoadUint64(&m.verificationMailsDropped),
		EmailsVerified:        atomic.LoadUint64(&m.emailsVerified),
		HistoryPushes:         atomic.LoadUint64(&m.historyPushes),
		CartsMerged:           atomic.LoadUint64(&m.cartsMerged),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginAttempt increments the login counter for the given outcome.
func (m *InMemoryRecorder) IncLoginAttempt(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.loginSuccesses, 1)
	case "rate_limited":
		atomic.AddUint64(&m.loginsRateLimited, 1)
	default:
		atomic.AddUint64(&m.loginFailures, 1)
	}
}

// IncAddressCreated increments the address creation counter.
func (m *InMemoryRecorder) IncAddressCreated() {
	atomic.AddUint64(&m.addressesCreated, 1)
}

// IncAddressDeleted increments the address deletion counter.
func (m *InMemoryRecorder) IncAddressDeleted() {
	atomic.AddUint64(&m.addressesDeleted, 1)
}

// IncAddressLimitHit increments the counter of rejected creates.
func (m *InMemoryRecorder) IncAddressLimitHit() {
	atomic.AddUint64(&m.addressLimitHits, 1)
}

// IncVerificationMailSent increments the mail counter for the given outcome.
func (m *InMemoryRecorder) IncVerificationMailSent(status string) {
	if status == "success" {
		atomic.AddUint64(&m.verificationMailsSent, 1)
		return
	}
	atomic.AddUint64(&m.verificationMailsDropped, 1)
}

// IncEmailVerified increments the verified-email counter.
func (m *InMemoryRecorder) IncEmailVerified() {
	atomic.AddUint64(&m.emailsVerified, 1)
}

// IncHistoryPushed increments the browsing history counter.
func (m *InMemoryRecorder) IncHistoryPushed() {
	atomic.AddUint64(&m.historyPushes, 1)
}

// IncCartMerged increments the cart merge counter.
func (m *InMemoryRecorder) IncCartMerged() {
	atomic.AddUint64(&m.cartsMerged, 1)
}
