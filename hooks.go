package cachebox

// Hooks receive high-signal connector events.
// Implementations must be cheap and non-blocking; connectors call them inline.
type Hooks interface {
	// A remote call hit a transient failure and will be attempted again.
	// attempt is the 1-based number of the attempt that failed.
	RetryScheduled(method string, attempt int, err error)

	// A remote call exhausted its attempts against an unreachable service.
	RetriesExhausted(method string, attempts int)

	// An embedded entry reached its TTL and was tombstoned.
	EntryExpired(storageKey string)

	// The expiry tombstone for an embedded entry could not be written.
	ExpiryFailed(storageKey string, err error)

	// A node store refused a write (admission/backpressure).
	ProviderSetRejected(storageKey string)
}

// NopHooks is the default.
type NopHooks struct{}

func (NopHooks) RetryScheduled(string, int, error) {}
func (NopHooks) RetriesExhausted(string, int)      {}
func (NopHooks) EntryExpired(string)               {}
func (NopHooks) ExpiryFailed(string, error)        {}
func (NopHooks) ProviderSetRejected(string)        {}
