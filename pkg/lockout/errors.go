package lockout

import "errors"

var (
	// ErrTooManyAttempts is returned once a user exceeds the failed-attempt ceiling.
	ErrTooManyAttempts = errors.New("too many failed verification attempts")

	// ErrCounterFailed wraps failures of the underlying counter backend.
	ErrCounterFailed = errors.New("lockout counter unavailable")
)
