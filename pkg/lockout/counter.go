package lockout

import (
	"context"
	"time"
)

// Counter is the atomic per-user failure counter a Guard relies on.
//
// IncrementFailedAttempts must increment and return the new value in a single
// atomic step. Implementations that read and then write in two calls lose
// updates under concurrent attempts.
type Counter interface {
	// IncrementFailedAttempts adds one to the user's counter and returns the
	// new value. at is recorded as the window start on the first failure.
	IncrementFailedAttempts(ctx context.Context, userID string, at time.Time) (int, error)

	// ResetFailedAttempts clears the counter and the window start.
	ResetFailedAttempts(ctx context.Context, userID string) error
}
