package lockout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lexcase/lexcase/pkg/logger"
)

// DefaultMaxAttempts is the number of consecutive failures allowed before
// further attempts are refused.
const DefaultMaxAttempts = 5

// Guard enforces a fixed ceiling on consecutive failed verifications.
// There is no time-based decay: only Reset clears the count.
type Guard struct {
	counter     Counter
	maxAttempts int
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithMaxAttempts sets the ceiling. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Guard) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithClock overrides the time source used for the window start.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Guard on top of counter.
func New(counter Counter, opts ...Option) *Guard {
	g := &Guard{
		counter:     counter,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MaxAttempts returns the configured ceiling.
func (g *Guard) MaxAttempts() int {
	return g.maxAttempts
}

// RecordFailureAndCheck reserves one attempt for userID before its code is
// validated. The increment is counted as a failure until Reset is called on
// success.
//
// It returns the new count, or ErrTooManyAttempts once the count exceeds the
// ceiling. With the default ceiling of 5, attempts one through five are
// validated and a sixth consecutive attempt is refused whatever code it
// carries.
func (g *Guard) RecordFailureAndCheck(ctx context.Context, userID string) (int, error) {
	n, err := g.counter.IncrementFailedAttempts(ctx, userID, g.now())
	if err != nil {
		return 0, errors.Join(ErrCounterFailed, err)
	}

	if n > g.maxAttempts {
		if n == g.maxAttempts+1 {
			g.logger.WarnContext(ctx, "two-factor lockout ceiling reached",
				logger.Component("lockout"),
				logger.UserID(userID),
				logger.Attempts(n-1),
			)
		}
		return n, ErrTooManyAttempts
	}
	return n, nil
}

// Reset clears the user's counter after a successful verification.
func (g *Guard) Reset(ctx context.Context, userID string) error {
	if err := g.counter.ResetFailedAttempts(ctx, userID); err != nil {
		return errors.Join(ErrCounterFailed, err)
	}
	return nil
}
