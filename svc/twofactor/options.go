package twofactor

import (
	"log/slog"
	"time"

	"github.com/lexcase/lexcase/pkg/lockout"
)

// Option configures the service.
type Option func(*service)

// WithLogger sets a custom logger for the service
func WithLogger(l *slog.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIssuer sets the issuer shown in authenticator apps.
func WithIssuer(issuer string) Option {
	return func(s *service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// WithBackupCodeCount sets how many backup codes each batch contains.
func WithBackupCodeCount(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.backupCodeCount = n
		}
	}
}

// WithMaxAttempts sets the consecutive failure ceiling.
func WithMaxAttempts(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithImageSize sets the enrollment image size in pixels.
func WithImageSize(px int) Option {
	return func(s *service) {
		if px > 0 {
			s.imageSize = px
		}
	}
}

// WithLockoutCounter counts failures in c instead of the record storage,
// e.g. a lockout.RedisCounter shared by every node.
func WithLockoutCounter(c lockout.Counter) Option {
	return func(s *service) {
		if c != nil {
			s.counter = c
		}
	}
}

// WithClock overrides the time source. Tests use it to pin TOTP steps.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics records operation outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(s *service) {
		s.metrics = m
	}
}
