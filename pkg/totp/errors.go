package totp

import "errors"

var (
	ErrFailedToGenerateSecret = errors.New("failed to generate TOTP secret")
	ErrFailedToGenerateCode   = errors.New("failed to generate TOTP code")
	ErrMissingSecret          = errors.New("missing secret")
	ErrInvalidSecret          = errors.New("invalid secret")
	ErrMissingAccountName     = errors.New("missing account name")
	ErrMissingIssuer          = errors.New("missing issuer")
	ErrInvalidLabel           = errors.New("issuer and account name must not contain a colon")

	// ErrEnrollmentImage is the only error surfaced for enrollment image failures.
	// The encoder's own error is dropped.
	ErrEnrollmentImage = errors.New("failed to generate enrollment image")
)
