package twofactor

import (
	"errors"
	"fmt"

	"github.com/lexcase/lexcase/pkg/lockout"
)

// Domain errors returned by Service.
var (
	ErrNotSetUp        = errors.New("two-factor authentication is not set up")
	ErrAlreadyEnabled  = errors.New("two-factor authentication is already enabled")
	ErrAlreadyVerified = errors.New("two-factor setup is already verified")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrTooManyAttempts = lockout.ErrTooManyAttempts
	ErrInvalidInput    = errors.New("invalid input")
)

// Infrastructure errors. The underlying cause stays in the chain.
var (
	ErrEncryption = errors.New("two-factor secret encryption failed")
	ErrStorage    = errors.New("two-factor storage failed")
)

// Errors a Storage implementation reports.
var (
	ErrRecordNotFound = errors.New("two-factor record not found")
	ErrRecordVerified = errors.New("two-factor record already verified")
)

func storageError(op, userID string, err error) error {
	return fmt.Errorf("%s user=%s: %w: %w", op, userID, ErrStorage, err)
}

func encryptionError(op, userID string, err error) error {
	return fmt.Errorf("%s user=%s: %w: %w", op, userID, ErrEncryption, err)
}
