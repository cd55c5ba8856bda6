package twofactor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lexcase/lexcase/pkg/secrets"
)

// Record is the persisted second-factor state of one user.
type Record struct {
	ID                     uuid.UUID
	UserID                 string
	Secret                 secrets.Envelope
	Verified               bool
	Enabled                bool
	BackupCodesHash        []string
	FailedAttempts         int
	LockoutWindowStartedAt *time.Time
	LastUsedAt             *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// SetupResult carries the enrollment material. It is returned once, by Setup.
type SetupResult struct {
	Secret          string   // Base32, for manual entry
	URI             string   // otpauth:// key URI
	EnrollmentImage string   // data:image/png;base64,...
	EnrollmentSVG   string   // <svg>...</svg>
	BackupCodes     []string // 8 upper-case hex characters each

	// BackupCodesDisplay holds the same codes as XXXX-XXXX.
	BackupCodesDisplay []string
}

// Status is the public view of a record. It never carries secret material.
type Status struct {
	Enabled              bool
	Verified             bool
	LastUsedAt           *time.Time
	BackupCodesRemaining int
}

// Encryptor seals TOTP secrets at rest. *secrets.Keyring implements it.
type Encryptor interface {
	Encrypt(plaintext []byte) (secrets.Envelope, error)
	Decrypt(env secrets.Envelope) ([]byte, error)
}

// Service is the two-factor orchestrator.
type Service interface {
	Setup(ctx context.Context, userID, accountLabel string) (*SetupResult, error)
	ConfirmSetup(ctx context.Context, userID, code string) (bool, error)
	VerifyOnLogin(ctx context.Context, userID, code string) (bool, error)
	Disable(ctx context.Context, userID, code string) (bool, error)
	RegenerateBackupCodes(ctx context.Context, userID, code string) ([]string, error)
	GetStatus(ctx context.Context, userID string) (Status, error)
	IsRequired(ctx context.Context, userID string) (bool, error)
}
