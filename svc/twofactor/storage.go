package twofactor

import (
	"context"
	"time"

	"github.com/lexcase/lexcase/pkg/lockout"
)

// Storage persists one Record per user.
//
// Every method is a single atomic operation against the backing store: the
// service never reads a record, changes it in memory and writes it back.
type Storage interface {
	// Failure counter used by the default lockout guard.
	lockout.Counter

	// GetRecord returns ErrRecordNotFound when the user has no record.
	GetRecord(ctx context.Context, userID string) (*Record, error)

	// UpsertPending creates the record or replaces an unverified or disabled
	// one with rec, clearing lastUsedAt and the failure counter. It returns
	// ErrRecordVerified if an enabled record exists.
	UpsertPending(ctx context.Context, rec *Record) error

	// MarkVerified flips verified and enabled on the pending record whose
	// secret was sealed with secretIV and stamps lastUsedAt. It returns false
	// if no such record was updated, including when a newer UpsertPending
	// replaced the secret.
	MarkVerified(ctx context.Context, userID string, secretIV []byte, at time.Time) (bool, error)

	// ReplaceBackupCodes swaps the digest list wholesale.
	ReplaceBackupCodes(ctx context.Context, userID string, digests []string) error

	// ConsumeBackupCode removes digest if present and reports whether this
	// call removed it. Concurrent calls for the same digest succeed once.
	ConsumeBackupCode(ctx context.Context, userID, digest string) (bool, error)

	// TouchLastUsed stamps lastUsedAt.
	TouchLastUsed(ctx context.Context, userID string, at time.Time) error

	// DeleteRecord removes the record. Missing records are not an error.
	DeleteRecord(ctx context.Context, userID string) error
}
