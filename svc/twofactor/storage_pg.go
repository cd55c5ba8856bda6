package twofactor

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lexcase/lexcase/pkg/pg"
)

// DB is the subset of *pgxpool.Pool used by PGStorage.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStorage stores records in the two_factor table (see db/migrations).
type PGStorage struct {
	db DB
}

// NewPGStorage creates a Storage backed by PostgreSQL.
func NewPGStorage(db DB) *PGStorage {
	return &PGStorage{db: db}
}

const selectRecord = `
	SELECT id, user_id, secret_iv, secret_data, secret_tag, secret_version,
		verified, enabled, backup_codes_hash, failed_attempts,
		lockout_window_started_at, last_used_at, created_at, updated_at
	FROM two_factor
	WHERE user_id = $1`

func (s *PGStorage) GetRecord(ctx context.Context, userID string) (*Record, error) {
	rec := &Record{}
	err := s.db.QueryRow(ctx, selectRecord, userID).Scan(
		&rec.ID, &rec.UserID, &rec.Secret.IV, &rec.Secret.Data, &rec.Secret.Tag, &rec.Secret.Version,
		&rec.Verified, &rec.Enabled, &rec.BackupCodesHash, &rec.FailedAttempts,
		&rec.LockoutWindowStartedAt, &rec.LastUsedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// The WHERE clause leaves an enabled record untouched; zero affected rows
// then means the user is already enrolled.
const upsertPending = `
	INSERT INTO two_factor (
		id, user_id, secret_iv, secret_data, secret_tag, secret_version,
		verified, enabled, backup_codes_hash, failed_attempts,
		lockout_window_started_at, last_used_at, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, false, false, $7, 0, NULL, NULL, $8, $8)
	ON CONFLICT (user_id) DO UPDATE SET
		secret_iv = EXCLUDED.secret_iv,
		secret_data = EXCLUDED.secret_data,
		secret_tag = EXCLUDED.secret_tag,
		secret_version = EXCLUDED.secret_version,
		verified = false,
		enabled = false,
		backup_codes_hash = EXCLUDED.backup_codes_hash,
		failed_attempts = 0,
		lockout_window_started_at = NULL,
		last_used_at = NULL,
		updated_at = EXCLUDED.updated_at
	WHERE NOT (two_factor.verified AND two_factor.enabled)`

func (s *PGStorage) UpsertPending(ctx context.Context, rec *Record) error {
	digests := rec.BackupCodesHash
	if digests == nil {
		digests = []string{}
	}
	at := rec.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}

	tag, err := s.db.Exec(ctx, upsertPending,
		rec.ID, rec.UserID, rec.Secret.IV, rec.Secret.Data, rec.Secret.Tag, rec.Secret.Version,
		digests, at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordVerified
	}
	return nil
}

// MarkVerified matches on secret_iv, which is fresh for every sealed secret,
// so a confirmation never enables a secret that replaced the one it checked.
func (s *PGStorage) MarkVerified(ctx context.Context, userID string, secretIV []byte, at time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE two_factor
		SET verified = true, enabled = true, last_used_at = $3, updated_at = $3
		WHERE user_id = $1 AND secret_iv = $2 AND verified = false`,
		userID, secretIV, at,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PGStorage) ReplaceBackupCodes(ctx context.Context, userID string, digests []string) error {
	if digests == nil {
		digests = []string{}
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE two_factor SET backup_codes_hash = $2, updated_at = now()
		WHERE user_id = $1`,
		userID, digests,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ConsumeBackupCode relies on row locking: a second concurrent UPDATE
// re-evaluates the ANY() predicate after the first commits and matches
// nothing.
func (s *PGStorage) ConsumeBackupCode(ctx context.Context, userID, digest string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE two_factor
		SET backup_codes_hash = array_remove(backup_codes_hash, $2::text), updated_at = now()
		WHERE user_id = $1 AND $2::text = ANY(backup_codes_hash)`,
		userID, digest,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PGStorage) TouchLastUsed(ctx context.Context, userID string, at time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE two_factor SET last_used_at = $2, updated_at = $2
		WHERE user_id = $1`,
		userID, at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *PGStorage) DeleteRecord(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM two_factor WHERE user_id = $1`, userID)
	return err
}

func (s *PGStorage) IncrementFailedAttempts(ctx context.Context, userID string, at time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		UPDATE two_factor
		SET failed_attempts = failed_attempts + 1,
			lockout_window_started_at = COALESCE(lockout_window_started_at, $2),
			updated_at = $2
		WHERE user_id = $1
		RETURNING failed_attempts`,
		userID, at,
	).Scan(&n)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return 0, ErrRecordNotFound
		}
		return 0, err
	}
	return n, nil
}

func (s *PGStorage) ResetFailedAttempts(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE two_factor SET failed_attempts = 0, lockout_window_started_at = NULL
		WHERE user_id = $1 AND failed_attempts <> 0`,
		userID,
	)
	return err
}

var (
	_ Storage = (*PGStorage)(nil)
	_ Storage = (*MemoryStorage)(nil)
)
