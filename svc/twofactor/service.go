package twofactor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexcase/lexcase/pkg/backupcode"
	"github.com/lexcase/lexcase/pkg/lockout"
	"github.com/lexcase/lexcase/pkg/logger"
	"github.com/lexcase/lexcase/pkg/secrets"
	"github.com/lexcase/lexcase/pkg/totp"
)

// Operation names used in logs, metrics and wrapped errors.
const (
	opSetup         = "setup"
	opConfirmSetup  = "confirm_setup"
	opVerifyOnLogin = "verify_on_login"
	opDisable       = "disable"
	opRegenerate    = "regenerate_backup_codes"
	opGetStatus     = "get_status"
)

// Proof methods.
const (
	methodNone       = "none"
	methodTOTP       = "totp"
	methodBackupCode = "backup_code"
)

// DefaultIssuer is the issuer shown in authenticator apps.
const DefaultIssuer = "LexCase"

type service struct {
	storage   Storage
	encryptor Encryptor
	counter   lockout.Counter
	guard     *lockout.Guard

	issuer          string
	backupCodeCount int
	maxAttempts     int
	imageSize       int

	now     func() time.Time
	logger  *slog.Logger
	metrics *Metrics
}

// New creates the two-factor service. Failed attempts are counted in storage
// unless WithLockoutCounter supplies another counter.
func New(storage Storage, encryptor Encryptor, opts ...Option) Service {
	s := &service{
		storage:         storage,
		encryptor:       encryptor,
		counter:         storage,
		issuer:          DefaultIssuer,
		backupCodeCount: backupcode.DefaultCount,
		maxAttempts:     lockout.DefaultMaxAttempts,
		imageSize:       totp.DefaultImageSize,
		now:             time.Now,
		logger:          logger.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.guard = lockout.New(s.counter,
		lockout.WithMaxAttempts(s.maxAttempts),
		lockout.WithClock(s.now),
		lockout.WithLogger(s.logger),
	)

	return s
}

// Setup starts enrollment for userID, replacing any pending or disabled
// record. The returned secret and backup codes are never available again.
func (s *service) Setup(ctx context.Context, userID, accountLabel string) (*SetupResult, error) {
	if userID == "" || strings.TrimSpace(accountLabel) == "" {
		return nil, ErrInvalidInput
	}

	rec, err := s.loadRecord(ctx, opSetup, userID)
	if err != nil {
		return nil, err
	}
	if _, err := transition(stateOf(rec), EventSetup); err != nil {
		return nil, err
	}

	secret, err := totp.GenerateSecret()
	if err != nil {
		return nil, err
	}
	uri, err := totp.BuildEnrollmentURI(totp.Params{
		Secret:      secret,
		AccountName: accountLabel,
		Issuer:      s.issuer,
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	image, err := totp.EnrollmentImage(uri, s.imageSize)
	if err != nil {
		return nil, err
	}
	svg, err := totp.EnrollmentSVG(uri, s.imageSize)
	if err != nil {
		return nil, err
	}

	codes, err := backupcode.Generate(s.backupCodeCount)
	if err != nil {
		return nil, err
	}

	plain := []byte(secret)
	env, err := s.encryptor.Encrypt(plain)
	secrets.Zero(plain)
	if err != nil {
		s.fail(ctx, opSetup, userID, err)
		return nil, encryptionError(opSetup, userID, err)
	}

	now := s.now()
	next := &Record{
		ID:              uuid.New(),
		UserID:          userID,
		Secret:          env,
		BackupCodesHash: backupcode.HashAll(codes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.storage.UpsertPending(ctx, next); err != nil {
		if errors.Is(err, ErrRecordVerified) {
			return nil, ErrAlreadyEnabled
		}
		s.fail(ctx, opSetup, userID, err)
		return nil, storageError(opSetup, userID, err)
	}
	if err := s.guard.Reset(ctx, userID); err != nil {
		s.fail(ctx, opSetup, userID, err)
		return nil, storageError(opSetup, userID, err)
	}

	s.metrics.observe(opSetup, methodNone, outcomeSuccess)
	s.logger.InfoContext(ctx, "two-factor setup started",
		logger.Operation(opSetup),
		logger.UserID(userID),
		logger.KeyVersion(env.Version),
	)

	return &SetupResult{
		Secret:          secret,
		URI:             uri,
		EnrollmentImage: image,
		EnrollmentSVG:   svg,
		BackupCodes:     codes,

		BackupCodesDisplay: backupcode.FormatAll(codes),
	}, nil
}

// ConfirmSetup completes enrollment with the first code from the
// authenticator app. Only TOTP codes are accepted here.
func (s *service) ConfirmSetup(ctx context.Context, userID, code string) (bool, error) {
	rec, err := s.loadRecord(ctx, opConfirmSetup, userID)
	if err != nil {
		return false, err
	}
	if _, err := transition(stateOf(rec), EventConfirm); err != nil {
		return false, err
	}

	if err := s.reserveAttempt(ctx, opConfirmSetup, userID); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return false, ErrNotSetUp
		}
		return false, err
	}

	ok, err := s.verifyTOTP(opConfirmSetup, rec, code)
	if err != nil {
		s.fail(ctx, opConfirmSetup, userID, err)
		return false, err
	}
	if !ok {
		s.metrics.observe(opConfirmSetup, methodTOTP, outcomeInvalid)
		return false, nil
	}

	updated, err := s.storage.MarkVerified(ctx, userID, rec.Secret.IV, s.now())
	if err != nil {
		s.fail(ctx, opConfirmSetup, userID, err)
		return false, storageError(opConfirmSetup, userID, err)
	}
	if !updated {
		return s.confirmLost(ctx, userID)
	}
	if err := s.guard.Reset(ctx, userID); err != nil {
		s.fail(ctx, opConfirmSetup, userID, err)
		return false, storageError(opConfirmSetup, userID, err)
	}

	s.metrics.observe(opConfirmSetup, methodTOTP, outcomeSuccess)
	s.logger.InfoContext(ctx, "two-factor enabled",
		logger.Operation(opConfirmSetup),
		logger.UserID(userID),
	)
	return true, nil
}

// confirmLost explains a MarkVerified that changed nothing: the record was
// deleted, confirmed by another call, or given a new secret by a newer Setup.
func (s *service) confirmLost(ctx context.Context, userID string) (bool, error) {
	current, err := s.storage.GetRecord(ctx, userID)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		return false, ErrNotSetUp
	case err != nil:
		s.fail(ctx, opConfirmSetup, userID, err)
		return false, storageError(opConfirmSetup, userID, err)
	case current.Verified:
		return false, ErrAlreadyVerified
	}

	// The code matched a secret that has since been replaced.
	s.metrics.observe(opConfirmSetup, methodTOTP, outcomeInvalid)
	return false, nil
}

// VerifyOnLogin checks a TOTP or backup code as the second login factor.
// Users without an enabled second factor get false without being counted.
func (s *service) VerifyOnLogin(ctx context.Context, userID, code string) (bool, error) {
	rec, err := s.loadRecord(ctx, opVerifyOnLogin, userID)
	if err != nil {
		return false, err
	}
	if stateOf(rec) != StateEnabled {
		return false, nil
	}

	if err := s.reserveAttempt(ctx, opVerifyOnLogin, userID); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	method, ok, err := s.verifyProof(ctx, opVerifyOnLogin, rec, code)
	if err != nil {
		return false, err
	}
	if !ok {
		s.metrics.observe(opVerifyOnLogin, method, outcomeInvalid)
		return false, nil
	}

	if err := s.succeed(ctx, opVerifyOnLogin, userID, method, true); err != nil {
		return false, err
	}
	return true, nil
}

// Disable removes the second factor after proof of possession. The whole
// record is deleted, so a later Setup starts from a clean state.
func (s *service) Disable(ctx context.Context, userID, code string) (bool, error) {
	rec, err := s.loadRecord(ctx, opDisable, userID)
	if err != nil {
		return false, err
	}
	if _, err := transition(stateOf(rec), EventDisable); err != nil {
		return false, err
	}

	if err := s.reserveAttempt(ctx, opDisable, userID); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return false, ErrNotSetUp
		}
		return false, err
	}

	method, ok, err := s.verifyProof(ctx, opDisable, rec, code)
	if err != nil {
		return false, err
	}
	if !ok {
		s.metrics.observe(opDisable, method, outcomeInvalid)
		return false, nil
	}

	if err := s.storage.DeleteRecord(ctx, userID); err != nil {
		s.fail(ctx, opDisable, userID, err)
		return false, storageError(opDisable, userID, err)
	}
	if err := s.succeed(ctx, opDisable, userID, method, false); err != nil {
		return false, err
	}
	return true, nil
}

// RegenerateBackupCodes replaces every backup code after proof of
// possession. Unlike the other operations a wrong code is an error,
// ErrInvalidCode.
func (s *service) RegenerateBackupCodes(ctx context.Context, userID, code string) ([]string, error) {
	rec, err := s.loadRecord(ctx, opRegenerate, userID)
	if err != nil {
		return nil, err
	}
	if stateOf(rec) != StateEnabled {
		return nil, ErrNotSetUp
	}

	if err := s.reserveAttempt(ctx, opRegenerate, userID); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrNotSetUp
		}
		return nil, err
	}

	method, ok, err := s.verifyProof(ctx, opRegenerate, rec, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.metrics.observe(opRegenerate, method, outcomeInvalid)
		return nil, ErrInvalidCode
	}

	codes, err := backupcode.Generate(s.backupCodeCount)
	if err != nil {
		return nil, err
	}
	if err := s.storage.ReplaceBackupCodes(ctx, userID, backupcode.HashAll(codes)); err != nil {
		s.fail(ctx, opRegenerate, userID, err)
		return nil, storageError(opRegenerate, userID, err)
	}
	if err := s.succeed(ctx, opRegenerate, userID, method, true); err != nil {
		return nil, err
	}
	return codes, nil
}

// GetStatus reports the enrollment state. A missing record yields the zero
// Status.
func (s *service) GetStatus(ctx context.Context, userID string) (Status, error) {
	rec, err := s.loadRecord(ctx, opGetStatus, userID)
	if err != nil || rec == nil {
		return Status{}, err
	}
	return Status{
		Enabled:              rec.Enabled,
		Verified:             rec.Verified,
		LastUsedAt:           rec.LastUsedAt,
		BackupCodesRemaining: len(rec.BackupCodesHash),
	}, nil
}

// IsRequired reports whether login must ask userID for a second factor.
func (s *service) IsRequired(ctx context.Context, userID string) (bool, error) {
	st, err := s.GetStatus(ctx, userID)
	if err != nil {
		return false, err
	}
	return st.Enabled && st.Verified, nil
}

// loadRecord returns nil without error when the user has no record.
func (s *service) loadRecord(ctx context.Context, op, userID string) (*Record, error) {
	rec, err := s.storage.GetRecord(ctx, userID)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.fail(ctx, op, userID, err)
		return nil, storageError(op, userID, err)
	}
	return rec, nil
}

// reserveAttempt counts the attempt before any code is checked.
// ErrRecordNotFound is passed through for the caller to map.
func (s *service) reserveAttempt(ctx context.Context, op, userID string) error {
	_, err := s.guard.RecordFailureAndCheck(ctx, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, lockout.ErrTooManyAttempts):
		s.metrics.observe(op, methodNone, outcomeLocked)
		return ErrTooManyAttempts
	case errors.Is(err, ErrRecordNotFound):
		return ErrRecordNotFound
	default:
		s.fail(ctx, op, userID, err)
		return storageError(op, userID, err)
	}
}

// verifyTOTP decrypts the secret, checks code and zeroes the plaintext.
func (s *service) verifyTOTP(op string, rec *Record, code string) (bool, error) {
	if !totp.IsCodeShape(code) {
		return false, nil
	}

	plain, err := s.encryptor.Decrypt(rec.Secret)
	if err != nil {
		return false, encryptionError(op, rec.UserID, err)
	}
	defer secrets.Zero(plain)

	return totp.VerifySecretAt(code, plain, s.now()), nil
}

// verifyProof tries the TOTP path, then the backup-code path for input of
// backup-code shape. A matched backup code is consumed before it counts.
func (s *service) verifyProof(ctx context.Context, op string, rec *Record, code string) (string, bool, error) {
	ok, err := s.verifyTOTP(op, rec, code)
	if err != nil {
		s.fail(ctx, op, rec.UserID, err)
		return methodTOTP, false, err
	}
	if ok {
		return methodTOTP, true, nil
	}

	if !backupcode.IsCodeShape(code) {
		return methodTOTP, false, nil
	}
	digest, ok := backupcode.Match(backupcode.Parse(code), rec.BackupCodesHash)
	if !ok {
		return methodBackupCode, false, nil
	}

	consumed, err := s.storage.ConsumeBackupCode(ctx, rec.UserID, digest)
	if err != nil {
		s.fail(ctx, op, rec.UserID, err)
		return methodBackupCode, false, storageError(op, rec.UserID, err)
	}
	return methodBackupCode, consumed, nil
}

// succeed resets the lockout counter and optionally stamps lastUsedAt.
func (s *service) succeed(ctx context.Context, op, userID, method string, touch bool) error {
	if touch {
		if err := s.storage.TouchLastUsed(ctx, userID, s.now()); err != nil {
			s.fail(ctx, op, userID, err)
			return storageError(op, userID, err)
		}
	}
	if err := s.guard.Reset(ctx, userID); err != nil {
		s.fail(ctx, op, userID, err)
		return storageError(op, userID, err)
	}

	s.metrics.observe(op, method, outcomeSuccess)
	s.logger.InfoContext(ctx, "two-factor verified",
		logger.Operation(op),
		logger.UserID(userID),
		logger.Method(method),
	)
	return nil
}

func (s *service) fail(ctx context.Context, op, userID string, err error) {
	s.metrics.observe(op, methodNone, outcomeError)
	s.logger.ErrorContext(ctx, "two-factor operation failed",
		logger.Operation(op),
		logger.UserID(userID),
		logger.Error(err),
	)
}
