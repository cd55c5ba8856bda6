// Package twofactor implements TOTP-based two-factor authentication with
// single-use backup codes.
//
// A user's second factor moves through four states:
//
//	not_set_up           --setup-->   pending_verification
//	pending_verification --setup-->   pending_verification (new secret)
//	pending_verification --confirm--> enabled
//	enabled              --disable--> disabled
//	disabled             --setup-->   pending_verification
//
// Setup issues a fresh secret, the enrollment URI and QR images, and a batch
// of backup codes. The secret is stored encrypted through an Encryptor, such
// as a secrets.Keyring, and backup codes are stored as SHA-256 digests only.
//
// ConfirmSetup, VerifyOnLogin, Disable and RegenerateBackupCodes each count
// the attempt before checking the code. Once a user exceeds the ceiling every
// attempt fails with ErrTooManyAttempts, correct codes included, until a
// successful verification or a new Setup resets the counter. The counter
// lives in Storage by default; WithLockoutCounter moves it elsewhere, for
// example to Redis.
//
// A wrong code is not an error: the verification methods return false with a
// nil error. Infrastructure failures wrap ErrStorage or ErrEncryption with the
// operation and user in the message.
//
//	svc := twofactor.New(twofactor.NewPGStorage(pool), keyring,
//		twofactor.WithLogger(log),
//		twofactor.WithMetrics(twofactor.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//
//	res, err := svc.Setup(ctx, userID, email)
//	// show res.EnrollmentImage and res.BackupCodes once
//
//	ok, err := svc.ConfirmSetup(ctx, userID, code)
package twofactor
