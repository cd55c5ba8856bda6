// Package totp implements RFC 6238 time-based one-time passwords together with
// the enrollment material an authenticator app needs.
//
// The package has no state. It covers three concerns:
//
//   - secrets: GenerateSecret returns 20 random bytes encoded as 32 Base32
//     characters ([A-Z2-7], no padding).
//   - enrollment: BuildEnrollmentURI produces an otpauth:// key URI and
//     EnrollmentImage / EnrollmentSVG render it as a scannable QR code.
//   - codes: ComputeCode derives the six-digit code for a 30-second step and
//     VerifyCode / VerifyCodeAt accept the previous, current and next step.
//
// # Usage
//
//	secret, _ := totp.GenerateSecret()
//
//	uri, _ := totp.BuildEnrollmentURI(totp.Params{
//	    Secret:      secret,
//	    AccountName: "alice@example.com",
//	    Issuer:      "LexCase",
//	})
//	img, _ := totp.EnrollmentImage(uri, 256) // data:image/png;base64,...
//
//	ok := totp.VerifyCode("123456", secret)
//
// VerifyCode never returns an error: malformed candidates (anything other than
// six ASCII digits) and malformed secrets are simply rejected. Callers that
// also accept backup codes must branch on shape before calling it, see
// IsCodeShape.
//
// # Error Handling
//
// Operations that can fail return sentinel errors joined with errors.Join,
// e.g. ErrInvalidSecret or ErrFailedToGenerateSecret. Enrollment image
// failures are always reported as ErrEnrollmentImage alone.
//
// # See Also
//
//   - RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   - RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
package totp
