package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	DefaultDigits    = 6      // Standard 6-digit TOTP codes
	DefaultPeriod    = 30     // 30-second validity window (RFC 6238 standard)
	DefaultAlgorithm = "SHA1" // HMAC-SHA1 algorithm (RFC 6238 standard)

	// DefaultSkew is how many steps on each side of the current one are accepted.
	DefaultSkew = 1
)

// IsCodeShape reports whether s looks like a live TOTP code: exactly six ASCII digits.
func IsCodeShape(s string) bool {
	if len(s) != DefaultDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ComputeCode returns the six-digit code for the 30-second step containing at.
// Same secret and step always yield the same code.
func ComputeCode(secret string, at time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateCode, err)
	}
	defer clear(key)

	return formatCode(GenerateHOTP(key, step(at), DefaultDigits)), nil
}

// VerifyCode validates candidate against the current time.
func VerifyCode(candidate, secret string) bool {
	return VerifyCodeAt(candidate, secret, time.Now())
}

// VerifyCodeAt accepts candidate if it matches the step containing at or one of
// its direct neighbours (±30s). Malformed input yields false, never an error.
func VerifyCodeAt(candidate, secret string, at time.Time) bool {
	if !IsCodeShape(candidate) {
		return false
	}

	key, err := decodeSecret(secret)
	if err != nil {
		return false
	}
	defer clear(key)

	return verifyKey(candidate, key, at)
}

// VerifySecretAt is VerifyCodeAt for a secret held in a byte slice, as
// returned by decryption. The caller can zero secret afterwards; no string
// copy of it is made.
func VerifySecretAt(candidate string, secret []byte, at time.Time) bool {
	if !IsCodeShape(candidate) {
		return false
	}

	key, err := decodeSecretBytes(secret)
	if err != nil {
		return false
	}
	defer clear(key)

	return verifyKey(candidate, key, at)
}

func verifyKey(candidate string, key []byte, at time.Time) bool {
	counter := step(at)
	matched := 0
	// Every window is computed so timing does not reveal which one matched
	for i := int64(-DefaultSkew); i <= DefaultSkew; i++ {
		code := formatCode(GenerateHOTP(key, counter+i, DefaultDigits))
		matched |= subtle.ConstantTimeCompare([]byte(code), []byte(candidate))
	}
	return matched == 1
}

// GenerateHOTP implements RFC 4226 HMAC-based One-Time Password algorithm.
// The algorithm converts a counter value into a numeric code using HMAC-SHA1.
func GenerateHOTP(key []byte, counter int64, digits int) int {
	// Convert counter to big-endian 8-byte array (RFC 4226 requirement)
	counterBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(counterBytes, uint64(counter))

	hmacHash := hmac.New(sha1.New, key)
	hmacHash.Write(counterBytes)
	hash := hmacHash.Sum(nil)

	// Dynamic truncation (RFC 4226): use last 4 bits as offset into hash
	offset := hash[len(hash)-1] & 0x0f
	// Extract 31-bit value (clear MSB to ensure positive number)
	code := (int(hash[offset]&0x7f) << 24) |
		(int(hash[offset+1]) << 16) |
		(int(hash[offset+2]) << 8) |
		int(hash[offset+3])

	return code % int(math.Pow10(digits))
}

func step(at time.Time) int64 {
	return at.Unix() / DefaultPeriod
}

func formatCode(code int) string {
	return fmt.Sprintf("%0*d", DefaultDigits, code)
}
