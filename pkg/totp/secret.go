package totp

import (
	"bytes"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"regexp"
	"strings"
)

const (
	// SecretSize is the raw secret length in bytes (160 bits, RFC 4226 recommendation).
	SecretSize = 20
	// SecretLength is the length of an encoded secret: 20 bytes in Base32 without padding.
	SecretLength = 32
)

var (
	// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding
	ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

	encoding = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// GenerateSecret returns a fresh Base32-encoded shared secret read from crypto/rand.
// The result is always SecretLength characters of [A-Z2-7].
func GenerateSecret() (string, error) {
	secret := make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecret, err)
	}
	defer clear(secret)
	return encoding.EncodeToString(secret), nil
}

// decodeSecret normalizes and decodes a Base32 secret into the raw HMAC key.
func decodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(strings.ToUpper(secret))
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.MatchString(secret) {
		return nil, ErrInvalidSecret
	}

	key, err := encoding.DecodeString(strings.TrimRight(secret, "="))
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}

// decodeSecretBytes decodes a canonical (upper-case) Base32 secret without
// converting it to a string.
func decodeSecretBytes(secret []byte) ([]byte, error) {
	secret = bytes.TrimSpace(secret)
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.Match(secret) {
		return nil, ErrInvalidSecret
	}
	secret = bytes.TrimRight(secret, "=")

	key := make([]byte, encoding.DecodedLen(len(secret)))
	n, err := encoding.Decode(key, secret)
	if err != nil {
		clear(key)
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key[:n], nil
}
