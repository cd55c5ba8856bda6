package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required size of master and derived keys.
	KeySize = 32 // 256 bits for AES-256

	// DefaultPurpose scopes derived keys to two-factor secrets.
	DefaultPurpose = "lexcase-twofactor-v1"
)

// ValidateKey checks that key is exactly KeySize bytes.
func ValidateKey(key []byte) error {
	if len(key) != KeySize {
		return ErrInvalidKey
	}
	return nil
}

// deriveKey expands a master key into the data key for one version and purpose.
// The caller must clear the returned key with clearBytes when done with it.
func deriveKey(master []byte, version int, purpose string) ([]byte, error) {
	info := fmt.Appendf(nil, "%s/v%d", purpose, version)
	r := hkdf.New(sha256.New, master, nil, info)

	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(r, derived); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return derived, nil
}

// clearBytes zeroes b in place.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Zero overwrites a plaintext buffer returned by Decrypt once it is no
// longer needed.
func Zero(b []byte) {
	clearBytes(b)
}

// GenerateKey creates a new random 32-byte key suitable for encryption
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
