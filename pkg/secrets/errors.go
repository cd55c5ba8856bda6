package secrets

import "errors"

var (
	// Key validation errors
	ErrInvalidKey        = errors.New("invalid key: must be 32 bytes")
	ErrUnknownKeyVersion = errors.New("unknown key version")
	ErrInvalidKeyring    = errors.New("invalid keyring configuration")

	// Encryption/decryption errors
	ErrEncryptionFailed  = errors.New("encryption failed")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")

	// Key derivation errors
	ErrKeyDerivationFailed = errors.New("key derivation failed")
)
