// Package secrets encrypts small values at rest with AES-256-GCM under a
// versioned keyring.
//
// Each master key is 32 bytes and is identified by a positive version. The
// keyring never uses a master key directly: it derives one data key per
// version with HKDF-SHA-256, using the purpose string (DefaultPurpose unless
// overridden) and the version as HKDF info.
//
// # Envelope
//
// Encrypt returns an Envelope holding the random 12-byte IV, the ciphertext,
// the 16-byte GCM tag and the key version. The version is also bound into the
// GCM additional data, so an envelope relabelled with another version fails to
// open. Decrypt selects the key by version, which allows rotation: add a new
// version, make it current, and old envelopes keep decrypting.
//
// # Usage
//
//	kr, err := secrets.KeyringFromConfig(secrets.Config{
//	    Keys:           "1:" + secrets.EncodeKey(key),
//	    CurrentVersion: 1,
//	})
//
//	env, err := kr.Encrypt([]byte("JBSWY3DPEHPK3PXP"))
//	plain, err := kr.Decrypt(env)
//	defer secrets.Zero(plain)
//
// # Error Handling
//
// Failures wrap a sentinel such as ErrUnknownKeyVersion, ErrDecryptionFailed
// or ErrInvalidKeyring. Use errors.Is to match.
package secrets
