package secrets

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
)

// Envelope is an AES-256-GCM ciphertext split into the parts stored at rest.
type Envelope struct {
	IV      []byte
	Data    []byte
	Tag     []byte
	Version int
}

// Keyring holds one derived data key per key version. New data is always
// sealed with the current version; any known version can be opened, which
// lets old rows survive a key rotation.
type Keyring struct {
	keys    map[int][]byte
	current int
	purpose string
}

// KeyringOption configures a Keyring.
type KeyringOption func(*Keyring)

// WithPurpose sets the HKDF info string used for derivation.
func WithPurpose(purpose string) KeyringOption {
	return func(k *Keyring) {
		if purpose != "" {
			k.purpose = purpose
		}
	}
}

// NewKeyring derives data keys from the given master keys. Master key slices
// are not retained.
func NewKeyring(masters map[int][]byte, current int, opts ...KeyringOption) (*Keyring, error) {
	k := &Keyring{
		keys:    make(map[int][]byte, len(masters)),
		current: current,
		purpose: DefaultPurpose,
	}
	for _, opt := range opts {
		opt(k)
	}

	if len(masters) == 0 {
		return nil, errors.Join(ErrInvalidKeyring, errors.New("no keys"))
	}
	if _, ok := masters[current]; !ok {
		return nil, errors.Join(ErrInvalidKeyring, ErrUnknownKeyVersion,
			fmt.Errorf("current version %d", current))
	}

	for version, master := range masters {
		if version < 1 {
			return nil, errors.Join(ErrInvalidKeyring, fmt.Errorf("version %d must be positive", version))
		}
		if err := ValidateKey(master); err != nil {
			return nil, errors.Join(ErrInvalidKeyring, fmt.Errorf("version %d", version), err)
		}
		derived, err := deriveKey(master, version, k.purpose)
		if err != nil {
			return nil, err
		}
		k.keys[version] = derived
	}

	return k, nil
}

// CurrentVersion returns the version used by Encrypt.
func (k *Keyring) CurrentVersion() int {
	return k.current
}

// Versions returns the known key versions in ascending order.
func (k *Keyring) Versions() []int {
	return slices.Sorted(maps.Keys(k.keys))
}

// Encrypt seals plaintext with the current key and a random 12-byte IV.
func (k *Keyring) Encrypt(plaintext []byte) (Envelope, error) {
	aesGCM, err := newGCM(k.keys[k.current])
	if err != nil {
		return Envelope{}, errors.Join(ErrEncryptionFailed, err)
	}

	iv := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return Envelope{}, errors.Join(ErrEncryptionFailed, err)
	}

	sealed := aesGCM.Seal(nil, iv, plaintext, versionAAD(k.current))
	split := len(sealed) - TagSize

	return Envelope{
		IV:      iv,
		Data:    sealed[:split],
		Tag:     sealed[split:],
		Version: k.current,
	}, nil
}

// Decrypt opens env with the key of env.Version. The caller owns the
// returned buffer and should Zero it after use.
func (k *Keyring) Decrypt(env Envelope) ([]byte, error) {
	key, ok := k.keys[env.Version]
	if !ok {
		return nil, errors.Join(ErrUnknownKeyVersion, fmt.Errorf("version %d", env.Version))
	}
	if len(env.IV) != NonceSize || len(env.Tag) != TagSize {
		return nil, ErrInvalidCiphertext
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	sealed := make([]byte, 0, len(env.Data)+len(env.Tag))
	sealed = append(sealed, env.Data...)
	sealed = append(sealed, env.Tag...)

	plaintext, err := aesGCM.Open(nil, env.IV, sealed, versionAAD(env.Version))
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// Close zeroes every derived key. The keyring is unusable afterwards.
func (k *Keyring) Close() {
	for v, key := range k.keys {
		clearBytes(key)
		delete(k.keys, v)
	}
}

// versionAAD binds the ciphertext to its key version.
func versionAAD(version int) []byte {
	return []byte("v" + strconv.Itoa(version))
}
