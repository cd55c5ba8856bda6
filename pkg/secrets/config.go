package secrets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Config describes the keyring in environment variables.
//
//	SECRETS_KEYS="1:<base64 32 bytes>,2:<base64 32 bytes>"
//	SECRETS_CURRENT_VERSION=2
type Config struct {
	Keys           string `env:"SECRETS_KEYS,required"`
	CurrentVersion int    `env:"SECRETS_CURRENT_VERSION" envDefault:"1"`
	Purpose        string `env:"SECRETS_PURPOSE" envDefault:"lexcase-twofactor-v1"`
}

// ParseKeys decodes the SECRETS_KEYS format into master keys by version.
func ParseKeys(s string) (map[int][]byte, error) {
	masters := make(map[int][]byte)
	for entry := range strings.SplitSeq(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		rawVersion, rawKey, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, errors.Join(ErrInvalidKeyring, fmt.Errorf("entry %q: want <version>:<base64>", entry))
		}
		version, err := strconv.Atoi(strings.TrimSpace(rawVersion))
		if err != nil {
			return nil, errors.Join(ErrInvalidKeyring, fmt.Errorf("entry %q: bad version", entry), err)
		}
		if _, dup := masters[version]; dup {
			return nil, errors.Join(ErrInvalidKeyring, fmt.Errorf("version %d listed twice", version))
		}
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(rawKey))
		if err != nil {
			return nil, errors.Join(ErrInvalidKeyring, fmt.Errorf("version %d: bad base64", version), err)
		}
		masters[version] = key
	}
	return masters, nil
}

// KeyringFromConfig builds a Keyring from cfg.
func KeyringFromConfig(cfg Config) (*Keyring, error) {
	masters, err := ParseKeys(cfg.Keys)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, m := range masters {
			clearBytes(m)
		}
	}()
	return NewKeyring(masters, cfg.CurrentVersion, WithPurpose(cfg.Purpose))
}

// EncodeKey renders a key in the base64 form used by SECRETS_KEYS.
func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}
