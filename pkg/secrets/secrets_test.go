package secrets_test

import (
	"bytes"
	"testing"

	"github.com/lexcase/lexcase/pkg/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T) []byte {
	t.Helper()
	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	return key
}

func TestKeyring(t *testing.T) {
	t.Parallel()

	k1, k2 := mustKey(t), mustKey(t)
	kr, err := secrets.NewKeyring(map[int][]byte{1: k1, 2: k2}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, kr.CurrentVersion())
	assert.Equal(t, []int{1, 2}, kr.Versions())

	plaintext := []byte("GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ")

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		env, err := kr.Encrypt(plaintext)
		require.NoError(t, err)

		assert.Len(t, env.IV, secrets.NonceSize)
		assert.Len(t, env.Tag, secrets.TagSize)
		assert.Len(t, env.Data, len(plaintext))
		assert.Equal(t, 2, env.Version)
		assert.NotEqual(t, plaintext, env.Data)

		got, err := kr.Decrypt(env)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	})

	t.Run("fresh iv per call", func(t *testing.T) {
		t.Parallel()
		a, err := kr.Encrypt(plaintext)
		require.NoError(t, err)
		b, err := kr.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, a.IV, b.IV)
		assert.NotEqual(t, a.Data, b.Data)
	})

	t.Run("old version still opens after rotation", func(t *testing.T) {
		t.Parallel()
		old, err := secrets.NewKeyring(map[int][]byte{1: k1}, 1)
		require.NoError(t, err)
		env, err := old.Encrypt(plaintext)
		require.NoError(t, err)

		got, err := kr.Decrypt(env)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	})

	t.Run("unknown version", func(t *testing.T) {
		t.Parallel()
		env, err := kr.Encrypt(plaintext)
		require.NoError(t, err)
		env.Version = 9
		_, err = kr.Decrypt(env)
		require.ErrorIs(t, err, secrets.ErrUnknownKeyVersion)
	})

	t.Run("relabelled version fails", func(t *testing.T) {
		t.Parallel()
		env, err := kr.Encrypt(plaintext)
		require.NoError(t, err)
		env.Version = 1
		_, err = kr.Decrypt(env)
		require.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("tampered tag", func(t *testing.T) {
		t.Parallel()
		env, err := kr.Encrypt(plaintext)
		require.NoError(t, err)
		env.Tag[0] ^= 0xFF
		_, err = kr.Decrypt(env)
		require.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("malformed envelope", func(t *testing.T) {
		t.Parallel()
		_, err := kr.Decrypt(secrets.Envelope{IV: []byte{1}, Tag: make([]byte, 16), Version: 2})
		require.ErrorIs(t, err, secrets.ErrInvalidCiphertext)
	})
}

func TestKeyringPurposeSeparation(t *testing.T) {
	t.Parallel()

	master := mustKey(t)
	a, err := secrets.NewKeyring(map[int][]byte{1: master}, 1)
	require.NoError(t, err)
	b, err := secrets.NewKeyring(map[int][]byte{1: master}, 1, secrets.WithPurpose("other"))
	require.NoError(t, err)

	env, err := a.Encrypt([]byte("secret"))
	require.NoError(t, err)
	_, err = b.Decrypt(env)
	require.ErrorIs(t, err, secrets.ErrDecryptionFailed)
}

func TestNewKeyringValidation(t *testing.T) {
	t.Parallel()

	key := mustKey(t)
	tests := []struct {
		name    string
		masters map[int][]byte
		current int
	}{
		{name: "empty", masters: map[int][]byte{}, current: 1},
		{name: "current missing", masters: map[int][]byte{1: key}, current: 2},
		{name: "short key", masters: map[int][]byte{1: []byte("short")}, current: 1},
		{name: "zero version", masters: map[int][]byte{0: key}, current: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := secrets.NewKeyring(tt.masters, tt.current)
			require.ErrorIs(t, err, secrets.ErrInvalidKeyring)
		})
	}
}

func TestKeyringClose(t *testing.T) {
	t.Parallel()

	kr, err := secrets.NewKeyring(map[int][]byte{1: mustKey(t)}, 1)
	require.NoError(t, err)
	env, err := kr.Encrypt([]byte("x"))
	require.NoError(t, err)

	kr.Close()
	_, err = kr.Decrypt(env)
	require.ErrorIs(t, err, secrets.ErrUnknownKeyVersion)
}

func TestKeyringFromConfig(t *testing.T) {
	t.Parallel()

	k1, k2 := mustKey(t), mustKey(t)

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		kr, err := secrets.KeyringFromConfig(secrets.Config{
			Keys:           "1:" + secrets.EncodeKey(k1) + ", 2:" + secrets.EncodeKey(k2),
			CurrentVersion: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, kr.CurrentVersion())
		assert.Equal(t, []int{1, 2}, kr.Versions())
	})

	t.Run("input keys are untouched by parsing", func(t *testing.T) {
		t.Parallel()
		masters, err := secrets.ParseKeys("1:" + secrets.EncodeKey(k1))
		require.NoError(t, err)
		assert.Equal(t, k1, masters[1])
	})

	invalid := []string{
		"",
		"1",
		"x:" + secrets.EncodeKey(k1),
		"1:not-base64!",
		"1:" + secrets.EncodeKey(k1) + ",1:" + secrets.EncodeKey(k2),
		"1:" + secrets.EncodeKey([]byte("short")),
	}
	for _, keys := range invalid {
		_, err := secrets.KeyringFromConfig(secrets.Config{Keys: keys, CurrentVersion: 1})
		assert.ErrorIs(t, err, secrets.ErrInvalidKeyring, "keys %q", keys)
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	a := mustKey(t)
	b := mustKey(t)
	assert.Len(t, a, secrets.KeySize)
	assert.False(t, bytes.Equal(a, b))
}

func TestZero(t *testing.T) {
	t.Parallel()

	buf := []byte("plaintext")
	secrets.Zero(buf)
	assert.Equal(t, make([]byte, 9), buf)
}
