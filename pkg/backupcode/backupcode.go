package backupcode

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// DefaultCount is the number of codes issued per batch.
	DefaultCount = 10

	// Length is the number of characters in a code, excluding the display dash.
	Length = 8

	// codeBytes random bytes hex-encode to Length characters.
	codeBytes = Length / 2

	// maxRedraws bounds how many times a colliding code is replaced.
	maxRedraws = 16
)

// Generate returns count fresh codes, each 8 upper-case hex characters.
// Codes within one batch are pairwise distinct.
func Generate(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}

	codes := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	redraws := 0
	buf := make([]byte, codeBytes)

	for len(codes) < count {
		if _, err := rand.Read(buf); err != nil {
			return nil, errors.Join(ErrFailedToGenerate, err)
		}
		code := strings.ToUpper(hex.EncodeToString(buf))
		if _, dup := seen[code]; dup {
			redraws++
			if redraws > maxRedraws {
				return nil, ErrDuplicateExhausted
			}
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	return codes, nil
}

// Normalize upper-cases code and drops everything outside [A-Z0-9], so
// "abcd-1234", "ABCD 1234" and "ABCD1234" are the same code.
func Normalize(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range strings.ToUpper(code) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Hash returns the hex SHA-256 digest of the normalized code.
func Hash(code string) string {
	sum := sha256.Sum256([]byte(Normalize(code)))
	return hex.EncodeToString(sum[:])
}

// HashAll hashes every code in order.
func HashAll(codes []string) []string {
	digests := make([]string, len(codes))
	for i, c := range codes {
		digests[i] = Hash(c)
	}
	return digests
}

// Verify reports whether candidate hashes to one of digests.
func Verify(candidate string, digests []string) bool {
	_, ok := Match(candidate, digests)
	return ok
}

// Match is Verify that also returns the matching digest so the caller can
// consume it. Every digest is compared, so timing does not depend on position.
func Match(candidate string, digests []string) (string, bool) {
	if Normalize(candidate) == "" {
		return "", false
	}

	computed := []byte(Hash(candidate))
	found := -1
	for i, d := range digests {
		if subtle.ConstantTimeCompare(computed, []byte(d)) == 1 && found < 0 {
			found = i
		}
	}
	if found < 0 {
		return "", false
	}
	return digests[found], true
}

// Format renders a code for display as XXXX-XXXX.
// Input that does not normalize to Length characters is returned normalized.
func Format(code string) string {
	n := Normalize(code)
	if len(n) != Length {
		return n
	}
	return n[:Length/2] + "-" + n[Length/2:]
}

// FormatAll formats every code in order.
func FormatAll(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = Format(c)
	}
	return out
}

// Parse turns user input, formatted or not, back into the canonical code.
func Parse(input string) string {
	return Normalize(input)
}

// IsCodeShape reports whether s normalizes to exactly Length alphanumerics.
func IsCodeShape(s string) bool {
	return len(Normalize(s)) == Length
}
