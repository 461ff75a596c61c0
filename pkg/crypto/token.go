package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

const (
	// DefaultTokenLength is the raw byte length of verification tokens.
	// 32 bytes = 256 bits of entropy, rendered as 64 hex characters.
	DefaultTokenLength = 32
)

// GenerateToken returns a full-entropy random token rendered as hex.
// Verification tokens are stored and looked up by this value directly:
// they are unguessable lookup keys, not secrets verified against a hash.
func GenerateToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}

	bytes := make([]byte, byteLength)

	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}

// ConstantTimeEquals compares two token strings without leaking timing.
func ConstantTimeEquals(a, b string) (bool, error) {
	if a == "" || b == "" {
		return false, errors.New("tokens cannot be empty")
	}

	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1, nil
}
