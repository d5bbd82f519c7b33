package id

import (
	"crypto/rand"
	"encoding/hex"
)

// SecureToken returns a hex-encoded token of byteLen random bytes read from
// the OS CSPRNG. The token carries no user-derived data, so it cannot be
// predicted from account attributes.
func SecureToken(byteLen int) (string, error) {
	if byteLen <= 0 {
		byteLen = 32
	}
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
