package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// DigestToken returns the SHA-256 hex digest stored in place of a raw refresh token.
// bcrypt is not an option here since it refuses inputs longer than 72 bytes.
func DigestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// TokenMatches reports whether raw hashes to the stored digest
func TokenMatches(raw, digest string) bool {
	if raw == "" || digest == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(DigestToken(raw)), []byte(digest)) == 1
}
