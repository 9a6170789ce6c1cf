package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// sha256IdentifierHasher is the keyless hasher: a plain SHA-256 digest.
//
// Weak against offline guessing given an 11-digit identifier space; kept as the
// default for lookup compatibility with existing identifier_hash values. Login
// attempts are throttled per identifier to compensate online.
type sha256IdentifierHasher struct{}

// Hash returns the lowercase hex SHA-256 digest of identifier.
func (sha256IdentifierHasher) Hash(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])
}

// hmacIdentifierHasher keys the digest with a server secret (blind index).
type hmacIdentifierHasher struct {
	key []byte
}

// Hash returns the lowercase hex HMAC-SHA256 of identifier.
func (h *hmacIdentifierHasher) Hash(identifier string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(identifier))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewIdentifierHasher returns the keyless SHA-256 hasher when key is empty and the
// HMAC-SHA256 hasher otherwise. Switching modes invalidates every stored hash.
func NewIdentifierHasher(key []byte) IdentifierHasher {
	if len(key) == 0 {
		return sha256IdentifierHasher{}
	}
	return &hmacIdentifierHasher{key: append([]byte(nil), key...)}
}
