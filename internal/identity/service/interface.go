// Package service provides the credential primitives of the identity subsystem:
// adaptive password hashing and signed session tokens.
package service

import (
	"context"

	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// PasswordService hashes and verifies login passwords.
type PasswordService interface {
	// Hash returns a PHC-encoded Argon2id hash with an embedded random salt.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches hash. Malformed hashes never match.
	// The comparison is constant-time.
	Verify(plaintext, hash string) bool

	// IsHashed reports whether a stored value is already a password hash.
	IsHashed(value string) bool
}

// SessionService issues and verifies signed session tokens.
type SessionService interface {
	Issue(subjectID int64, role identityDomain.Role) (*identityDomain.Session, error)

	// Verify returns the principal of a valid token. Rejections are
	// ErrSessionMissing, ErrSessionMalformed, ErrSessionExpired and ErrSessionRevoked.
	Verify(ctx context.Context, token string) (*identityDomain.Principal, error)
}

// RevocationChecker reports whether a session id is on the denylist.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
