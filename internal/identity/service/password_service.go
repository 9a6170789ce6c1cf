package service

import (
	"strings"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/rahats/school/internal/errors"
)

const argon2idPrefix = "$argon2id$"

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// Hash hashes a plaintext password using Argon2id.
func (p *passwordService) Hash(plaintext string) (string, error) {
	hash, err := p.hasher.Hash([]byte(plaintext))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// Verify performs a constant-time comparison between a plaintext password and its hash.
func (p *passwordService) Verify(plaintext, hash string) bool {
	if !p.IsHashed(hash) {
		return false
	}
	ok, err := p.hasher.Verify([]byte(plaintext), hash)
	if err != nil {
		return false
	}
	return ok
}

// IsHashed reports whether value is an Argon2id PHC string.
func (p *passwordService) IsHashed(value string) bool {
	return strings.HasPrefix(value, argon2idPrefix)
}

// NewPasswordService creates a PasswordService using the interactive Argon2id policy,
// sized for login latency.
func NewPasswordService() PasswordService {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &passwordService{hasher: hasher}
}
