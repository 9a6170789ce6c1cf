// Package service provides the field protection primitives: the deterministic
// identifier hasher, the reversible field cipher and KMS access for key unwrapping.
package service

import (
	"context"

	cryptoDomain "github.com/rahats/school/internal/crypto/domain"
)

// IdentifierHasher computes the lookup key of a personal identifier.
//
// Implementations are pure and deterministic across process restarts. The input is
// hashed as-is; callers normalize it first.
type IdentifierHasher interface {
	Hash(identifier string) string
}

// FieldCipher reversibly encrypts individual PII fields.
//
// Empty input passes through unchanged in both directions. Every Encrypt call uses a
// fresh random IV, so encrypting the same value twice yields different envelopes.
type FieldCipher interface {
	Encrypt(plaintext string) (string, error)

	// Decrypt returns cryptoDomain.ErrDecryptionFailed (possibly wrapped) for malformed
	// envelopes, wrong keys, MAC mismatches and invalid padding.
	Decrypt(envelope string) (string, error)
}

// KMSService opens KMS keepers used to unwrap key material at startup.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
