package domain

import (
	"context"
	"encoding/base64"
	"fmt"
)

const (
	// EncryptionKeySize is the required field encryption key length (AES-256).
	EncryptionKeySize = 32

	// MinSigningSecretLength is the minimum session signing secret length in bytes.
	MinSigningSecretLength = 32
)

// KMSKeeper unwraps KMS-encrypted key material. Implemented by *secrets.Keeper.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// SecretsConfig carries the raw configured values that Secrets is built from.
type SecretsConfig struct {
	// EncryptionKey is base64; it is KMS ciphertext when a keeper is supplied.
	EncryptionKey        string
	IdentifierHashKey    string
	SessionSigningSecret string
}

// Secrets is the process-wide secret material. It is built once at startup,
// injected into the hasher, cipher and session components, and never mutated.
type Secrets struct {
	EncryptionKey     []byte
	IdentifierHashKey []byte
	SessionSigningKey []byte
}

// LoadSecrets validates and decodes the configured key material.
//
// The process must refuse to start when this returns an error: a missing or
// wrongly sized encryption key is never padded or truncated.
func LoadSecrets(ctx context.Context, cfg SecretsConfig, keeper KMSKeeper) (*Secrets, error) {
	if cfg.EncryptionKey == "" {
		return nil, ErrEncryptionKeyNotSet
	}

	key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: ENCRYPTION_KEY", ErrInvalidKeyEncoding)
	}

	if keeper != nil {
		wrapped := key
		key, err = keeper.Decrypt(ctx, wrapped)
		Zero(wrapped)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap encryption key with KMS: %w", err)
		}
	}

	if len(key) != EncryptionKeySize {
		size := len(key)
		Zero(key)
		return nil, fmt.Errorf("%w: encryption key must be %d bytes, got %d", ErrInvalidKeySize, EncryptionKeySize, size)
	}

	if len(cfg.SessionSigningSecret) < MinSigningSecretLength {
		Zero(key)
		return nil, fmt.Errorf(
			"%w: need at least %d bytes, got %d",
			ErrSigningSecretTooShort,
			MinSigningSecretLength,
			len(cfg.SessionSigningSecret),
		)
	}

	secrets := &Secrets{
		EncryptionKey:     key,
		SessionSigningKey: []byte(cfg.SessionSigningSecret),
	}
	if cfg.IdentifierHashKey != "" {
		secrets.IdentifierHashKey = []byte(cfg.IdentifierHashKey)
	}

	return secrets, nil
}

// Close wipes the key material. Only called on shutdown.
func (s *Secrets) Close() {
	if s == nil {
		return
	}
	Zero(s.EncryptionKey)
	Zero(s.IdentifierHashKey)
	Zero(s.SessionSigningKey)
}

// Zero overwrites a byte slice with zeros.
func Zero(b []byte) {
	clear(b)
}
