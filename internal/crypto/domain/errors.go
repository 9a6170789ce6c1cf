package domain

import (
	"github.com/rahats/school/internal/errors"
)

// Cryptographic error definitions.
//
// Key material errors surface at startup and stop the process. Decryption errors
// are data-integrity failures on a single stored field and are never shown to clients
// with their cause.
var (
	// ErrEncryptionKeyNotSet indicates ENCRYPTION_KEY is missing.
	ErrEncryptionKeyNotSet = errors.New("encryption key not set")

	// ErrInvalidKeySize indicates the field encryption key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKeyEncoding indicates a configured key is not valid base64.
	ErrInvalidKeyEncoding = errors.Wrap(errors.ErrInvalidInput, "invalid key encoding")

	// ErrSigningSecretTooShort indicates the session signing secret is shorter than MinSigningSecretLength.
	ErrSigningSecretTooShort = errors.Wrap(errors.ErrInvalidInput, "session signing secret too short")

	// ErrDecryptionFailed indicates a stored envelope could not be decrypted.
	//
	// Causes include a malformed envelope, a changed key, a MAC mismatch or
	// invalid padding. The specific cause is kept out of the message.
	ErrDecryptionFailed = errors.Wrap(errors.ErrIntegrity, "decryption failed")

	// ErrMalformedEnvelope indicates the stored representation cannot be split into
	// its IV, ciphertext and MAC parts.
	ErrMalformedEnvelope = errors.Wrap(ErrDecryptionFailed, "malformed envelope")
)
