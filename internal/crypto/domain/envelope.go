// Package domain defines the value types of the field protection layer: the
// encrypted field envelope and the process-wide secret material.
package domain

import (
	"crypto/aes"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// EnvelopeSeparator joins the hex encoded parts of an envelope. Its presence in a
	// stored value marks the value as already encrypted.
	EnvelopeSeparator = ":"

	// IVSize is the CBC initialization vector length (one AES block).
	IVSize = aes.BlockSize

	// MACSize is the HMAC-SHA256 tag length.
	MACSize = sha256.Size
)

// Envelope is the stored form of a reversibly encrypted field.
//
// Text form: hex(IV) ":" hex(Ciphertext) ":" hex(MAC), lowercase hex only.
// The IV is not secret but the MAC covers it, so any change to it is detected.
type Envelope struct {
	IV         []byte
	Ciphertext []byte
	MAC        []byte
}

// String encodes the envelope into its stored text form.
func (e Envelope) String() string {
	return hex.EncodeToString(e.IV) +
		EnvelopeSeparator +
		hex.EncodeToString(e.Ciphertext) +
		EnvelopeSeparator +
		hex.EncodeToString(e.MAC)
}

// AuthenticatedData returns IV || Ciphertext, the input of the envelope MAC.
func (e Envelope) AuthenticatedData() []byte {
	data := make([]byte, 0, len(e.IV)+len(e.Ciphertext))
	data = append(data, e.IV...)
	return append(data, e.Ciphertext...)
}

// ParseEnvelope decodes the stored text form. It is strict: exactly three parts,
// lowercase hex, a 16-byte IV, a non-empty block-aligned ciphertext and a 32-byte MAC.
func ParseEnvelope(s string) (Envelope, error) {
	parts := strings.Split(s, EnvelopeSeparator)
	if len(parts) != 3 {
		return Envelope{}, ErrMalformedEnvelope
	}

	decoded := make([][]byte, len(parts))
	for i, part := range parts {
		if !isLowerHex(part) {
			return Envelope{}, ErrMalformedEnvelope
		}
		b, err := hex.DecodeString(part)
		if err != nil {
			return Envelope{}, ErrMalformedEnvelope
		}
		decoded[i] = b
	}

	env := Envelope{IV: decoded[0], Ciphertext: decoded[1], MAC: decoded[2]}
	if len(env.IV) != IVSize || len(env.MAC) != MACSize {
		return Envelope{}, ErrMalformedEnvelope
	}
	if len(env.Ciphertext) == 0 || len(env.Ciphertext)%aes.BlockSize != 0 {
		return Envelope{}, ErrMalformedEnvelope
	}

	return env, nil
}

// IsEnvelope reports whether a stored value is already in envelope form.
// Used by the bootstrap migration to skip records that were migrated before.
func IsEnvelope(s string) bool {
	return strings.Contains(s, EnvelopeSeparator)
}

func isLowerHex(s string) bool {
	if s == "" || len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
