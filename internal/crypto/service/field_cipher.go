package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/rahats/school/internal/crypto/domain"
)

// macKeyInfo is the HKDF context string of the envelope MAC key.
const macKeyInfo = "field-cipher-mac"

// AESCBCFieldCipher implements FieldCipher with AES-256-CBC and an HMAC-SHA256 tag
// over IV || ciphertext (encrypt-then-MAC).
//
// The AES key is the configured 256-bit server key. The MAC key is derived from it
// with HKDF-SHA256 so a single secret is configured. The tag is checked before any
// CBC decryption or padding removal takes place.
//
// Safe for concurrent use: the block cipher and keys are never mutated after construction.
type AESCBCFieldCipher struct {
	block  cipher.Block
	macKey []byte
}

// NewAESCBCFieldCipher creates the cipher. The key must be exactly 32 bytes.
func NewAESCBCFieldCipher(key []byte) (*AESCBCFieldCipher, error) {
	if len(key) != cryptoDomain.EncryptionKeySize {
		return nil, fmt.Errorf(
			"%w: key must be %d bytes, got %d",
			cryptoDomain.ErrInvalidKeySize,
			cryptoDomain.EncryptionKeySize,
			len(key),
		)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	macKey := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, key, nil, []byte(macKeyInfo)), macKey); err != nil {
		return nil, fmt.Errorf("failed to derive MAC key: %w", err)
	}

	return &AESCBCFieldCipher{block: block, macKey: macKey}, nil
}

// Encrypt returns the envelope of plaintext, or "" for empty input.
func (c *AESCBCFieldCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	iv := make([]byte, cryptoDomain.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(ciphertext, padded)
	cryptoDomain.Zero(padded)

	env := cryptoDomain.Envelope{IV: iv, Ciphertext: ciphertext}
	env.MAC = c.sign(env)

	return env.String(), nil
}

// Decrypt returns the plaintext of an envelope, or "" for empty input.
func (c *AESCBCFieldCipher) Decrypt(envelope string) (string, error) {
	if envelope == "" {
		return "", nil
	}

	env, err := cryptoDomain.ParseEnvelope(envelope)
	if err != nil {
		return "", err
	}

	if !hmac.Equal(env.MAC, c.sign(env)) {
		return "", fmt.Errorf("%w: authentication tag mismatch", cryptoDomain.ErrDecryptionFailed)
	}

	padded := make([]byte, len(env.Ciphertext))
	cipher.NewCBCDecrypter(c.block, env.IV).CryptBlocks(padded, env.Ciphertext)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

func (c *AESCBCFieldCipher) sign(env cryptoDomain.Envelope) []byte {
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write(env.AuthenticatedData())
	return mac.Sum(nil)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrDecryptionFailed)
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrDecryptionFailed)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrDecryptionFailed)
		}
	}

	return data[:len(data)-n], nil
}
