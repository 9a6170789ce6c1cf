package service

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/rahats/school/internal/crypto/domain"
)

func newTestKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.EncryptionKeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func newTestFieldCipher(t *testing.T) *AESCBCFieldCipher {
	t.Helper()
	c, err := NewAESCBCFieldCipher(newTestKey(t))
	require.NoError(t, err)
	return c
}

func TestNewAESCBCFieldCipher(t *testing.T) {
	tests := []struct {
		name    string
		keySize int
		wantErr bool
	}{
		{name: "Valid_32Bytes", keySize: 32},
		{name: "Invalid_16Bytes", keySize: 16, wantErr: true},
		{name: "Invalid_31Bytes", keySize: 31, wantErr: true},
		{name: "Invalid_33Bytes", keySize: 33, wantErr: true},
		{name: "Invalid_Empty", keySize: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewAESCBCFieldCipher(make([]byte, tt.keySize))
			if tt.wantErr {
				assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
				assert.Nil(t, c)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestAESCBCFieldCipher_RoundTrip(t *testing.T) {
	c := newTestFieldCipher(t)

	plaintexts := []string{
		"a",
		"ali@school.test",
		"exactly-16-bytes",
		"çğıöşü ÇĞİÖŞÜ",
		strings.Repeat("x", 1000),
	}

	for _, p := range plaintexts {
		envelope, err := c.Encrypt(p)
		require.NoError(t, err)
		assert.True(t, cryptoDomain.IsEnvelope(envelope))
		assert.NotContains(t, envelope, p)

		decrypted, err := c.Decrypt(envelope)
		require.NoError(t, err)
		assert.Equal(t, p, decrypted)
	}
}

func TestAESCBCFieldCipher_EnvelopeFormat(t *testing.T) {
	c := newTestFieldCipher(t)

	envelope, err := c.Encrypt("ali@school.test")
	require.NoError(t, err)

	parts := strings.Split(envelope, ":")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 32)
	assert.Len(t, parts[1], 32)
	assert.Len(t, parts[2], 64)
	assert.Equal(t, strings.ToLower(envelope), envelope)
}

func TestAESCBCFieldCipher_NonDeterministic(t *testing.T) {
	c := newTestFieldCipher(t)

	first, err := c.Encrypt("ali@school.test")
	require.NoError(t, err)
	second, err := c.Encrypt("ali@school.test")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestAESCBCFieldCipher_EmptyPassthrough(t *testing.T) {
	c := newTestFieldCipher(t)

	envelope, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, envelope)

	plaintext, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}

func TestAESCBCFieldCipher_TamperDetection(t *testing.T) {
	c := newTestFieldCipher(t)

	envelope, err := c.Encrypt("ali@school.test")
	require.NoError(t, err)

	for i := 0; i < len(envelope); i++ {
		if envelope[i] == ':' {
			continue
		}
		tampered := []byte(envelope)
		if tampered[i] == '0' {
			tampered[i] = '1'
		} else {
			tampered[i] = '0'
		}

		_, err := c.Decrypt(string(tampered))
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed, "position %d", i)
	}
}

func TestAESCBCFieldCipher_WrongKey(t *testing.T) {
	encrypter := newTestFieldCipher(t)
	decrypter := newTestFieldCipher(t)

	envelope, err := encrypter.Encrypt("ali@school.test")
	require.NoError(t, err)

	_, err = decrypter.Decrypt(envelope)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestAESCBCFieldCipher_Malformed(t *testing.T) {
	c := newTestFieldCipher(t)

	inputs := []string{
		"not-an-envelope",
		"a:b",
		"zz:zz:zz",
		"00:00:00",
		"::",
	}

	for _, in := range inputs {
		_, err := c.Decrypt(in)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed, in)
	}
}

func TestPKCS7(t *testing.T) {
	t.Run("FullBlockWhenAligned", func(t *testing.T) {
		padded := pkcs7Pad(make([]byte, 16), 16)
		assert.Len(t, padded, 32)
		assert.Equal(t, byte(16), padded[31])
	})

	t.Run("UnpadRejectsZero", func(t *testing.T) {
		block := make([]byte, 16)
		_, err := pkcs7Unpad(block, 16)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("UnpadRejectsInconsistent", func(t *testing.T) {
		block := make([]byte, 16)
		block[15] = 3
		block[14] = 3
		block[13] = 2
		_, err := pkcs7Unpad(block, 16)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		data := []byte("hello")
		out, err := pkcs7Unpad(pkcs7Pad(data, 16), 16)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	})
}
