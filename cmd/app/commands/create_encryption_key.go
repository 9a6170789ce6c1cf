package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/rahats/school/internal/crypto/domain"
	cryptoService "github.com/rahats/school/internal/crypto/service"
)

// keyEncrypter is the part of a KMS keeper needed to wrap a new key.
type keyEncrypter interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
}

// RunCreateEncryptionKey generates the field encryption key and a session signing
// secret and prints them as environment variables.
//
// When kmsKeyURI is set the encryption key is wrapped with KMS and the printed value
// is the KMS ciphertext; the server unwraps it at startup. Key material is zeroed
// after encoding.
func RunCreateEncryptionKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider, kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf("--kms-provider and --kms-key-uri must be used together")
	}
	if kmsKeyURI != "" {
		if err := cryptoService.CheckKMSProvider(kmsProvider, kmsKeyURI); err != nil {
			return err
		}
	}

	encryptionKey := make([]byte, cryptoDomain.EncryptionKeySize)
	if _, err := rand.Read(encryptionKey); err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}
	defer cryptoDomain.Zero(encryptionKey)

	signingSecret := make([]byte, cryptoDomain.MinSigningSecretLength)
	if _, err := rand.Read(signingSecret); err != nil {
		return fmt.Errorf("failed to generate session signing secret: %w", err)
	}
	defer cryptoDomain.Zero(signingSecret)

	encoded := encryptionKey
	if kmsKeyURI != "" {
		logger.Info("wrapping encryption key with KMS", slog.String("provider", kmsProvider))

		keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() {
			if closeErr := keeperInterface.Close(); closeErr != nil {
				logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()

		keeper, ok := keeperInterface.(keyEncrypter)
		if !ok {
			return fmt.Errorf("KMS keeper does not support encryption")
		}

		encoded, err = keeper.Encrypt(ctx, encryptionKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt encryption key with KMS: %w", err)
		}
	}

	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(encoded))
	_, _ = fmt.Fprintf(writer, "SESSION_SIGNING_SECRET=\"%s\"\n", base64.StdEncoding.EncodeToString(signingSecret))
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Changing ENCRYPTION_KEY makes existing emails unreadable.")

	return nil
}
