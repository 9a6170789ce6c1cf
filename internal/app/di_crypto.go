package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/rahats/school/internal/crypto/domain"
	cryptoService "github.com/rahats/school/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// Secrets returns the process-wide key material, unwrapping the encryption key
// through KMS when KMS_KEY_URI is set.
func (c *Container) Secrets() (*cryptoDomain.Secrets, error) {
	var err error
	c.secretsInit.Do(func() {
		c.secrets, err = c.initSecrets()
		if err != nil {
			c.initErrors["secrets"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secrets"]; exists {
		return nil, storedErr
	}
	return c.secrets, nil
}

// IdentifierHasher returns the identifier hasher.
func (c *Container) IdentifierHasher() (cryptoService.IdentifierHasher, error) {
	var err error
	c.hasherInit.Do(func() {
		c.hasher, err = c.initIdentifierHasher()
		if err != nil {
			c.initErrors["hasher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["hasher"]; exists {
		return nil, storedErr
	}
	return c.hasher, nil
}

// FieldCipher returns the PII field cipher.
func (c *Container) FieldCipher() (cryptoService.FieldCipher, error) {
	var err error
	c.cipherInit.Do(func() {
		c.cipher, err = c.initFieldCipher()
		if err != nil {
			c.initErrors["cipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cipher"]; exists {
		return nil, storedErr
	}
	return c.cipher, nil
}

func (c *Container) initSecrets() (*cryptoDomain.Secrets, error) {
	ctx := context.Background()

	var keeper cryptoDomain.KMSKeeper
	if c.config.KMSKeyURI != "" {
		if err := cryptoService.CheckKMSProvider(c.config.KMSProvider, c.config.KMSKeyURI); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
		opened, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			return nil, err
		}
		defer func() {
			if closeErr := opened.Close(); closeErr != nil {
				c.Logger().Warn("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()
		keeper = opened
		c.Logger().Info("unwrapping encryption key with KMS", slog.String("provider", c.config.KMSProvider))
	}

	secrets, err := cryptoDomain.LoadSecrets(ctx, cryptoDomain.SecretsConfig{
		EncryptionKey:        c.config.EncryptionKey,
		IdentifierHashKey:    c.config.IdentifierHashKey,
		SessionSigningSecret: c.config.SessionSigningSecret,
	}, keeper)
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	return secrets, nil
}

func (c *Container) initIdentifierHasher() (cryptoService.IdentifierHasher, error) {
	secrets, err := c.Secrets()
	if err != nil {
		return nil, fmt.Errorf("failed to get secrets for identifier hasher: %w", err)
	}
	return cryptoService.NewIdentifierHasher(secrets.IdentifierHashKey), nil
}

func (c *Container) initFieldCipher() (cryptoService.FieldCipher, error) {
	secrets, err := c.Secrets()
	if err != nil {
		return nil, fmt.Errorf("failed to get secrets for field cipher: %w", err)
	}

	cipher, err := cryptoService.NewAESCBCFieldCipher(secrets.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create field cipher: %w", err)
	}
	return cipher, nil
}
