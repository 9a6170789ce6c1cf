package service

import (
	"context"
	"fmt"
	"net/url"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/rahats/school/internal/crypto/domain"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsProviders maps KMS_PROVIDER values to the key URI scheme each one opens.
var kmsProviders = map[string]string{
	"gcpkms":        "gcpkms",
	"awskms":        "awskms",
	"azurekeyvault": "azurekeyvault",
	"hashivault":    "hashivault",
	"localsecrets":  "base64key",
}

// CheckKMSProvider reports whether keyURI belongs to provider, so that a key
// wrapped by one KMS is never handed to another.
func CheckKMSProvider(provider, keyURI string) error {
	scheme, ok := kmsProviders[provider]
	if !ok {
		return fmt.Errorf("unsupported KMS provider: %q", provider)
	}
	parsed, err := url.Parse(keyURI)
	if err != nil {
		return fmt.Errorf("invalid KMS key URI: %w", err)
	}
	if parsed.Scheme != scheme {
		return fmt.Errorf("KMS key URI scheme %q does not match provider %q (expected %s://)",
			parsed.Scheme, provider, scheme)
	}
	return nil
}

type kmsService struct{}

func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens the gocloud.dev keeper for keyURI. The caller closes it.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
