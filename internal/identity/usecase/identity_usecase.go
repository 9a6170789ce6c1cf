package usecase

import (
	"context"
	"errors"
	"log/slog"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/rahats/school/internal/crypto/domain"
	cryptoService "github.com/rahats/school/internal/crypto/service"
	"github.com/rahats/school/internal/database"
	apperrors "github.com/rahats/school/internal/errors"
	identityDomain "github.com/rahats/school/internal/identity/domain"
	identityService "github.com/rahats/school/internal/identity/service"
	customValidation "github.com/rahats/school/internal/validation"
)

// minPasswordLength applies to passwords set through the CLI.
const minPasswordLength = 8

// identityUseCase implements IdentityUseCase.
type identityUseCase struct {
	txManager       database.TxManager
	identityRepo    IdentityRepository
	hasher          cryptoService.IdentifierHasher
	cipher          cryptoService.FieldCipher
	passwordService identityService.PasswordService
	logger          *slog.Logger
}

// Create registers a new identity with its identifier hashed, its password hashed
// and its email encrypted. The plaintext identifier is not stored.
func (i *identityUseCase) Create(
	ctx context.Context,
	input *identityDomain.CreateIdentityInput,
) (*identityDomain.Subject, error) {
	if err := validation.ValidateStruct(input,
		validation.Field(&input.Name, validation.Required, customValidation.NotBlank),
		validation.Field(&input.Lastname, validation.Required, customValidation.NotBlank),
		validation.Field(&input.Password,
			validation.Required,
			customValidation.Password(minPasswordLength),
		),
		validation.Field(&input.Email, customValidation.Email),
	); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	role, err := identityDomain.ParseRole(input.Role.String())
	if err != nil {
		return nil, err
	}
	identifier, err := identityDomain.NormalizeIdentifier(input.Identifier)
	if err != nil {
		return nil, err
	}
	identifierHash := i.hasher.Hash(identifier)
	if err := i.ensureUnregistered(ctx, role, identifierHash); err != nil {
		return nil, err
	}

	passwordHash, err := i.passwordService.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	encryptedEmail, err := i.cipher.Encrypt(input.Email)
	if err != nil {
		return nil, err
	}

	identity := &identityDomain.Identity{
		Role:           role,
		IdentifierHash: identifierHash,
		PasswordHash:   passwordHash,
		EncryptedEmail: encryptedEmail,
		Name:           input.Name,
		Lastname:       input.Lastname,
	}
	if role == identityDomain.RoleStudent {
		identity.ClassID = input.ClassID
	}

	if err := i.identityRepo.Create(ctx, identity); err != nil {
		return nil, err
	}

	return &identityDomain.Subject{
		ID:       identity.ID,
		Role:     identity.Role,
		Name:     identity.Name,
		Lastname: identity.Lastname,
		Email:    input.Email,
	}, nil
}

// ensureUnregistered fails with ErrIdentityAlreadyExists when the role already holds
// hash. The unique index still decides concurrent inserts.
func (i *identityUseCase) ensureUnregistered(ctx context.Context, role identityDomain.Role, hash string) error {
	_, err := i.identityRepo.GetByIdentifierHash(ctx, role, hash)
	switch {
	case err == nil, errors.Is(err, identityDomain.ErrAmbiguousIdentity):
		return identityDomain.ErrIdentityAlreadyExists
	case errors.Is(err, identityDomain.ErrIdentityNotFound):
		return nil
	default:
		return err
	}
}

// Migrate converts bootstrap-era rows of a role table inside one transaction.
func (i *identityUseCase) Migrate(
	ctx context.Context,
	role identityDomain.Role,
	dryRun bool,
) (*identityDomain.MigrationReport, error) {
	if _, err := identityDomain.ParseRole(role.String()); err != nil {
		return nil, err
	}

	report := &identityDomain.MigrationReport{Role: role, DryRun: dryRun}

	run := func(ctx context.Context) error {
		rows, err := i.identityRepo.ListLegacy(ctx, role)
		if err != nil {
			return err
		}

		owners := make(map[string]int64, len(rows))
		for _, row := range rows {
			report.Scanned++

			changed, err := i.protect(row, dryRun)
			if err != nil {
				return err
			}
			if row.IdentifierHash != nil {
				if owner, ok := owners[*row.IdentifierHash]; ok {
					return apperrors.Wrapf(identityDomain.ErrIdentityAlreadyExists,
						"%s rows %d and %d share an identifier", role, owner, row.ID)
				}
				owners[*row.IdentifierHash] = row.ID
			}
			if !changed {
				report.Skipped++
				continue
			}
			if row.IdentifierHash == nil {
				i.logger.Warn("identity has no identifier, skipping",
					slog.String("role", role.String()),
					slog.Int64("id", row.ID))
				report.Skipped++
				continue
			}

			if !dryRun {
				if err := i.identityRepo.UpdateLegacy(ctx, role, row); err != nil {
					return err
				}
			}
			report.Migrated++
		}
		return nil
	}

	if dryRun {
		if err := run(ctx); err != nil {
			return nil, err
		}
		return report, nil
	}

	if err := i.txManager.WithTx(ctx, run); err != nil {
		return nil, err
	}
	return report, nil
}

// protect rewrites the plaintext columns of row in place and reports whether anything
// needed migrating. In dry-run mode the expensive hashing is skipped but the row is
// still classified.
func (i *identityUseCase) protect(row *identityDomain.LegacyIdentity, dryRun bool) (bool, error) {
	changed := false

	if row.LegacyIdentifier != nil {
		if *row.LegacyIdentifier != "" {
			identifier, err := identityDomain.NormalizeIdentifier(*row.LegacyIdentifier)
			if err != nil {
				return false, err
			}
			hash := i.hasher.Hash(identifier)
			row.IdentifierHash = &hash
		}
		row.LegacyIdentifier = nil
		changed = true
	}

	if !i.passwordService.IsHashed(row.Password) {
		if !dryRun {
			hash, err := i.passwordService.Hash(row.Password)
			if err != nil {
				return false, err
			}
			row.Password = hash
		}
		changed = true
	}

	if row.Email != nil && *row.Email != "" && !cryptoDomain.IsEnvelope(*row.Email) {
		envelope, err := i.cipher.Encrypt(*row.Email)
		if err != nil {
			return false, err
		}
		row.Email = &envelope
		changed = true
	}

	return changed, nil
}

// NewIdentityUseCase creates a new IdentityUseCase with the provided dependencies.
func NewIdentityUseCase(
	txManager database.TxManager,
	identityRepo IdentityRepository,
	hasher cryptoService.IdentifierHasher,
	cipher cryptoService.FieldCipher,
	passwordService identityService.PasswordService,
	logger *slog.Logger,
) IdentityUseCase {
	return &identityUseCase{
		txManager:       txManager,
		identityRepo:    identityRepo,
		hasher:          hasher,
		cipher:          cipher,
		passwordService: passwordService,
		logger:          logger,
	}
}
