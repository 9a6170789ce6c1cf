package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	cryptoDomain "github.com/rahats/school/internal/crypto/domain"
	cryptoService "github.com/rahats/school/internal/crypto/service"
	identityDomain "github.com/rahats/school/internal/identity/domain"
	identityService "github.com/rahats/school/internal/identity/service"
)

// hashLogPrefix is how many identifier hash characters may appear in logs.
const hashLogPrefix = 8

// hashPrefix shortens an identifier hash for logging.
func hashPrefix(hash string) string {
	if len(hash) <= hashLogPrefix {
		return hash
	}
	return hash[:hashLogPrefix]
}

// authUseCase implements AuthUseCase.
type authUseCase struct {
	identityRepo      IdentityRepository
	revokedRepo       RevokedSessionRepository
	hasher            cryptoService.IdentifierHasher
	cipher            cryptoService.FieldCipher
	passwordService   identityService.PasswordService
	sessionService    identityService.SessionService
	throttle          *LoginThrottle
	revocationEnabled bool
	logger            *slog.Logger
	now               func() time.Time
}

// Login checks credentials and issues a session.
//
// This method:
// 1. Normalizes the identifier and computes its lookup hash
// 2. Consumes one attempt from the per-identifier throttle
// 3. Fetches the identity by (role, hash)
// 4. Verifies the password
// 5. Issues the session and decrypts the email for the response
func (a *authUseCase) Login(
	ctx context.Context,
	input *identityDomain.LoginInput,
) (*identityDomain.LoginOutput, error) {
	identifier, err := identityDomain.NormalizeIdentifier(input.Identifier)
	if err != nil {
		return nil, identityDomain.ErrInvalidCredentials
	}
	if _, err := identityDomain.ParseRole(input.Role.String()); err != nil {
		return nil, identityDomain.ErrInvalidCredentials
	}

	hash := a.hasher.Hash(identifier)
	throttleKey := input.Role.String() + ":" + hash

	if !a.throttle.Allow(throttleKey) {
		a.logger.Warn("login throttled",
			slog.String("role", input.Role.String()),
			slog.String("identifier_hash", hashPrefix(hash)))
		return nil, identityDomain.ErrTooManyAttempts
	}

	identity, outcome, err := a.checkCredentials(ctx, input.Role, hash, input.Password)
	if err != nil {
		return nil, err
	}
	if outcome != identityDomain.LoginSuccess {
		a.logger.Info("login rejected",
			slog.String("role", input.Role.String()),
			slog.String("identifier_hash", hashPrefix(hash)),
			slog.String("outcome", outcome.String()))
		return nil, identityDomain.ErrInvalidCredentials
	}

	a.throttle.Reset(throttleKey)

	session, err := a.sessionService.Issue(identity.ID, identity.Role)
	if err != nil {
		return nil, err
	}

	return &identityDomain.LoginOutput{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Subject:   a.subjectOf(identity),
	}, nil
}

// checkCredentials resolves the tagged outcome of a credential check. Only
// infrastructure failures are returned as errors.
func (a *authUseCase) checkCredentials(
	ctx context.Context,
	role identityDomain.Role,
	hash, password string,
) (*identityDomain.Identity, identityDomain.LoginOutcome, error) {
	identity, err := a.identityRepo.GetByIdentifierHash(ctx, role, hash)
	if err != nil {
		switch {
		case errors.Is(err, identityDomain.ErrIdentityNotFound):
			return nil, identityDomain.LoginNotFound, nil
		case errors.Is(err, identityDomain.ErrAmbiguousIdentity):
			a.logger.Error("data integrity",
				slog.String("reason", "duplicate identifier hash"),
				slog.String("role", role.String()),
				slog.String("identifier_hash", hashPrefix(hash)))
			return nil, identityDomain.LoginNotFound, nil
		default:
			return nil, 0, err
		}
	}

	if !a.passwordService.Verify(password, identity.PasswordHash) {
		return nil, identityDomain.LoginMismatch, nil
	}
	return identity, identityDomain.LoginSuccess, nil
}

// subjectOf builds the client view, withholding an email that fails to decrypt.
func (a *authUseCase) subjectOf(identity *identityDomain.Identity) identityDomain.Subject {
	subject := identityDomain.Subject{
		ID:       identity.ID,
		Role:     identity.Role,
		Name:     identity.Name,
		Lastname: identity.Lastname,
	}

	email, err := a.cipher.Decrypt(identity.EncryptedEmail)
	if err != nil {
		a.logger.Error("data integrity",
			slog.String("reason", "email decryption failed"),
			slog.String("role", identity.Role.String()),
			slog.Int64("subject_id", identity.ID),
			slog.Bool("envelope_error", errors.Is(err, cryptoDomain.ErrDecryptionFailed)))
		return subject
	}

	subject.Email = email
	return subject
}

// Authenticate verifies a bearer token and returns its principal.
func (a *authUseCase) Authenticate(ctx context.Context, token string) (*identityDomain.Principal, error) {
	return a.sessionService.Verify(ctx, token)
}

// Logout adds the session id to the denylist until the token would have expired.
// Without revocation it is a no-op and the client discards the token.
func (a *authUseCase) Logout(ctx context.Context, principal *identityDomain.Principal) error {
	if !a.revocationEnabled {
		return nil
	}

	return a.revokedRepo.Create(ctx, &identityDomain.RevokedSession{
		ID:        principal.SessionID,
		ExpiresAt: principal.ExpiresAt.UTC(),
		RevokedAt: a.now().UTC(),
	})
}

// Me loads the principal's identity and returns its subject view.
func (a *authUseCase) Me(
	ctx context.Context,
	principal *identityDomain.Principal,
) (*identityDomain.Subject, error) {
	identity, err := a.identityRepo.Get(ctx, principal.Role, principal.SubjectID)
	if err != nil {
		return nil, err
	}

	subject := a.subjectOf(identity)
	return &subject, nil
}

// PurgeRevokedSessions deletes denylist entries of tokens that already expired.
func (a *authUseCase) PurgeRevokedSessions(ctx context.Context) (int64, error) {
	return a.revokedRepo.DeleteExpired(ctx, a.now().UTC())
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
// A nil throttle disables per-identifier throttling.
func NewAuthUseCase(
	identityRepo IdentityRepository,
	revokedRepo RevokedSessionRepository,
	hasher cryptoService.IdentifierHasher,
	cipher cryptoService.FieldCipher,
	passwordService identityService.PasswordService,
	sessionService identityService.SessionService,
	throttle *LoginThrottle,
	revocationEnabled bool,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		identityRepo:      identityRepo,
		revokedRepo:       revokedRepo,
		hasher:            hasher,
		cipher:            cipher,
		passwordService:   passwordService,
		sessionService:    sessionService,
		throttle:          throttle,
		revocationEnabled: revocationEnabled,
		logger:            logger,
		now:               time.Now,
	}
}
