// Package usecase defines the identity business logic: login, session verification,
// logout and the administrative identity commands.
package usecase

import (
	"context"
	"time"

	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// IdentityRepository defines persistence operations for students and teachers.
// Implementations must support transaction-aware operations via context propagation.
type IdentityRepository interface {
	// GetByIdentifierHash returns ErrIdentityNotFound when no row matches and
	// ErrAmbiguousIdentity when more than one does.
	GetByIdentifierHash(ctx context.Context, role identityDomain.Role, hash string) (*identityDomain.Identity, error)

	// Get retrieves an identity by ID. Returns ErrIdentityNotFound if not found.
	Get(ctx context.Context, role identityDomain.Role, id int64) (*identityDomain.Identity, error)

	// Create stores a new identity and sets its ID.
	Create(ctx context.Context, identity *identityDomain.Identity) error

	ListLegacy(ctx context.Context, role identityDomain.Role) ([]*identityDomain.LegacyIdentity, error)

	UpdateLegacy(ctx context.Context, role identityDomain.Role, legacy *identityDomain.LegacyIdentity) error
}

// RevokedSessionRepository defines persistence operations for the session denylist.
type RevokedSessionRepository interface {
	Create(ctx context.Context, session *identityDomain.RevokedSession) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AuthUseCase defines the login and session lifecycle operations.
type AuthUseCase interface {
	// Login checks credentials and issues a session.
	//
	// Unknown identifiers and wrong passwords both return ErrInvalidCredentials.
	// A session is only issued after the repository lookup and password check succeed.
	// An email that fails to decrypt is omitted from the output and logged as a
	// data integrity error; the login itself still succeeds.
	Login(ctx context.Context, input *identityDomain.LoginInput) (*identityDomain.LoginOutput, error)

	// Authenticate verifies a bearer token and returns its principal.
	Authenticate(ctx context.Context, token string) (*identityDomain.Principal, error)

	// Logout revokes the principal's session when revocation is enabled.
	Logout(ctx context.Context, principal *identityDomain.Principal) error

	// Me returns the subject view of the authenticated principal.
	Me(ctx context.Context, principal *identityDomain.Principal) (*identityDomain.Subject, error)

	// PurgeRevokedSessions deletes denylist entries of tokens that already expired.
	PurgeRevokedSessions(ctx context.Context) (int64, error)
}

// IdentityUseCase defines administrative identity operations used by the CLI.
type IdentityUseCase interface {
	Create(ctx context.Context, input *identityDomain.CreateIdentityInput) (*identityDomain.Subject, error)

	// Migrate converts bootstrap-era rows of a role table to the protected form.
	// It is idempotent: envelopes and password hashes are left untouched and the
	// plaintext identifier column is cleared. With dryRun nothing is written.
	Migrate(ctx context.Context, role identityDomain.Role, dryRun bool) (*identityDomain.MigrationReport, error)
}
