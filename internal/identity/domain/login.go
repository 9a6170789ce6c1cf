package domain

import "time"

// LoginInput carries the raw credentials submitted by a client.
type LoginInput struct {
	Identifier string
	Password   string //nolint:gosec // plaintext, never logged
	Role       Role
}

// LoginOutput is returned after a successful login.
type LoginOutput struct {
	Token     string //nolint:gosec // bearer token
	ExpiresAt time.Time
	Subject   Subject
}

// LoginOutcome is the internal result of a credential check. NotFound and Mismatch
// are distinguished for logging and metrics only; callers see ErrInvalidCredentials.
type LoginOutcome int

const (
	LoginNotFound LoginOutcome = iota
	LoginMismatch
	LoginSuccess
)

// String returns the metric label of the outcome.
func (o LoginOutcome) String() string {
	switch o {
	case LoginNotFound:
		return "not_found"
	case LoginMismatch:
		return "mismatch"
	case LoginSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// CreateIdentityInput registers a new student or teacher.
type CreateIdentityInput struct {
	Role       Role
	Identifier string
	Password   string //nolint:gosec // plaintext, hashed before storage
	Email      string
	Name       string
	Lastname   string
	ClassID    *int64
}

// MigrationReport summarizes a migrate-identities run.
type MigrationReport struct {
	Role     Role
	Scanned  int
	Migrated int
	Skipped  int
	DryRun   bool
}
