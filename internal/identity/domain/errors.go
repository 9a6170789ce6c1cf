package domain

import (
	"github.com/rahats/school/internal/errors"
)

// Identity and session errors.
var (
	// ErrIdentityNotFound indicates no identity matches the lookup key.
	ErrIdentityNotFound = errors.Wrap(errors.ErrNotFound, "identity not found")

	// ErrAmbiguousIdentity indicates more than one row carries the same identifier hash.
	// It is a data integrity failure and never a successful lookup.
	ErrAmbiguousIdentity = errors.Wrap(errors.ErrIntegrity, "ambiguous identity")

	// ErrIdentityAlreadyExists indicates the identifier hash is already registered for the role.
	ErrIdentityAlreadyExists = errors.Wrap(errors.ErrConflict, "identity already exists")

	// ErrInvalidCredentials is the single external answer to a failed login.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidIdentifier indicates the identifier is not exactly 11 digits.
	ErrInvalidIdentifier = errors.Wrap(errors.ErrInvalidInput, "identifier must be exactly 11 digits")

	// ErrInvalidRole indicates an unsupported role value.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")

	// ErrTooManyAttempts indicates the per-identifier login budget is exhausted.
	ErrTooManyAttempts = errors.Wrap(errors.ErrTooManyRequests, "too many login attempts")

	// ErrSessionMissing indicates no session token was presented.
	ErrSessionMissing = errors.Wrap(errors.ErrUnauthorized, "session token missing")

	// ErrSessionMalformed indicates the token failed parsing or signature checks.
	ErrSessionMalformed = errors.Wrap(errors.ErrInvalidSession, "session token malformed")

	// ErrSessionExpired indicates a correctly signed token past its expiry.
	ErrSessionExpired = errors.Wrap(errors.ErrInvalidSession, "session token expired")

	// ErrSessionRevoked indicates the token id is on the denylist.
	ErrSessionRevoked = errors.Wrap(errors.ErrInvalidSession, "session token revoked")
)
