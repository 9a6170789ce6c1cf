// Package errors holds the error taxonomy shared by every domain. Domain packages
// wrap one of the standard errors below; httputil maps each standard error to a
// status code, so a new domain error needs no HTTP changes.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate of existing data, such as a registered identifier.
	ErrConflict = errors.New("conflict")

	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing credentials or a failed login.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidSession indicates a session token was presented but is malformed,
	// forged, expired or revoked.
	ErrInvalidSession = errors.New("invalid session")

	// ErrForbidden indicates an authenticated subject acting on someone else's data.
	ErrForbidden = errors.New("forbidden")

	// ErrTooManyRequests indicates the caller exceeded an attempt budget.
	ErrTooManyRequests = errors.New("too many requests")

	// ErrIntegrity indicates stored data that violates an invariant: a duplicated
	// identifier hash or a field that no longer decrypts. It is reported as an
	// internal error and logged at error level.
	ErrIntegrity = errors.New("data integrity violation")
)

// kinds is ordered so that the most specific classification wins.
var kinds = []error{
	ErrIntegrity,
	ErrInvalidSession,
	ErrUnauthorized,
	ErrForbidden,
	ErrTooManyRequests,
	ErrNotFound,
	ErrConflict,
	ErrInvalidInput,
}

// Kind returns the standard error err belongs to, or nil when err is outside the taxonomy.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, keeping err in the chain. Wrap(nil, ...) is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}
