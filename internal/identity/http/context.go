// Package http provides the HTTP handlers and middleware of the identity domain.
package http

import (
	"context"

	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// WithPrincipal stores an authenticated principal in the context.
func WithPrincipal(ctx context.Context, principal *identityDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (nil, false) when AuthenticationMiddleware did not run.
func GetPrincipal(ctx context.Context) (*identityDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*identityDomain.Principal)
	return principal, ok && principal != nil
}
