package usecase

import (
	"context"
	"time"

	identityDomain "github.com/rahats/school/internal/identity/domain"
	"github.com/rahats/school/internal/metrics"
)

const metricsDomain = "identity"

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	a.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	a.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Login records metrics for login attempts.
func (a *authUseCaseWithMetrics) Login(
	ctx context.Context,
	input *identityDomain.LoginInput,
) (*identityDomain.LoginOutput, error) {
	start := time.Now()
	output, err := a.next.Login(ctx, input)
	a.record(ctx, "login", start, err)
	return output, err
}

// Authenticate records metrics for session verification.
func (a *authUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	token string,
) (*identityDomain.Principal, error) {
	start := time.Now()
	principal, err := a.next.Authenticate(ctx, token)
	a.record(ctx, "authenticate", start, err)
	return principal, err
}

// Logout records metrics for logout operations.
func (a *authUseCaseWithMetrics) Logout(ctx context.Context, principal *identityDomain.Principal) error {
	start := time.Now()
	err := a.next.Logout(ctx, principal)
	a.record(ctx, "logout", start, err)
	return err
}

// Me records metrics for subject lookups.
func (a *authUseCaseWithMetrics) Me(
	ctx context.Context,
	principal *identityDomain.Principal,
) (*identityDomain.Subject, error) {
	start := time.Now()
	subject, err := a.next.Me(ctx, principal)
	a.record(ctx, "me", start, err)
	return subject, err
}

// PurgeRevokedSessions records metrics for denylist cleanup.
func (a *authUseCaseWithMetrics) PurgeRevokedSessions(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := a.next.PurgeRevokedSessions(ctx)
	a.record(ctx, "purge_revoked_sessions", start, err)
	return count, err
}
