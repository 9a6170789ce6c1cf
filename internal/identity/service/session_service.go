package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	cryptoDomain "github.com/rahats/school/internal/crypto/domain"
	identityDomain "github.com/rahats/school/internal/identity/domain"
)

// expiryLeeway widens the parser's strict exp check so Verify can apply an
// inclusive one itself.
const expiryLeeway = time.Second

// sessionClaims are the JWT claims of a session token: sub, role, iat, exp and jti.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionOption configures the session service.
type SessionOption func(*sessionService)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) SessionOption {
	return func(s *sessionService) {
		s.now = now
	}
}

// WithRevocationChecker enables the denylist lookup on Verify.
func WithRevocationChecker(checker RevocationChecker) SessionOption {
	return func(s *sessionService) {
		s.revocations = checker
	}
}

// sessionService implements SessionService with HS256 JWTs.
type sessionService struct {
	signingKey  []byte
	ttl         time.Duration
	now         func() time.Time
	revocations RevocationChecker
	parser      *jwt.Parser
}

// Issue signs a new token for the subject. The token expires after the configured TTL.
func (s *sessionService) Issue(
	subjectID int64,
	role identityDomain.Role,
) (*identityDomain.Session, error) {
	jti, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	// NumericDate has second precision
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityDomain.FormatSubjectID(subjectID),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti.String(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &identityDomain.Session{
		Token:     signed,
		ID:        jti.String(),
		SubjectID: subjectID,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks signature, algorithm, expiry and claims, then the denylist when configured.
func (s *sessionService) Verify(ctx context.Context, token string) (*identityDomain.Principal, error) {
	if token == "" {
		return nil, identityDomain.ErrSessionMissing
	}

	claims := &sessionClaims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, identityDomain.ErrSessionExpired
		}
		return nil, identityDomain.ErrSessionMalformed
	}
	// exp is inclusive: the token is still valid at exactly its expiry second.
	if s.now().After(claims.ExpiresAt.Time) {
		return nil, identityDomain.ErrSessionExpired
	}

	subjectID, err := identityDomain.ParseSubjectID(claims.Subject)
	if err != nil {
		return nil, err
	}
	role, err := identityDomain.ParseRole(claims.Role)
	if err != nil || claims.ID == "" {
		return nil, identityDomain.ErrSessionMalformed
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check session revocation: %w", err)
		}
		if revoked {
			return nil, identityDomain.ErrSessionRevoked
		}
	}

	return &identityDomain.Principal{
		SubjectID: subjectID,
		Role:      role,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// NewSessionService creates a SessionService signing with HS256 under signingKey.
// The key must be at least cryptoDomain.MinSigningSecretLength bytes.
func NewSessionService(
	signingKey []byte,
	ttl time.Duration,
	opts ...SessionOption,
) (SessionService, error) {
	if len(signingKey) < cryptoDomain.MinSigningSecretLength {
		return nil, cryptoDomain.ErrSigningSecretTooShort
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}

	s := &sessionService{
		signingKey: append([]byte(nil), signingKey...),
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(expiryLeeway),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)

	return s, nil
}
