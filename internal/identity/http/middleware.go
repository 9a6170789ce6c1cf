package http

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rahats/school/internal/errors"
	"github.com/rahats/school/internal/httputil"
	identityDomain "github.com/rahats/school/internal/identity/domain"
	identityUseCase "github.com/rahats/school/internal/identity/usecase"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware authenticates requests with a session token sent as
// "Authorization: Bearer <token>" (scheme is case-insensitive).
//
// Error handling:
//   - Missing header, other scheme or empty token → 401 Unauthorized
//   - Malformed, forged, expired or revoked token → 403 invalid_session
//
// On success the principal is stored in the request context, see GetPrincipal.
// Token contents are never logged.
func AuthenticationMiddleware(authUseCase identityUseCase.AuthUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("authentication failed: missing bearer token")
			httputil.HandleErrorGin(c, identityDomain.ErrSessionMissing, logger)
			c.Abort()
			return
		}

		principal, err := authUseCase.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

		logger.Debug("authentication successful",
			slog.Int64("subject_id", principal.SubjectID),
			slog.String("role", principal.Role.String()))

		c.Next()
	}
}

// RequireRole rejects principals whose role is not one of roles with 403 Forbidden.
// It must run after AuthenticationMiddleware.
func RequireRole(logger *slog.Logger, roles ...identityDomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			logger.Debug("authorization failed: no principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !slices.Contains(roles, principal.Role) {
			logger.Debug("authorization failed: role not allowed",
				slog.Int64("subject_id", principal.SubjectID),
				slog.String("role", principal.Role.String()),
				slog.String("path", c.FullPath()))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
