package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rahats/school/internal/errors"
	"github.com/rahats/school/internal/httputil"
	"github.com/rahats/school/internal/identity/http/dto"
	identityUseCase "github.com/rahats/school/internal/identity/usecase"
	customValidation "github.com/rahats/school/internal/validation"
)

// AuthHandler handles HTTP requests for login, logout and the current subject.
type AuthHandler struct {
	authUseCase identityUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(authUseCase identityUseCase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// LoginHandler authenticates a subject and issues a session token.
// POST /api/auth/login - No authentication required.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.authUseCase.Login(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLoginOutputToResponse(output))
}

// LogoutHandler revokes the session used by the request.
// POST /api/auth/logout - Requires authentication.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.authUseCase.Logout(c.Request.Context(), principal); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// MeHandler returns the authenticated subject.
// GET /api/auth/me - Requires authentication.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	subject, err := h.authUseCase.Me(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubjectToResponse(subject))
}
