// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rahats/school/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type errorMapping struct {
	status int
	body   ErrorResponse
}

// errorMappings is keyed by apperrors.Kind. Only invalid input echoes the error text.
var errorMappings = map[error]errorMapping{
	apperrors.ErrNotFound: {http.StatusNotFound, ErrorResponse{
		Error: "not_found", Message: "The requested resource was not found",
	}},
	apperrors.ErrConflict: {http.StatusConflict, ErrorResponse{
		Error: "conflict", Message: "A conflict occurred with existing data",
	}},
	apperrors.ErrInvalidInput: {http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid_input"}},
	apperrors.ErrUnauthorized: {http.StatusUnauthorized, ErrorResponse{
		Error: "unauthorized", Message: "Authentication failed",
	}},
	apperrors.ErrInvalidSession: {http.StatusForbidden, ErrorResponse{
		Error: "invalid_session", Message: "The session is invalid or has expired",
	}},
	apperrors.ErrForbidden: {http.StatusForbidden, ErrorResponse{
		Error: "forbidden", Message: "You don't have permission to access this resource",
	}},
	apperrors.ErrTooManyRequests: {http.StatusTooManyRequests, ErrorResponse{
		Error: "too_many_requests", Message: "Too many attempts, please try again later",
	}},
}

var internalErrorMapping = errorMapping{http.StatusInternalServerError, ErrorResponse{
	Error: "internal_error", Message: "An internal error occurred",
}}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON response.
//
// Authentication failures share one message so that callers cannot tell an unknown
// identifier from a wrong password. Internal and integrity errors are logged but
// never exposed.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	kind := apperrors.Kind(err)
	mapping, ok := errorMappings[kind]
	if !ok {
		mapping = internalErrorMapping
	}
	response := mapping.body
	if kind == apperrors.ErrInvalidInput {
		response.Message = err.Error()
	}

	if logger != nil {
		level := slog.LevelWarn
		msg := "request failed"
		switch {
		case kind == apperrors.ErrIntegrity:
			level, msg = slog.LevelError, "data integrity"
		case mapping.status >= http.StatusInternalServerError:
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, msg,
			slog.Int("status_code", mapping.status),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(mapping.status, response)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
