package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rahats/school/internal/errors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleErrorGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"not found", apperrors.Wrap(apperrors.ErrNotFound, "material"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"invalid input", apperrors.Wrap(apperrors.ErrInvalidInput, "bad type"), http.StatusUnprocessableEntity, "invalid_input"},
		{"unauthorized", apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials"), http.StatusUnauthorized, "unauthorized"},
		{"invalid session", apperrors.Wrap(apperrors.ErrInvalidSession, "session expired"), http.StatusForbidden, "invalid_session"},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"too many requests", apperrors.ErrTooManyRequests, http.StatusTooManyRequests, "too_many_requests"},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "internal_error"},
		{"wrapped twice", fmt.Errorf("outer: %w", apperrors.Wrap(apperrors.ErrForbidden, "inner")), http.StatusForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedCode, response.Error)
		})
	}
}

func TestHandleErrorGin_HidesInternalDetails(t *testing.T) {
	c, w := newTestContext()

	HandleErrorGin(c, errors.New("dial tcp 10.0.0.3:3306: connection refused"), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestHandleErrorGin_IntegrityLoggedAsError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	c, w := newTestContext()

	HandleErrorGin(c, apperrors.Wrap(apperrors.ErrIntegrity, "ambiguous identity"), logger)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "ambiguous")
	assert.Contains(t, logs.String(), `"level":"ERROR"`)
	assert.Contains(t, logs.String(), `"msg":"data integrity"`)
}

func TestHandleErrorGin_UnauthorizedMessageIsGeneric(t *testing.T) {
	c, w := newTestContext()

	HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnauthorized, "identity not found"), nil)

	assert.NotContains(t, w.Body.String(), "identity not found")
}

func TestHandleErrorGin_NilError(t *testing.T) {
	c, w := newTestContext()

	HandleErrorGin(c, nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestContext()

	HandleBadRequestGin(c, errors.New("invalid JSON"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"invalid JSON"}`, w.Body.String())
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestContext()

	HandleValidationErrorGin(c, errors.New("tc_no: must be 11 digits."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"validation_error","message":"tc_no: must be 11 digits."}`, w.Body.String())
}
