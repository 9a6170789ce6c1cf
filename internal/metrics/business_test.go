package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rahats/school/internal/errors"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("Success_CreateBusinessMetrics", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "identity", "login", "success")
	})

	t.Run("Success_RecordFailedOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "identity", "login", "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "identity", "login", "success")
		bm.RecordOperation(context.Background(), "school", "update_grades", "success")
		bm.RecordOperation(context.Background(), "school", "upload_material", "error")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "identity", "login", 123*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "identity", "login", 456*time.Millisecond, "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordDuration(context.Background(), "identity", "login", 100*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "school", "update_grades", 200*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "school", "upload_material", 300*time.Millisecond, "error")
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordOperation(context.Background(), "identity", "login", "success")
		noOpMetrics.RecordOperation(context.Background(), "school", "update_grades", "error")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordDuration(
			context.Background(),
			"identity",
			"login",
			100*time.Millisecond,
			"success",
		)
		noOpMetrics.RecordDuration(context.Background(), "school", "update_grades", 200*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	// Record various operations
	ctx := context.Background()

	// Record operation counts
	bm.RecordOperation(ctx, "identity", "login", "success")
	bm.RecordOperation(ctx, "identity", "login", "success")
	bm.RecordOperation(ctx, "identity", "login", "error")
	bm.RecordOperation(ctx, "school", "update_grades", "success")
	bm.RecordOperation(ctx, "school", "get_dashboard", "success")
	bm.RecordOperation(ctx, "school", "upload_material", "success")

	// Record operation durations
	bm.RecordDuration(ctx, "identity", "login", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "identity", "login", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "identity", "login", 100*time.Millisecond, "error")
	bm.RecordDuration(ctx, "school", "update_grades", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, "school", "get_dashboard", 20*time.Millisecond, "success")
	bm.RecordDuration(ctx, "school", "upload_material", 150*time.Millisecond, "success")

	// Metrics should be recorded without errors
	// Verify metrics in Prometheus registry
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	// Check operation counts
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="identity".*operation="login".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="identity".*operation="login".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="school".*operation="update_grades".*status="success"`,
		`1`,
	)

	// Check durations (existence)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="identity".*operation="login".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_sum`,
		`domain="identity".*operation="login".*status="success"`,
		``,
	)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, StatusSuccess},
		{apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials"), StatusDenied},
		{apperrors.Wrap(apperrors.ErrInvalidSession, "session token expired"), StatusDenied},
		{apperrors.Wrap(apperrors.ErrForbidden, "resource belongs to another subject"), StatusDenied},
		{apperrors.Wrap(apperrors.ErrTooManyRequests, "too many login attempts"), StatusThrottled},
		{apperrors.Wrap(apperrors.ErrInvalidInput, "invalid material type"), StatusInvalid},
		{apperrors.Wrap(apperrors.ErrNotFound, "enrollment not found"), StatusNotFound},
		{apperrors.Wrap(apperrors.ErrConflict, "identity already exists"), StatusConflict},
		{apperrors.Wrap(apperrors.ErrIntegrity, "ambiguous identity"), StatusError},
		{errors.New("connection refused"), StatusError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), "%v", tt.err)
	}
}
