package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/rahats/school/internal/errors"
)

// Operation statuses. Failed logins, rejected sessions and ownership failures are
// all "denied", so a credential-stuffing burst shows up apart from outages.
const (
	StatusSuccess   = "success"
	StatusDenied    = "denied"
	StatusThrottled = "throttled"
	StatusInvalid   = "invalid"
	StatusNotFound  = "not_found"
	StatusConflict  = "conflict"
	StatusError     = "error"
)

// StatusOf classifies the outcome of a use case call.
func StatusOf(err error) string {
	if err == nil {
		return StatusSuccess
	}
	switch apperrors.Kind(err) {
	case apperrors.ErrUnauthorized, apperrors.ErrInvalidSession, apperrors.ErrForbidden:
		return StatusDenied
	case apperrors.ErrTooManyRequests:
		return StatusThrottled
	case apperrors.ErrInvalidInput:
		return StatusInvalid
	case apperrors.ErrNotFound:
		return StatusNotFound
	case apperrors.ErrConflict:
		return StatusConflict
	default:
		return StatusError
	}
}

// BusinessMetrics records use case calls per domain ("identity", "school") and
// operation ("login", "update_grades", "material_create").
type BusinessMetrics interface {
	RecordOperation(ctx context.Context, domain, operation, status string)
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

type businessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
}

// NewBusinessMetrics registers <namespace>_operations_total and
// <namespace>_operation_duration_seconds on the given provider.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		namespace+"_operations_total",
		metric.WithDescription("Use case calls by domain, operation and status"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		namespace+"_operation_duration_seconds",
		metric.WithDescription("Use case latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &businessMetrics{operations: operations, durations: durations}, nil
}

func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

// NoOpBusinessMetrics is used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}
