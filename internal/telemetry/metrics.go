package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// PortalMetricsMeterName is the name used for the bronhouderportaal metrics meter
	PortalMetricsMeterName = "github.com/bro-exchange/bro-exchange/connector"

	// ExportMetricsMeterName is the name used for the public GLD export metrics meter
	ExportMetricsMeterName = "github.com/bro-exchange/bro-exchange/gldexport"
)

// PortalMetrics holds the OpenTelemetry instruments for bronhouderportaal calls
type PortalMetrics struct {
	callDuration       metric.Float64Histogram
	validations        metric.Int64Counter
	documentsDelivered metric.Int64Counter
}

// NewPortalMetrics creates a new PortalMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewPortalMetrics(provider metric.MeterProvider) (*PortalMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(PortalMetricsMeterName)

	callDuration, err := meter.Float64Histogram(
		"bro_portal_call_duration_seconds",
		metric.WithDescription("Duration of bronhouderportaal operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	validations, err := meter.Int64Counter(
		"bro_portal_validations_total",
		metric.WithDescription("Number of validated requests by validation status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	documentsDelivered, err := meter.Int64Counter(
		"bro_portal_documents_delivered_total",
		metric.WithDescription("Number of sourcedocuments added to deliveries"),
		metric.WithUnit("{document}"),
	)
	if err != nil {
		return nil, err
	}

	return &PortalMetrics{
		callDuration:       callDuration,
		validations:        validations,
		documentsDelivered: documentsDelivered,
	}, nil
}

// RecordCall records the duration of a portal operation
func (m *PortalMetrics) RecordCall(ctx context.Context, operation string, duration time.Duration, success bool) {
	if m == nil || m.callDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	}

	m.callDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordValidation counts a validation outcome
func (m *PortalMetrics) RecordValidation(ctx context.Context, status string) {
	if m == nil || m.validations == nil {
		return
	}
	m.validations.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordDelivered counts sourcedocuments added to a delivery
func (m *PortalMetrics) RecordDelivered(ctx context.Context, count int) {
	if m == nil || m.documentsDelivered == nil {
		return
	}
	m.documentsDelivered.Add(ctx, int64(count))
}

// ExportMetrics holds the instruments for public GLD dossier lookups
type ExportMetrics struct {
	lookups metric.Int64Counter
}

// NewExportMetrics creates a new ExportMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewExportMetrics(provider metric.MeterProvider) (*ExportMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	lookups, err := provider.Meter(ExportMetricsMeterName).Int64Counter(
		"bro_gld_export_lookups_total",
		metric.WithDescription("Number of GLD dossier lookups by cache result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &ExportMetrics{lookups: lookups}, nil
}

// RecordLookup counts a dossier lookup, labelled by whether the cache served it
func (m *ExportMetrics) RecordLookup(ctx context.Context, cached bool) {
	if m == nil || m.lookups == nil {
		return
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("cached", cached)))
}
