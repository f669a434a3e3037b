// Package otel provides OpenTelemetry instrumentation utilities for the portal client.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by the portal client spans.
const (
	AttrAPIVersion       = attribute.Key("bro.api_version")
	AttrDemo             = attribute.Key("bro.demo")
	AttrProjectID        = attribute.Key("bro.project_id")
	AttrRequestReference = attribute.Key("bro.request_reference")
	AttrDocumentCount    = attribute.Key("bro.document_count")
	AttrDeliveryID       = attribute.Key("bro.delivery_id")
	AttrValidationStatus = attribute.Key("bro.validation_status")
	AttrUploadID         = attribute.Key("bro.upload_id")
	AttrBroID            = attribute.Key("bro.bro_id")
	AttrCacheHit         = attribute.Key("bro.cache_hit")
	AttrHTTPStatus       = attribute.Key("http.response.status_code")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns a no-op span.
// This provides graceful degradation when tracing is disabled.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records an error on a span and sets the span status to error.
// It safely handles nil spans and nil errors.
// The status description stays generic so credentials embedded in URLs or
// response bodies do not end up in the span status; the full error is kept
// in the exception event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
