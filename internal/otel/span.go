// Package otel holds the span helpers and attribute keys shared by providers, stores and the API.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on refresh, store and HTTP spans
const (
	AttrProviderName = attribute.Key("provider.name")
	AttrProviderType = attribute.Key("provider.type")
	AttrContainer    = attribute.Key("storage.container")
	AttrPrefix       = attribute.Key("storage.prefix")
	AttrLocationKey  = attribute.Key("catalog.location_key")
	AttrMutationType = attribute.Key("catalog.mutation_type")
	AttrTaskID       = attribute.Key("task.id")
	AttrResultCount  = attribute.Key("result.count")
)

// StartSpan starts a span on tracer. With a nil tracer it returns ctx unchanged and
// the span already in ctx, which is a non-recording span when there is none.
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

// RecordError adds err as a span event and marks the span failed. The status
// description stays generic because store errors can carry connection strings.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
