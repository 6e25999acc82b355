// Package tracing holds the process-wide otel tracer used by repositories
// and the conflict check service.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer

// SetTracer sets the tracer used by StartSpan. Called once from main.
func SetTracer(t trace.Tracer) {
	tracer = t
}

// StartSpan starts a named span. Before SetTracer is called (or in tests)
// it is a no-op that returns the context unchanged.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName)
}

// GetTraceID returns the active trace id, or "" when no span is recording.
// Error responses carry it so operators can find the originating check.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}
