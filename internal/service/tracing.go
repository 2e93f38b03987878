package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phrazzld/todofast-api/internal/service"

// startSpan opens a span for one service operation. The tracer is resolved
// on every call so a provider installed after construction is still used.
func startSpan(ctx context.Context, name string, ownerID uuid.UUID) (context.Context, trace.Span) {
	var opts []trace.SpanStartOption
	if ownerID != uuid.Nil {
		opts = append(opts, trace.WithAttributes(attribute.String("todofast.owner_id", ownerID.String())))
	}
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
