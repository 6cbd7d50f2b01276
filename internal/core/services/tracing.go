package services

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName scopes spans emitted by the services.
const tracerName = "github.com/custodia-labs/envio-cli/internal/core/services"

// tracer returns the services tracer from the global provider.
// Without a configured provider spans are no-ops.
func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// recordError marks the span as failed.
func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
