package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("site-api/internal/interfaces/httpapi")

const handlerSpanPrefix = "httpapi.Handler."

// startSpan opens a handler span under the request span installed by the
// tracing middleware. Routes the middleware filters out (health probes) have
// no valid parent, and then no handler span is created either.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !strings.HasPrefix(name, handlerSpanPrefix) {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return apiTracer.Start(ctx, name)
}
