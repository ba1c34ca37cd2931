package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"hansard/internal/observe"
)

// Telemetry extracts W3C trace context, wraps the request in a server span
// and records its duration by method and route template.
func Telemetry(m *observe.Metrics) gin.HandlerFunc {
	prop := propagation.TraceContext{}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := prop.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := observe.StartSpan(ctx, "HTTP "+c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(c.Request.Method),
				semconv.HTTPRoute(route),
			),
		)
		defer span.End()

		prop.Inject(ctx, propagation.HeaderCarrier(c.Writer.Header()))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		span.SetAttributes(semconv.HTTPResponseStatusCode(c.Writer.Status()))
		m.HTTPRequestDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(
				attribute.String("method", c.Request.Method),
				attribute.String("route", route),
				attribute.Int("status", c.Writer.Status()),
			),
		)
	}
}
