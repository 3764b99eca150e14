// Package middleware provides the gin middleware of the dealership API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing opens a server span per request named "METHOD /route/:param".
// When disabled it is a pass-through.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return passThrough
	}
	if serviceName == "" {
		serviceName = "dms-backend"
	}
	return otelgin.Middleware(serviceName)
}

// TraceCaller tags the request span with the request id and the
// authenticated caller. Mount it after the JWT middleware.
func TraceCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			span.SetAttributes(callerAttributes(c)...)
		}
		c.Next()
	}
}

func callerAttributes(c *gin.Context) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if id := requestIDFrom(c); id != "" {
		attrs = append(attrs, attribute.String("request_id", id))
	}
	actor, ok := GetActor(c)
	if !ok {
		return attrs
	}
	attrs = append(attrs,
		attribute.String("user_id", actor.UserID),
		attribute.String("role", string(actor.Role)),
	)
	if actor.DealershipID != "" {
		attrs = append(attrs, attribute.String("dealership_id", actor.DealershipID))
	}
	return attrs
}

// SpanErrorMarker fails the request span for 4xx and 5xx responses. A 202
// carrying a warning stays successful.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		span := trace.SpanFromContext(c.Request.Context())
		if status < http.StatusBadRequest || !span.IsRecording() {
			return
		}
		span.SetStatus(codes.Error, http.StatusText(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
