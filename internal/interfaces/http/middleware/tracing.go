// Package middleware provides the gin middleware chain of the preload API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps request ids copied from headers into spans
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "preload-backend",
		Enabled:     true,
	}
}

// TracingWithConfig starts a server span per request through otelgin.
// Span names follow "METHOD route", e.g. "POST /api/v1/documents/:id/actions/:action".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanEnricher tags the request span with the request id and the
// authenticated caller, and marks 4xx/5xx responses as errors. Mount it
// after the tracing and JWT middleware.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := spanRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if p, ok := GetPrincipal(c); ok {
			span.SetAttributes(
				attribute.String("user_id", p.UserID.String()),
				attribute.String("role", p.Role.String()),
			)
		}

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		switch {
		case status >= http.StatusInternalServerError:
			span.SetStatus(codes.Error, "Internal Server Error")
		case status == http.StatusUnauthorized:
			span.SetStatus(codes.Error, "Unauthorized")
		case status == http.StatusForbidden:
			span.SetStatus(codes.Error, "Forbidden")
		case status == http.StatusNotFound:
			span.SetStatus(codes.Error, "Not Found")
		default:
			span.SetStatus(codes.Error, "Client Error")
		}
	}
}

func spanRequestID(c *gin.Context) string {
	id := c.GetString(RequestIDKey)
	if id == "" {
		id = c.GetHeader(RequestIDHeader)
	}
	if len(id) > MaxRequestIDLength {
		return id[:MaxRequestIDLength]
	}
	return id
}
