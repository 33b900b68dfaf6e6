// Package middleware provides the gin middleware of the association API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attributes added on top of the otelgin server span
const (
	SpanAttrRequestID  = attribute.Key("request_id")
	SpanAttrController = attribute.Key("controller")
	SpanAttrUserID     = attribute.Key("user_id")
	SpanAttrUserRole   = attribute.Key("user_role")
)

// TracingConfig names the service reported on server spans
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig opens a server span per request with otelgin and
// annotates it with the request ID, the controller and, once the session
// guard has run, the acting admin. Register the chain with engine.Use(...)
// after RequestID. It is empty when tracing is disabled.
func TracingWithConfig(cfg TracingConfig) gin.HandlersChain {
	if !cfg.Enabled {
		return nil
	}
	return gin.HandlersChain{otelgin.Middleware(cfg.ServiceName), annotateSpan}
}

// annotateSpan runs inside the otelgin span. Session attributes are read
// after the handlers return because the guard is mounted per route group.
func annotateSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		c.Next()
		return
	}
	if id := c.GetString(RequestIDKey); id != "" {
		span.SetAttributes(SpanAttrRequestID.String(id))
	}

	c.Next()

	if route := c.FullPath(); route != "" {
		span.SetAttributes(SpanAttrController.String(controllerFromRoute(route)))
	}
	if id := GetJWTUserID(c); id != "" {
		span.SetAttributes(SpanAttrUserID.String(id))
	}
	if role := GetJWTRole(c); role != "" {
		span.SetAttributes(SpanAttrUserRole.String(role))
	}
	markFailedSpan(span, c.Writer.Status())
}

// markFailedSpan flags client errors too, so rejected admin actions show
// up in error views. otelgin only flags 5xx.
func markFailedSpan(span trace.Span, status int) {
	if status < http.StatusBadRequest {
		return
	}
	span.SetStatus(codes.Error, http.StatusText(status))
}
