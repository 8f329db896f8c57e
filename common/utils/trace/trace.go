package trace

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderKong      = "X-Kong-Request-Id"
)

// requestIDContextKey is used as the key for the request ID in context.Context.
// Using a private custom type avoids key collisions.
type requestIDContextKey struct{}

// requestHeaders are checked in order for an upstream request ID
var requestHeaders = []string{
	HeaderRequestID,
	HeaderKong,
}

// GetOrGenRequestID retrieves the request ID of the gin request.
// It checks the gin context cache, then the known request ID headers,
// and finally generates a new ID if none is found.
// The ID is also injected into the request's context.Context so that
// loggers down the call chain can pick it up.
func GetOrGenRequestID(c *gin.Context) string {
	if requestID := c.GetString(HeaderRequestID); requestID != "" {
		return requestID
	}

	requestID := ""
	if c.Request != nil {
		for _, header := range requestHeaders {
			if v := c.Request.Header.Get(header); v != "" {
				requestID = v
				break
			}
		}
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set(HeaderRequestID, requestID)
	if c.Request != nil {
		c.Request = c.Request.WithContext(SetRequestIDInContext(c.Request.Context(), requestID))
	}
	return requestID
}

func SetRequestIDInContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

func GetRequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	// *gin.Context does not delegate struct keys to the request context
	if c, ok := ctx.(*gin.Context); ok && c.Request != nil {
		ctx = c.Request.Context()
	}
	if requestID, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return requestID
	}
	return ""
}

// GetTraceIDFromContext returns the otel trace ID of the current span, if sampled into a real trace.
func GetTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if c, ok := ctx.(*gin.Context); ok && c.Request != nil {
		ctx = c.Request.Context()
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}
