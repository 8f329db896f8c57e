package middleware

import (
	"github.com/gin-gonic/gin"
	"opencsg.com/image-moderation/common/utils/trace"
)

// Request assigns every request an ID, taken from X-Request-ID when the caller
// sent one, and echoes it in the response headers.
func Request() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := trace.GetOrGenRequestID(ctx)
		ctx.Writer.Header().Set(trace.HeaderRequestID, requestID)
		ctx.Next()
	}
}
