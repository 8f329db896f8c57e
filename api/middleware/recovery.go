package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"opencsg.com/image-moderation/api/httpbase"
	bld "opencsg.com/image-moderation/builder/prometheus"
)

// Recovery returns a middleware that recovers from any panics and writes a 500 if there was one.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Increment the panic counter
				if bld.HttpPanicsTotal != nil {
					bld.HttpPanicsTotal.Inc()
				}
				slog.ErrorContext(c.Request.Context(), "[Recovery from panic]",
					slog.String("method", c.Request.Method),
					slog.String("url", c.Request.URL.RequestURI()),
					slog.String("full_path", c.FullPath()),
					slog.Any("error", err),
					slog.String("stack", string(debug.Stack())),
				)
				httpbase.ServerError(c)
			}
		}()
		c.Next()
	}
}
