package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Log writes one access log line per request through the default slog logger,
// so request_id and trace_id are attached by the context handler.
func Log() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		startTime := time.Now()

		ctx.Next()

		latency := time.Since(startTime).Milliseconds()
		level := slog.LevelInfo
		if ctx.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		slog.Log(ctx.Request.Context(), level, "http request", slog.String("ip", ctx.ClientIP()),
			slog.String("method", ctx.Request.Method),
			slog.Int("latency(ms)", int(latency)),
			slog.Int("status", ctx.Writer.Status()),
			slog.Int("size", ctx.Writer.Size()),
			slog.String("url", ctx.Request.URL.RequestURI()),
		)
	}
}
