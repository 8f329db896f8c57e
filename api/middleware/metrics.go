package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	bld "opencsg.com/image-moderation/builder/prometheus"
)

// Metrics counts requests and their latency by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		bld.ObserveHttpRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
