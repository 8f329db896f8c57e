package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"opencsg.com/image-moderation/builder/instrumentation"
	"opencsg.com/image-moderation/common/config"
)

func SetInfraMiddleware(r *gin.Engine, config *config.Config, serviceName string) {
	r.Use(Recovery())
	instrumentation.SetupOtelMiddleware(r, config, serviceName)
	r.Use(Request())
	r.Use(Log())
	r.Use(Metrics())
	r.Use(ModifyAcceptLanguageMiddleware())

	// Unified health check
	// Since readinessProbe cannot send a head request, use the get method
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
}
