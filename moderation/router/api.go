package router

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"opencsg.com/image-moderation/api/middleware"
	"opencsg.com/image-moderation/builder/instrumentation"
	bldprometheus "opencsg.com/image-moderation/builder/prometheus"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/moderation/handler"
)

func NewRouter(config *config.Config) (*gin.Engine, error) {
	mh, err := handler.NewModerationHandler(config)
	if err != nil {
		return nil, fmt.Errorf("error creating moderation handler:%w", err)
	}
	return NewRouterWithHandlers(config, mh, handler.NewHealthHandler()), nil
}

func NewRouterWithHandlers(config *config.Config, mh *handler.ModerationHandler, hh *handler.HealthHandler) *gin.Engine {
	bldprometheus.InitMetrics()

	r := gin.New()
	r.MaxMultipartMemory = config.Moderation.MaxFileSizeBytes
	middleware.SetInfraMiddleware(r, config, instrumentation.ServiceName)
	r.Use(cors.New(corsConfig(config)))

	if config.EnablePprof {
		//add router for golang pprof
		debugGroup := r.Group("/debug")
		pprof.RouteRegister(debugGroup, "pprof")
	}
	if config.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", hh.Root)
	r.GET("/health", hh.Health)
	r.POST("/moderate", mh.Moderate)

	return r
}

func corsConfig(config *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Accept-Language", "X-Request-ID"},
	}
	origins := config.CORSAllowOrigins()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
