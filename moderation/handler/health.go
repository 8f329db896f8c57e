package handler

import (
	"github.com/gin-gonic/gin"
	"opencsg.com/image-moderation/api/httpbase"
	"opencsg.com/image-moderation/version"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root
//
//	@Summary	Service banner
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	object
//	@Router		/ [get]
func (h *HealthHandler) Root(ctx *gin.Context) {
	httpbase.OK(ctx, gin.H{
		"message": "Image Moderation API is running",
	})
}

// Health
//
//	@Summary	Liveness and version
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	object
//	@Router		/health [get]
func (h *HealthHandler) Health(ctx *gin.Context) {
	httpbase.OK(ctx, gin.H{
		"status":  "healthy",
		"version": version.Version,
	})
}
