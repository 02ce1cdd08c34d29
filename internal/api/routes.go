package api

import (
	"github.com/gin-gonic/gin"

	"slipgen/internal/config"
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(router *gin.Engine, renderer Renderer, cfg *config.Config) {
	receiptHandler := NewReceiptHandler(renderer, cfg.Render.MaxWidthPx, cfg.Render.MaxBatch)

	v1 := router.Group("/v1")
	{
		receiptGroup := v1.Group("/receipt")
		{
			receiptGroup.POST("/render", receiptHandler.RenderOne)
			receiptGroup.POST("/render/batch", receiptHandler.RenderBatch)
			receiptGroup.POST("/validate", receiptHandler.ValidatePayload)
		}
	}
}
