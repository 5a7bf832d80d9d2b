package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Documents *DocumentHandler
	Query     *QueryHandler
	Memory    *MemoryHandler
	Health    *HealthHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/upload", deps.Documents.Upload)
	api.POST("/query", deps.Query.Query)
	api.POST("/search", deps.Query.Search)
	api.GET("/memory", deps.Memory.History)
	api.POST("/reset", deps.Memory.Reset)
	api.GET("/health", deps.Health.Check)
}
