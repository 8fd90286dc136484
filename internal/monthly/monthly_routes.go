package monthly

import (
	"github.com/ishiyama1989/koutuhi/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	months := r.Group("/months")
	months.Use(middleware.ContextLogger(logger))
	{
		months.POST("", handler.Save)
		months.GET("", handler.List)
		months.GET("/:month", handler.Get)
		months.DELETE("/:month", handler.Delete)
	}
}
