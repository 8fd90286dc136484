package registry

import (
	"github.com/ishiyama1989/koutuhi/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	people := r.Group("/people")
	people.Use(middleware.ContextLogger(logger))
	{
		people.GET("", handler.ListPeople)
		people.GET("/:id", handler.GetPerson)
		people.POST("", handler.CreatePerson)
		people.PUT("/:id", handler.UpdatePerson)
		people.DELETE("/:id", handler.DeletePerson)
	}

	patterns := r.Group("/patterns")
	patterns.Use(middleware.ContextLogger(logger))
	{
		patterns.GET("", handler.ListPatterns)
		patterns.GET("/:id", handler.GetPattern)
		patterns.POST("", handler.CreatePattern)
		patterns.PUT("/:id", handler.UpdatePattern)
		patterns.DELETE("/:id", handler.DeletePattern)
	}

	settings := r.Group("/settings")
	settings.Use(middleware.ContextLogger(logger))
	{
		settings.GET("", handler.GetSettings)
		settings.PUT("", handler.UpdateSettings)
	}

	data := r.Group("/registry")
	data.Use(middleware.ContextLogger(logger))
	{
		data.GET("/export", handler.Export)
		data.POST("/import",
			middleware.RateLimitByIP(1, 5),
			handler.Import,
		)
		data.DELETE("", middleware.RateLimitByIP(0.2, 1), handler.Clear)
	}
}
