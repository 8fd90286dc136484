package attendance

import (
	"github.com/ishiyama1989/koutuhi/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type RouteOptions struct {
	MaxUploadBytes int64
	UploadRPS      float64
	UploadBurst    int
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler, logger *zap.Logger, opts RouteOptions) {
	upload := []gin.HandlerFunc{middleware.MaxBodySize(opts.MaxUploadBytes)}
	if opts.UploadRPS > 0 {
		upload = append(upload, middleware.RateLimitByIP(rate.Limit(opts.UploadRPS), opts.UploadBurst))
	}

	imports := r.Group("/imports")
	imports.Use(middleware.ContextLogger(logger))
	imports.Use(upload...)
	{
		imports.POST("/sheets", h.ListSheets)
		imports.POST("/preview", h.Preview)
	}

	previews := r.Group("/previews")
	previews.Use(middleware.ContextLogger(logger))
	{
		previews.GET("/:id", h.Get)
		previews.GET("/:id/people", h.People)
		previews.PATCH("/:id/facts/:index", h.CorrectName)
		previews.POST("/:id/facts/:index/reset", h.ResetName)
		previews.GET("/:id/summary", h.Summary)
		previews.GET("/:id/analysis", h.Analysis)
		previews.GET("/:id/pattern-matches", h.PatternMatches)
		previews.GET("/:id/export.csv", h.ExportCSV)
		previews.GET("/:id/details.csv", h.ExportDetailCSV)
		previews.GET("/:id/export.xlsx", h.ExportXLSX)
		previews.GET("/:id/pattern-matches.csv", h.ExportPatternCSV)
		previews.DELETE("/:id", h.Delete)
	}
}
