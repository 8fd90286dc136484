package app

import (
	"github.com/ishiyama1989/koutuhi/internal/attendance"
	"github.com/ishiyama1989/koutuhi/internal/config"
	"github.com/ishiyama1989/koutuhi/internal/dateresolve"
	"github.com/ishiyama1989/koutuhi/internal/kvstore"
	"github.com/ishiyama1989/koutuhi/internal/messaging/kafka"
	"github.com/ishiyama1989/koutuhi/internal/monthly"
	"github.com/ishiyama1989/koutuhi/internal/registry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(
	router *gin.Engine,
	store kvstore.Store,
	outbox kafka.OutboxRepository,
	cfg config.Config,
) {
	logger := zap.L()

	// --- Repositories ---
	registryRepo := registry.NewRepository(store)
	previewRepo := attendance.NewMemoryRepository(cfg.PreviewTTL, cfg.MaxPreviews)
	monthlyRepo := monthly.NewRepository(store)

	// --- Services ---
	registryService := registry.NewService(registryRepo)
	attendanceService := attendance.NewService(registryService, previewRepo, dateresolve.New())
	monthlyService := monthly.NewService(monthlyRepo, attendanceService, outbox)

	// --- Handlers ---
	registryHandler := registry.NewHandler(registryService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	monthlyHandler := monthly.NewHandler(monthlyService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		registry.RegisterRoutes(api, registryHandler, logger)
		attendance.RegisterRoutes(api, attendanceHandler, logger, attendance.RouteOptions{
			MaxUploadBytes: cfg.MaxUploadBytes,
			UploadRPS:      cfg.RateLimitRPS,
			UploadBurst:    cfg.RateLimitBurst,
		})
		monthly.RegisterRoutes(api, monthlyHandler, logger)
	}
}
