package app

import (
	"context"
	"net/http"

	"github.com/ishiyama1989/koutuhi/internal/config"
	"github.com/ishiyama1989/koutuhi/internal/middleware"
	"github.com/ishiyama1989/koutuhi/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp opens the configured store, starts the outbox worker when a broker
// is set, and registers every module on router. The returned func releases
// what was opened, in reverse order.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")
	var closers []func()
	shutdown := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// 1. Setup Infrastructure
	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	closers = append(closers, closeStore)
	logger.Info("kv store ready", zap.String("driver", cfg.KVDriver))

	outbox, stopWorker, err := startOutboxWorker(cfg)
	if err != nil {
		shutdown()
		return nil, err
	}
	closers = append(closers, stopWorker)

	// 2. Register Modules & Routes
	router.Use(middleware.RequestID(), middleware.AccessLog(zap.L()))
	router.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "kvDriver": cfg.KVDriver}, nil)
	})
	registerModules(router, store, outbox, cfg)

	return shutdown, nil
}
