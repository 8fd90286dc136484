package app

import (
	"context"
	"fmt"

	"github.com/ishiyama1989/koutuhi/internal/config"
	"github.com/ishiyama1989/koutuhi/internal/kvstore"
	"github.com/ishiyama1989/koutuhi/internal/shared/connection"

	"go.uber.org/zap"
)

const connectRetries = 5

func openStore(ctx context.Context, cfg config.Config) (kvstore.Store, func(), error) {
	log := zap.L().Named("app.store")

	switch cfg.KVDriver {
	case config.DriverMemory:
		log.Warn("using in-memory kv store; data is lost on restart")
		return kvstore.NewMemoryStore(), func() {}, nil

	case config.DriverRedis:
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.NewRedisStore(rdb, cfg.RedisPrefix), func() { _ = rdb.Close() }, nil

	case config.DriverPostgres:
		db, err := connection.ConnectGORMWithRetry(
			cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port, cfg.DB.SSLMode,
			connectRetries,
		)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		store := kvstore.NewGormStore(db)
		if err := store.Migrate(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate kv table: %w", err)
		}
		return store, func() { _ = sqlDB.Close() }, nil

	case config.DriverSQLite:
		store, err := kvstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("sqlite kv store opened", zap.String("path", cfg.SQLitePath))
		return store, func() { _ = store.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown kv driver %q", cfg.KVDriver)
}
