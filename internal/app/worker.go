package app

import (
	"context"
	"time"

	"github.com/ishiyama1989/koutuhi/internal/config"
	"github.com/ishiyama1989/koutuhi/internal/messaging/kafka"
	"github.com/ishiyama1989/koutuhi/internal/messaging/kafka/producer"
	"github.com/ishiyama1989/koutuhi/internal/shared/connection"

	"go.uber.org/zap"
)

const outboxPollInterval = 3 * time.Second

// startOutboxWorker returns a nil outbox when no broker is configured.
func startOutboxWorker(cfg config.Config) (kafka.OutboxRepository, func(), error) {
	logger := zap.L().Named("app.worker")
	if cfg.KafkaBroker == "" {
		logger.Info("KAFKA_BROKER not set; monthly snapshot events are disabled")
		return nil, func() {}, nil
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
	if err != nil {
		return nil, nil, err
	}

	outboxRepo := kafka.NewMemoryOutbox()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		producer.ProcessOutboxEvents(
			ctx,
			outboxRepo,
			kafkaWriter,
			logger,
			outboxPollInterval,
		)
	}()

	stop := func() {
		logger.Info("worker shutting down")
		cancel()
		<-done
		if err := kafkaWriter.Close(); err != nil {
			logger.Warn("close kafka writer failed", zap.Error(err))
		}
	}
	return outboxRepo, stop, nil
}
