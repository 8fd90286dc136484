package producer

import (
	"context"
	"time"

	"github.com/ishiyama1989/koutuhi/internal/messaging/kafka"

	"go.uber.org/zap"
)

const (
	batchSize    = 50
	flushTimeout = 5 * time.Second
)

// ProcessOutboxEvents drains the outbox into writer every pollInterval until
// ctx is cancelled, then makes one last pass bounded by flushTimeout.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("kafka.producer.worker")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			if _, err := processPendingEvents(flushCtx, repo, writer, log); err != nil {
				log.Warn("final outbox flush failed", zap.Error(err))
			}
			cancel()
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := processPendingEvents(ctx, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

type batchResult struct {
	Sent   int
	Failed int
}

func processPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (batchResult, error) {
	var res batchResult
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil || len(events) == 0 {
		return res, err
	}

	for _, event := range events {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
			zap.Int("retry", event.RetryCount),
		}

		if err := publishEvent(ctx, writer, event); err != nil {
			res.Failed++
			logger.Error("publish outbox event failed", append(fields, zap.Error(err))...)
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				logger.Warn("mark outbox failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
			continue
		}
		res.Sent++
		logger.Debug("outbox event sent", fields...)
	}

	logger.Info("outbox batch processed",
		zap.Int("pending", len(events)),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
