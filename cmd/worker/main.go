package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/phonica/phonica/internal/bootstrap"
	"github.com/phonica/phonica/internal/config"
	queue "github.com/phonica/phonica/internal/infra/queue"
	"github.com/phonica/phonica/internal/infra/storage"
	"github.com/phonica/phonica/internal/jobs/cleanup"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/do"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inj := bootstrap.BuildContainer()

	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := do.MustInvoke[*zap.Logger](inj)
	defer logger.Sync()

	conn := do.MustInvoke[*amqp.Connection](inj)
	store := do.MustInvoke[storage.AssetStore](inj)

	consumer, err := queue.NewConsumer(conn, cfg.RabbitMQ.CleanupQueue, 10, logger, cfg)
	if err != nil {
		logger.Fatal("consumer init failed", zap.Error(err))
	}
	defer consumer.Close()

	worker := cleanup.NewWorker(consumer, store, logger)

	logger.Info("cleanup worker started", zap.String("queue", cfg.RabbitMQ.CleanupQueue))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker stopped", zap.Error(err))
	}
	logger.Info("cleanup worker stopped")
	_ = inj.Shutdown()
}
