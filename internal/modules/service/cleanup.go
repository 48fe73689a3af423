package service

import (
	"context"
	"time"

	"github.com/phonica/phonica/internal/config"
	mq "github.com/phonica/phonica/internal/infra/queue"
	"github.com/phonica/phonica/internal/jobs/cleanup"
	"go.uber.org/zap"
)

// AssetCleanup defers physical file deletion to the cleanup worker. The API
// never unlinks a permanent asset inline.
type AssetCleanup interface {
	Enqueue(ctx context.Context, path string, reason string) error
}

type mqAssetCleanup struct {
	pub   *mq.Publisher
	queue string
	log   *zap.Logger
}

func NewAssetCleanup(pub *mq.Publisher, cfg *config.Config, log *zap.Logger) AssetCleanup {
	return &mqAssetCleanup{pub: pub, queue: cfg.RabbitMQ.CleanupQueue, log: log}
}

func (c *mqAssetCleanup) Enqueue(ctx context.Context, path string, reason string) error {
	task := cleanup.Task{Path: path, Reason: reason, EnqueuedAt: time.Now().UTC()}
	if err := c.pub.PublishJSON(ctx, "", c.queue, task); err != nil {
		// Best effort: a lost task means one stray file, not a broken request.
		c.log.Error("cleanup enqueue failed",
			zap.String("path", path),
			zap.String("reason", reason),
			zap.Error(err))
		return err
	}
	return nil
}
