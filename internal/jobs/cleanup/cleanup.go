package cleanup

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/phonica/phonica/internal/infra/storage"
	"go.uber.org/zap"
)

// Task asks the worker to delete one stored asset. Reasons are free text for
// the logs: "replaced", "material deleted", "ingestion failed".
type Task struct {
	Path       string    `json:"path"`
	Reason     string    `json:"reason"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// Consumer is the queue surface the worker drains; satisfied by mq.Consumer.
type Consumer interface {
	Handle(ctx context.Context, handler func([]byte) error) error
}

// Worker removes assets whose deletion was deferred by the API: files
// replaced on update, assets of deleted materials, and files orphaned when a
// material insert failed after its audio was already persisted.
type Worker struct {
	consumer Consumer
	store    storage.AssetStore
	log      *zap.Logger
}

func NewWorker(consumer Consumer, store storage.AssetStore, log *zap.Logger) *Worker {
	return &Worker{consumer: consumer, store: store, log: log}
}

func (w *Worker) Run(ctx context.Context) error {
	return w.consumer.Handle(ctx, w.handle)
}

func (w *Worker) handle(body []byte) error {
	var task Task
	if err := sonic.Unmarshal(body, &task); err != nil {
		// Undecodable tasks would requeue forever; log and drop.
		w.log.Error("malformed cleanup task", zap.Error(err), zap.ByteString("body", body))
		return nil
	}

	if err := w.store.Remove(context.Background(), task.Path); err != nil {
		w.log.Error("asset removal failed",
			zap.String("path", task.Path),
			zap.String("reason", task.Reason),
			zap.Error(err))
		return err
	}

	w.log.Info("asset removed",
		zap.String("path", task.Path),
		zap.String("reason", task.Reason))
	return nil
}
