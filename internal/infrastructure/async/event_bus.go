package async

import (
	"context"

	"go.uber.org/zap"

	"webhookservice/internal/domain"
)

// AsyncEventBus fans domain events out to its own pool. Publish returns as
// soon as a bus worker takes the event, so a publisher waits only while every
// bus worker is busy, never for the subscriber to finish.
type AsyncEventBus struct {
	pool *WorkerPool
	log  *zap.Logger
}

func NewAsyncEventBus(ctx context.Context, poolSize int, log *zap.Logger) *AsyncEventBus {
	return &AsyncEventBus{
		pool: NewWorkerPool(ctx, poolSize, log),
		log:  log.Named("events"),
	}
}

func (b *AsyncEventBus) Publish(ctx context.Context, e domain.Event) {
	b.pool.Submit(func(_ context.Context) {
		b.log.Info("domain_event",
			zap.String("type", e.Type),
			zap.Any("payload", e.Payload),
		)
	})
}

func (b *AsyncEventBus) Close() {
	b.pool.Shutdown()
}
