package async

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool is shut down")

type Task func(ctx context.Context)

// WorkerPool runs tasks on a fixed number of goroutines. Tasks are handed
// over unbuffered, so callers block until a worker is free.
type WorkerPool struct {
	tasks  chan Task
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
	once   sync.Once
}

func NewWorkerPool(parent context.Context, size int, log *zap.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(parent)
	p := &WorkerPool{
		tasks:  make(chan Task),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.tasks:
			func() {
				defer func() {
					if r := recover(); r != nil {
						p.log.Error("task panicked", zap.Int("worker", id), zap.Any("panic", r))
					}
				}()
				task(p.ctx)
			}()
		}
	}
}

// Submit hands task to a worker without waiting for it to finish. It drops
// the task if the pool is shut down first.
func (p *WorkerPool) Submit(task Task) {
	select {
	case <-p.ctx.Done():
		p.log.Warn("task dropped, pool is shut down")
	case p.tasks <- task:
	}
}

// Run hands fn to a worker and waits until it returns. It gives up only
// while fn is still queued: once a worker has picked fn up, Run waits for
// it regardless of ctx.
func (p *WorkerPool) Run(ctx context.Context, fn func(ctx context.Context)) error {
	done := make(chan struct{})
	task := func(ctx context.Context) {
		defer close(done)
		fn(ctx)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolClosed
	case p.tasks <- task:
	}

	<-done
	return nil
}

// Shutdown stops accepting tasks and waits for running ones to finish.
func (p *WorkerPool) Shutdown() {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}
