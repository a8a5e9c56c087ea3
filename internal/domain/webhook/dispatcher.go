package webhook

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"webhookservice/internal/domain/event"
)

type Service interface {
	// Dispatch classifies payload and runs the handler bound to its key.
	// The routed event is returned whenever classification succeeded.
	Dispatch(ctx context.Context, payload []byte) (event.Event, error)
}

// Executor runs fn on a worker and waits for it to return. An error means
// fn was never started.
type Executor interface {
	Run(ctx context.Context, fn func(ctx context.Context)) error
}

type dispatcher struct {
	registry *Registry
	exec     Executor
	log      *zap.Logger
}

func NewService(registry *Registry, exec Executor, log *zap.Logger) Service {
	return &dispatcher{
		registry: registry,
		exec:     exec,
		log:      log,
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, payload []byte) (event.Event, error) {
	ev, err := event.Classify(payload)
	if err != nil {
		return nil, err
	}

	key := ev.Key()
	h, ok := d.registry.Lookup(key)
	if !ok {
		return ev, &UnhandledEventError{Key: key}
	}

	if err := d.invoke(ctx, h, ev); err != nil {
		var herr *HandlerError
		if !errors.As(err, &herr) {
			return ev, err
		}
		d.log.Error("webhook handler failed",
			zap.Stringer("key", key),
			zap.String("handler", h.Name),
			zap.Stringers("entity_ids", ev.EntityIDs()),
			zap.Stringer("container_id", ev.ContainerID()),
			zap.Error(err),
		)
		return ev, err
	}

	return ev, nil
}

func (d *dispatcher) invoke(ctx context.Context, h Handler, ev event.Event) error {
	if h.Kind != KindBlocking {
		return wrapHandlerErr(h, ev, call(ctx, h, ev))
	}

	// The handler runs to completion even if the request goes away.
	detached := context.WithoutCancel(ctx)
	var herr error
	if err := d.exec.Run(ctx, func(context.Context) {
		herr = call(detached, h, ev)
	}); err != nil {
		return fmt.Errorf("schedule handler %s for %s: %w", h.Name, ev.Key(), err)
	}
	return wrapHandlerErr(h, ev, herr)
}

func call(ctx context.Context, h Handler, ev event.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Fn(ctx, ev)
}

func wrapHandlerErr(h Handler, ev event.Event, err error) error {
	if err == nil {
		return nil
	}
	return &HandlerError{
		Key:       ev.Key(),
		Handler:   h.Name,
		EntityIDs: ev.EntityIDs(),
		Err:       err,
	}
}
