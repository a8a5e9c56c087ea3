package webhook

import (
	"context"
	"fmt"

	"webhookservice/internal/domain/event"
)

// Kind tells the dispatcher where a handler must run.
type Kind int

const (
	// KindNonBlocking handlers run on the request goroutine.
	KindNonBlocking Kind = iota
	// KindBlocking handlers run on the bounded worker pool.
	KindBlocking
)

func (k Kind) String() string {
	switch k {
	case KindNonBlocking:
		return "non_blocking"
	case KindBlocking:
		return "blocking"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type HandlerFunc func(ctx context.Context, ev event.Event) error

type Handler struct {
	Name string
	Kind Kind
	Fn   HandlerFunc
}

func NonBlocking(name string, fn HandlerFunc) Handler {
	return Handler{Name: name, Kind: KindNonBlocking, Fn: fn}
}

// Blocking marks fn as doing blocking I/O or CPU work. It is always executed
// on the worker pool, never on the caller's goroutine.
func Blocking(name string, fn HandlerFunc) Handler {
	return Handler{Name: name, Kind: KindBlocking, Fn: fn}
}

// Typed adapts a function over one concrete event variant.
func Typed[T event.Event](fn func(ctx context.Context, ev T) error) HandlerFunc {
	return func(ctx context.Context, ev event.Event) error {
		typed, ok := ev.(T)
		if !ok {
			var want T
			return fmt.Errorf("handler expects %T, got %T", want, ev)
		}
		return fn(ctx, typed)
	}
}
