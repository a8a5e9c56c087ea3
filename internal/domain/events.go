package domain

import "context"

// Event is a notification raised by business handlers after they act on a
// webhook.
type Event struct {
	Type    string
	Payload map[string]any
}

type EventBus interface {
	Publish(ctx context.Context, e Event)
}
