package webhook

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"webhookservice/internal/domain/event"
)

// TracedService wraps a Service with a span per dispatch.
// Layer order: TracedService -> MetricsService -> dispatcher.
type TracedService struct {
	next   Service
	tracer trace.Tracer
}

func NewTracedService(next Service, tracer trace.Tracer) Service {
	return &TracedService{
		next:   next,
		tracer: tracer,
	}
}

func (s *TracedService) Dispatch(ctx context.Context, payload []byte) (event.Event, error) {
	ctx, span := s.tracer.Start(ctx, "webhook.dispatch",
		trace.WithAttributes(attribute.Int("webhook.payload_bytes", len(payload))),
	)
	defer span.End()

	ev, err := s.next.Dispatch(ctx, payload)

	if ev != nil {
		key := ev.Key()
		span.SetAttributes(
			attribute.String("webhook.entity_type", string(key.EntityType)),
			attribute.String("webhook.action", string(key.Action)),
			attribute.Int("webhook.entity_count", len(ev.EntityIDs())),
		)
	}
	span.SetAttributes(attribute.String("webhook.outcome", Outcome(err)))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.type", fmt.Sprintf("%T", err)))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return ev, err
}
