package webhook

import (
	"context"
	"time"

	"webhookservice/internal/domain/event"
)

// Recorder receives one observation per Dispatch call.
type Recorder interface {
	RecordDispatch(entityType, action, outcome string, duration time.Duration)
}

// MetricsService wraps a Service with dispatch metrics.
type MetricsService struct {
	next     Service
	recorder Recorder
}

func NewMetricsService(next Service, recorder Recorder) Service {
	return &MetricsService{
		next:     next,
		recorder: recorder,
	}
}

func (s *MetricsService) Dispatch(ctx context.Context, payload []byte) (event.Event, error) {
	start := time.Now()

	ev, err := s.next.Dispatch(ctx, payload)

	entityType, action := "unknown", "unknown"
	if ev != nil {
		key := ev.Key()
		entityType, action = string(key.EntityType), string(key.Action)
	}
	s.recorder.RecordDispatch(entityType, action, Outcome(err), time.Since(start))

	return ev, err
}
