package article

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"webhookservice/internal/domain"
	"webhookservice/internal/domain/event"
)

// Service holds the business reaction to article webhooks. Today each
// reaction logs the change and raises a domain event for downstream
// subscribers.
type Service interface {
	Create(ctx context.Context, ev event.ArticleCreateEvent) error
	Publish(ctx context.Context, ev event.ArticlePublishEvent) error
	RemoveOrArchive(ctx context.Context, ev event.ArticleStatusChangeEvent) error
	Restore(ctx context.Context, ev event.ArticleStatusChangeEvent) error
	Unarchive(ctx context.Context, ev event.ArticleStatusChangeEvent) error
}

type service struct {
	events domain.EventBus
	log    *zap.Logger
}

func NewService(events domain.EventBus, log *zap.Logger) Service {
	return &service{
		events: events,
		log:    log.Named("article"),
	}
}

func (s *service) Create(ctx context.Context, ev event.ArticleCreateEvent) error {
	s.log.Info("article created",
		zap.Stringer("entity_id", ev.EntityID),
		zap.Stringer("container_id", ev.ContainerID()),
	)
	s.publish(ctx, "article.created", ev)
	return nil
}

func (s *service) Publish(ctx context.Context, ev event.ArticlePublishEvent) error {
	s.log.Info("article published",
		zap.Stringer("entity_id", ev.EntityID),
		zap.Stringer("container_id", ev.ContainerID()),
	)
	s.publish(ctx, "article.published", ev)
	return nil
}

// RemoveOrArchive serves both garbage and archive, which differ only in the
// action carried by the event.
func (s *service) RemoveOrArchive(ctx context.Context, ev event.ArticleStatusChangeEvent) error {
	s.statusChanged(ctx, ev)
	return nil
}

func (s *service) Restore(ctx context.Context, ev event.ArticleStatusChangeEvent) error {
	s.statusChanged(ctx, ev)
	return nil
}

func (s *service) Unarchive(ctx context.Context, ev event.ArticleStatusChangeEvent) error {
	s.statusChanged(ctx, ev)
	return nil
}

func (s *service) statusChanged(ctx context.Context, ev event.ArticleStatusChangeEvent) {
	s.log.Info("article status changed",
		zap.String("action", string(ev.Action)),
		zap.Stringers("entity_ids", ev.EntityIDs()),
		zap.Stringer("container_id", ev.ContainerID()),
	)
	s.publish(ctx, "article."+string(ev.Action), ev)
}

func (s *service) publish(ctx context.Context, typ string, ev event.Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, domain.Event{
		Type: typ,
		Payload: map[string]any{
			"entity_ids":   idStrings(ev.EntityIDs()),
			"container_id": ev.ContainerID().String(),
		},
	})
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
