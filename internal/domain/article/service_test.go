package article_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"webhookservice/internal/domain"
	"webhookservice/internal/domain/article"
	"webhookservice/internal/domain/event"
	"webhookservice/internal/domain/webhook"
)

type eventBusFake struct{ events []domain.Event }

func (e *eventBusFake) Publish(ctx context.Context, ev domain.Event) { e.events = append(e.events, ev) }

type inlineExecutor struct{}

func (inlineExecutor) Run(ctx context.Context, fn func(ctx context.Context)) error {
	fn(ctx)
	return nil
}

func statusChange(action event.Action, ids ...uuid.UUID) event.ArticleStatusChangeEvent {
	return event.ArticleStatusChangeEvent{Bulk: event.Bulk{
		Envelope: event.Envelope{EntityType: event.EntityArticle, Action: action},
		IDs:      ids,
		Content:  event.Content{ContainerID: uuid.New()},
	}}
}

func TestService_Create(t *testing.T) {
	bus := &eventBusFake{}
	svc := article.NewService(bus, zap.NewNop())

	id := uuid.New()
	ev := event.ArticleCreateEvent{Single: event.Single{
		Envelope: event.Envelope{EntityType: event.EntityArticle, Action: event.ActionCreate},
		EntityID: id,
		Content:  event.Content{ContainerID: uuid.New()},
	}}
	if err := svc.Create(context.Background(), ev); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(bus.events) != 1 || bus.events[0].Type != "article.created" {
		t.Fatalf("expected article.created event, got %+v", bus.events)
	}
	ids, _ := bus.events[0].Payload["entity_ids"].([]string)
	if len(ids) != 1 || ids[0] != id.String() {
		t.Fatalf("unexpected entity ids %v", bus.events[0].Payload["entity_ids"])
	}
}

func TestService_StatusChangeEventTypes(t *testing.T) {
	bus := &eventBusFake{}
	svc := article.NewService(bus, zap.NewNop())
	ctx := context.Background()

	if err := svc.RemoveOrArchive(ctx, statusChange(event.ActionGarbage, uuid.New(), uuid.New())); err != nil {
		t.Fatalf("RemoveOrArchive: %v", err)
	}
	if err := svc.RemoveOrArchive(ctx, statusChange(event.ActionArchive, uuid.New())); err != nil {
		t.Fatalf("RemoveOrArchive: %v", err)
	}
	if err := svc.Restore(ctx, statusChange(event.ActionRestore, uuid.New())); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if err := svc.Unarchive(ctx, statusChange(event.ActionUnarchive, uuid.New())); err != nil {
		t.Fatalf("Unarchive: %v", err)
	}

	want := []string{"article.garbage", "article.archive", "article.restore", "article.unarchive"}
	if len(bus.events) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), bus.events)
	}
	for i, typ := range want {
		if bus.events[i].Type != typ {
			t.Fatalf("event %d: got %s, want %s", i, bus.events[i].Type, typ)
		}
	}
}

func TestService_NilEventBus(t *testing.T) {
	svc := article.NewService(nil, zap.NewNop())
	if err := svc.Restore(context.Background(), statusChange(event.ActionRestore, uuid.New())); err != nil {
		t.Fatalf("Restore: %v", err)
	}
}

func TestRegister_BindsAllActions(t *testing.T) {
	b := webhook.NewBuilder(zap.NewNop())
	if err := article.Register(b, article.NewService(nil, zap.NewNop())); err != nil {
		t.Fatalf("Register: %v", err)
	}
	reg := b.Build()

	if reg.Len() != len(event.Actions()) {
		t.Fatalf("expected %d bindings, got %d", len(event.Actions()), reg.Len())
	}

	wantKind := map[event.Action]webhook.Kind{
		event.ActionCreate:    webhook.KindNonBlocking,
		event.ActionPublish:   webhook.KindNonBlocking,
		event.ActionGarbage:   webhook.KindBlocking,
		event.ActionArchive:   webhook.KindBlocking,
		event.ActionRestore:   webhook.KindBlocking,
		event.ActionUnarchive: webhook.KindBlocking,
	}
	for action, kind := range wantKind {
		h, ok := reg.Lookup(event.Key{EntityType: event.EntityArticle, Action: action})
		if !ok {
			t.Fatalf("no handler for %s", action)
		}
		if h.Kind != kind {
			t.Fatalf("%s: kind %s, want %s", action, h.Kind, kind)
		}
	}

	garbage, _ := reg.Lookup(event.Key{EntityType: event.EntityArticle, Action: event.ActionGarbage})
	archive, _ := reg.Lookup(event.Key{EntityType: event.EntityArticle, Action: event.ActionArchive})
	if garbage.Name != archive.Name {
		t.Fatalf("garbage and archive must share a handler, got %s and %s", garbage.Name, archive.Name)
	}
}

func TestRegister_Twice(t *testing.T) {
	b := webhook.NewBuilder(zap.NewNop())
	svc := article.NewService(nil, zap.NewNop())
	if err := article.Register(b, svc); err != nil {
		t.Fatalf("Register: %v", err)
	}

	err := article.Register(b, svc)
	var dup *webhook.DuplicateRegistrationError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRegistrationError, got %v", err)
	}
}

func TestRegister_DispatchGarbage(t *testing.T) {
	bus := &eventBusFake{}
	b := webhook.NewBuilder(zap.NewNop())
	if err := article.Register(b, article.NewService(bus, zap.NewNop())); err != nil {
		t.Fatalf("Register: %v", err)
	}
	d := webhook.NewService(b.Build(), inlineExecutor{}, zap.NewNop())

	id1, id2 := uuid.New(), uuid.New()
	body := []byte(`{"entityType":"article","action":"garbage","entityIds":["` + id1.String() + `","` + id2.String() + `"],"content":{"containerId":"` + uuid.NewString() + `"}}`)
	if _, err := d.Dispatch(context.Background(), body); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(bus.events) != 1 || bus.events[0].Type != "article.garbage" {
		t.Fatalf("expected article.garbage event, got %+v", bus.events)
	}
	ids, _ := bus.events[0].Payload["entity_ids"].([]string)
	if len(ids) != 2 || ids[0] != id1.String() || ids[1] != id2.String() {
		t.Fatalf("unexpected ids %v", ids)
	}
}
