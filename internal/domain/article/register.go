package article

import (
	"webhookservice/internal/domain/event"
	"webhookservice/internal/domain/webhook"
)

// Register binds every article action to svc. Status changes go to the
// worker pool since downstream work for bulk events is the slow path.
func Register(b *webhook.Builder, svc Service) error {
	bindings := []struct {
		handler webhook.Handler
		actions []event.Action
	}{
		{
			handler: webhook.NonBlocking("article.create", webhook.Typed(svc.Create)),
			actions: []event.Action{event.ActionCreate},
		},
		{
			handler: webhook.NonBlocking("article.publish", webhook.Typed(svc.Publish)),
			actions: []event.Action{event.ActionPublish},
		},
		{
			handler: webhook.Blocking("article.remove_or_archive", webhook.Typed(svc.RemoveOrArchive)),
			actions: []event.Action{event.ActionGarbage, event.ActionArchive},
		},
		{
			handler: webhook.Blocking("article.restore", webhook.Typed(svc.Restore)),
			actions: []event.Action{event.ActionRestore},
		},
		{
			handler: webhook.Blocking("article.unarchive", webhook.Typed(svc.Unarchive)),
			actions: []event.Action{event.ActionUnarchive},
		},
	}

	for _, bnd := range bindings {
		if err := b.Register(event.EntityArticle, bnd.handler, bnd.actions...); err != nil {
			return err
		}
	}
	return nil
}
