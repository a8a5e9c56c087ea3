package webhook_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"webhookservice/internal/domain/event"
	"webhookservice/internal/domain/webhook"
)

func noop(name string) webhook.Handler {
	return webhook.NonBlocking(name, func(context.Context, event.Event) error { return nil })
}

func key(action event.Action) event.Key {
	return event.Key{EntityType: event.EntityArticle, Action: action}
}

func TestBuilder_RegisterAndLookup(t *testing.T) {
	b := webhook.NewBuilder(zap.NewNop())
	require.NoError(t, b.Register(event.EntityArticle, noop("create"), event.ActionCreate))
	require.NoError(t, b.Register(event.EntityArticle, noop("bulk"), event.ActionGarbage, event.ActionArchive))

	reg := b.Build()
	assert.Equal(t, 3, reg.Len())

	h, ok := reg.Lookup(key(event.ActionArchive))
	require.True(t, ok)
	assert.Equal(t, "bulk", h.Name)

	_, ok = reg.Lookup(key(event.ActionRestore))
	assert.False(t, ok)

	assert.Equal(t, []event.Key{
		key(event.ActionArchive),
		key(event.ActionCreate),
		key(event.ActionGarbage),
	}, reg.Keys())
}

func TestBuilder_DuplicateRegistration(t *testing.T) {
	b := webhook.NewBuilder(zap.NewNop())
	require.NoError(t, b.Register(event.EntityArticle, noop("first"), event.ActionCreate))

	err := b.Register(event.EntityArticle, noop("second"), event.ActionCreate)

	var dup *webhook.DuplicateRegistrationError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, key(event.ActionCreate), dup.Key)
	assert.Equal(t, "first", dup.Existing)
	assert.Equal(t, "second", dup.Handler)

	h, _ := b.Build().Lookup(key(event.ActionCreate))
	assert.Equal(t, "first", h.Name, "duplicate must not overwrite")
}

func TestBuilder_DuplicateIsAllOrNothing(t *testing.T) {
	b := webhook.NewBuilder(zap.NewNop())
	require.NoError(t, b.Register(event.EntityArticle, noop("archive"), event.ActionArchive))

	err := b.Register(event.EntityArticle, noop("bulk"), event.ActionGarbage, event.ActionArchive)
	var dup *webhook.DuplicateRegistrationError
	require.True(t, errors.As(err, &dup))

	_, ok := b.Build().Lookup(key(event.ActionGarbage))
	assert.False(t, ok, "garbage must not be bound by a failed registration")
}

func TestBuilder_DuplicateWithinOneCall(t *testing.T) {
	b := webhook.NewBuilder(zap.NewNop())
	err := b.Register(event.EntityArticle, noop("twice"), event.ActionRestore, event.ActionRestore)

	var dup *webhook.DuplicateRegistrationError
	require.True(t, errors.As(err, &dup), "got %v", err)
}

func TestBuilder_InvalidRegistrations(t *testing.T) {
	cases := map[string]struct {
		entityType event.EntityType
		handler    webhook.Handler
		actions    []event.Action
	}{
		"no actions":     {event.EntityArticle, noop("h"), nil},
		"nil func":       {event.EntityArticle, webhook.Blocking("h", nil), []event.Action{event.ActionCreate}},
		"unknown kind":   {event.EntityArticle, webhook.Handler{Name: "h", Kind: 7, Fn: noop("h").Fn}, []event.Action{event.ActionCreate}},
		"unknown action": {event.EntityArticle, noop("h"), []event.Action{"delete"}},
		"unknown entity": {"space", noop("h"), []event.Action{event.ActionCreate}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			b := webhook.NewBuilder(zap.NewNop())
			err := b.Register(tc.entityType, tc.handler, tc.actions...)
			assert.ErrorIs(t, err, webhook.ErrInvalidRegistration)
			assert.Equal(t, 0, b.Build().Len())
		})
	}
}

func TestBuilder_FrozenAfterBuild(t *testing.T) {
	b := webhook.NewBuilder(zap.NewNop())
	require.NoError(t, b.Register(event.EntityArticle, noop("create"), event.ActionCreate))
	reg := b.Build()

	err := b.Register(event.EntityArticle, noop("publish"), event.ActionPublish)
	assert.ErrorIs(t, err, webhook.ErrRegistryFrozen)

	_, ok := reg.Lookup(key(event.ActionPublish))
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}
