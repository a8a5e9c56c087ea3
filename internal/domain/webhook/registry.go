package webhook

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"webhookservice/internal/domain/event"
)

// Builder collects handler bindings during startup. Build freezes it into a
// Registry; the builder rejects registrations afterwards.
type Builder struct {
	entries map[event.Key]Handler
	frozen  bool
	log     *zap.Logger
}

func NewBuilder(log *zap.Logger) *Builder {
	return &Builder{
		entries: make(map[event.Key]Handler),
		log:     log,
	}
}

// Register binds h to every (entityType, action) pair. Either all keys are
// bound or none are.
func (b *Builder) Register(entityType event.EntityType, h Handler, actions ...event.Action) error {
	if b.frozen {
		return ErrRegistryFrozen
	}
	if len(actions) == 0 {
		return fmt.Errorf("%w: %s needs at least one action", ErrInvalidRegistration, h.Name)
	}
	if h.Fn == nil {
		return fmt.Errorf("%w: %s has no handler func", ErrInvalidRegistration, h.Name)
	}
	if h.Kind != KindNonBlocking && h.Kind != KindBlocking {
		return fmt.Errorf("%w: %s has unknown kind %s", ErrInvalidRegistration, h.Name, h.Kind)
	}

	keys := make([]event.Key, 0, len(actions))
	for _, action := range actions {
		key := event.Key{EntityType: entityType, Action: action}
		if !event.Known(key) {
			return fmt.Errorf("%w: %s: no event variant for %s", ErrInvalidRegistration, h.Name, key)
		}
		if existing, ok := b.entries[key]; ok {
			return &DuplicateRegistrationError{Key: key, Existing: existing.Name, Handler: h.Name}
		}
		if slices.Contains(keys, key) {
			return &DuplicateRegistrationError{Key: key, Existing: h.Name, Handler: h.Name}
		}
		keys = append(keys, key)
	}

	for _, key := range keys {
		b.entries[key] = h
		b.log.Debug("registered handler",
			zap.Stringer("key", key),
			zap.String("handler", h.Name),
			zap.Stringer("kind", h.Kind),
		)
	}
	return nil
}

// Build returns the immutable routing table.
func (b *Builder) Build() *Registry {
	b.frozen = true

	entries := make(map[event.Key]Handler, len(b.entries))
	for k, h := range b.entries {
		entries[k] = h
	}
	return &Registry{entries: entries}
}

// Registry is read-only after construction and safe for concurrent use
// without locking.
type Registry struct {
	entries map[event.Key]Handler
}

func (r *Registry) Lookup(key event.Key) (Handler, bool) {
	h, ok := r.entries[key]
	return h, ok
}

// Keys returns the bound keys ordered by entity type, then action.
func (r *Registry) Keys() []event.Key {
	keys := make([]event.Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b event.Key) int {
		if c := cmp.Compare(a.EntityType, b.EntityType); c != 0 {
			return c
		}
		return cmp.Compare(a.Action, b.Action)
	})
	return keys
}

func (r *Registry) Len() int {
	return len(r.entries)
}
