package event

import (
	"slices"

	"github.com/google/uuid"
)

type EntityType string

const EntityArticle EntityType = "article"

type Action string

const (
	ActionCreate    Action = "create"
	ActionPublish   Action = "publish"
	ActionGarbage   Action = "garbage"
	ActionRestore   Action = "restore"
	ActionArchive   Action = "archive"
	ActionUnarchive Action = "unarchive"
)

// Key identifies the handler slot an event is routed to.
type Key struct {
	EntityType EntityType
	Action     Action
}

func (k Key) String() string {
	return string(k.EntityType) + "." + string(k.Action)
}

// Event is a validated webhook notification. The concrete type is one of
// the variants below and is selected by the payload's action.
type Event interface {
	Key() Key
	EntityIDs() []uuid.UUID
	ContainerID() uuid.UUID

	sealed()
}

type Envelope struct {
	EntityType EntityType `json:"entityType" validate:"required"`
	Action     Action     `json:"action" validate:"required"`
}

func (e Envelope) Key() Key {
	return Key{EntityType: e.EntityType, Action: e.Action}
}

type Content struct {
	ContainerID uuid.UUID `json:"containerId" validate:"required"`
}

// Single is the shape shared by events about exactly one entity.
type Single struct {
	Envelope
	EntityID uuid.UUID `json:"entityId" validate:"required"`
	Content  Content   `json:"content"`
}

func (s Single) EntityIDs() []uuid.UUID { return []uuid.UUID{s.EntityID} }
func (s Single) ContainerID() uuid.UUID { return s.Content.ContainerID }
func (Single) sealed()                  {}

// Bulk is the shape shared by events that touch several entities at once.
type Bulk struct {
	Envelope
	IDs     []uuid.UUID `json:"entityIds" validate:"required,min=1,dive,required"`
	Content Content     `json:"content"`
}

func (b Bulk) EntityIDs() []uuid.UUID { return slices.Clone(b.IDs) }
func (b Bulk) ContainerID() uuid.UUID { return b.Content.ContainerID }
func (Bulk) sealed()                  {}

type ArticleCreateEvent struct{ Single }

type ArticlePublishEvent struct{ Single }

// ArticleStatusChangeEvent covers garbage, restore, archive and unarchive.
type ArticleStatusChangeEvent struct{ Bulk }
