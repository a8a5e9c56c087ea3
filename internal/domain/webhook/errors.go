package webhook

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"webhookservice/internal/domain/event"
)

var (
	ErrRegistryFrozen      = errors.New("handler registry is frozen")
	ErrInvalidRegistration = errors.New("invalid handler registration")
)

// DuplicateRegistrationError is a startup configuration error: two handlers
// claimed the same key.
type DuplicateRegistrationError struct {
	Key      event.Key
	Existing string
	Handler  string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("handler already registered for %s: %s (while registering %s)", e.Key, e.Existing, e.Handler)
}

// UnhandledEventError means the payload was a valid event but nothing is
// bound to its key.
type UnhandledEventError struct {
	Key event.Key
}

func (e *UnhandledEventError) Error() string {
	return fmt.Sprintf("no handler registered for %s", e.Key)
}

// HandlerError wraps whatever the resolved handler returned or panicked with.
type HandlerError struct {
	Key       event.Key
	Handler   string
	EntityIDs []uuid.UUID
	Err       error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s failed for %s: %v", e.Handler, e.Key, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Outcome classifies a Dispatch error for metrics and traces.
func Outcome(err error) string {
	var (
		ve *event.ValidationError
		ue *UnhandledEventError
		he *HandlerError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &ve):
		return "invalid"
	case errors.As(err, &ue):
		return "unhandled"
	case errors.As(err, &he):
		return "handler_error"
	default:
		return "error"
	}
}
