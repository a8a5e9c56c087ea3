package event

import "fmt"

// ValidationError reports a payload that does not match any known event
// variant. Field is the JSON name of the offending field when known.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid webhook payload: %s", e.Reason)
	}
	return fmt.Sprintf("invalid webhook payload: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, reason string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: err}
}
