package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

type decoder func(data []byte) (Event, error)

// variants maps every discriminator value to the shape it must satisfy.
var variants = map[Key]decoder{
	{EntityArticle, ActionCreate}:    variant[ArticleCreateEvent],
	{EntityArticle, ActionPublish}:   variant[ArticlePublishEvent],
	{EntityArticle, ActionGarbage}:   variant[ArticleStatusChangeEvent],
	{EntityArticle, ActionRestore}:   variant[ArticleStatusChangeEvent],
	{EntityArticle, ActionArchive}:   variant[ArticleStatusChangeEvent],
	{EntityArticle, ActionUnarchive}: variant[ArticleStatusChangeEvent],
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Classify decodes a raw webhook body into exactly one event variant.
// It never returns a partially populated event: any mismatch yields a
// *ValidationError.
func Classify(payload []byte) (Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, invalid("", "payload must be a JSON object", err)
	}

	action, err := stringField[Action](fields, "action")
	if err != nil {
		return nil, err
	}
	entityType, err := stringField[EntityType](fields, "entityType")
	if err != nil {
		return nil, err
	}

	key := Key{EntityType: entityType, Action: action}
	decode, ok := variants[key]
	if !ok {
		if !slices.Contains(Actions(), action) {
			return nil, invalid("action", fmt.Sprintf("unknown action %q", action), nil)
		}
		return nil, invalid("entityType", fmt.Sprintf("unsupported entity type %q", entityType), nil)
	}

	ev, err := decode(payload)
	if err != nil {
		return nil, err
	}
	// encoding/json matches keys case-insensitively, so "Action" or
	// "ENTITYTYPE" may have overwritten the routed discriminator.
	if got := ev.Key(); got != key {
		field := "action"
		if got.Action == key.Action {
			field = "entityType"
		}
		return nil, invalid(field, "conflicting values for discriminator field", nil)
	}
	return ev, nil
}

// Known reports whether the schema can ever produce an event with key.
func Known(key Key) bool {
	_, ok := variants[key]
	return ok
}

// Actions lists every action the schema understands, in declaration order.
func Actions() []Action {
	return []Action{
		ActionCreate,
		ActionPublish,
		ActionGarbage,
		ActionRestore,
		ActionArchive,
		ActionUnarchive,
	}
}

func stringField[T ~string](fields map[string]json.RawMessage, name string) (T, error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return "", invalid(name, "field required", nil)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", invalid(name, "must be a string", err)
	}
	if s == "" {
		return "", invalid(name, "field required", nil)
	}
	return T(s), nil
}

func variant[T Event](data []byte) (Event, error) {
	var ev T
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, decodeError(err)
	}
	if err := validate.Struct(ev); err != nil {
		return nil, validationError(err)
	}
	return ev, nil
}

func decodeError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return invalid(typeErr.Field, fmt.Sprintf("must be %s, got %s", jsonKind(typeErr.Type), typeErr.Value), err)
	}
	return invalid("", fmt.Sprintf("malformed payload: %v", err), err)
}

func validationError(err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("", err.Error(), err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return invalid(fe.Field(), "field required", err)
	case "min":
		return invalid(fe.Field(), "must contain at least "+fe.Param()+" item(s)", err)
	default:
		return invalid(fe.Field(), "failed "+fe.Tag()+" check", err)
	}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Slice:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	case reflect.Array, reflect.String:
		return "a string"
	default:
		return t.Kind().String()
	}
}
