package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
)

// structEngine is shared across all StructValidators: go-playground's
// validator is safe for concurrent use once its struct-level caches are
// warm, and constructing it registers the JSON-tag name function once.
var structEngine = newStructEngine()

func newStructEngine() *playgroundvalidator.Validate {
	v := playgroundvalidator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// StructValidator validates already-typed Go struct payloads using
// `validate:"..."` struct tags, reporting failures as Issues keyed by their
// JSON field name rather than the go-playground field-error vocabulary.
type StructValidator[T any] struct{}

// NewStructValidator returns a Validator backed by go-playground/validator
// for payloads of type T.
func NewStructValidator[T any]() *StructValidator[T] {
	return &StructValidator[T]{}
}

func (s *StructValidator[T]) Validate(value any) Result {
	typed, ok := asT[T](value)
	if !ok {
		return Result{OK: false, Issues: []Issue{{
			Code:    "invalid_type",
			Message: fmt.Sprintf("expected %T, received %T", *new(T), value),
		}}}
	}

	err := structEngine.Struct(typed)
	if err == nil {
		return Result{OK: true, Value: typed}
	}

	var fieldErrors playgroundvalidator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return Result{OK: false, Issues: []Issue{{Code: "invalid", Message: err.Error()}}}
	}

	issues := make([]Issue, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		issues = append(issues, Issue{
			Path:     strings.Split(fe.Namespace(), "."),
			Code:     fe.Tag(),
			Expected: fe.Param(),
			Received: fmt.Sprintf("%v", fe.Value()),
			Message:  friendlyMessage(fe),
		})
	}
	return Result{OK: false, Issues: issues}
}

func asT[T any](value any) (T, bool) {
	if typed, ok := value.(T); ok {
		return typed, true
	}
	if ptr, ok := value.(*T); ok && ptr != nil {
		return *ptr, true
	}
	var zero T
	return zero, false
}

func friendlyMessage(fe playgroundvalidator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "uri":
		return fmt.Sprintf("%s must be a valid URI", fe.Field())
	default:
		return fmt.Sprintf("%s failed validation %q", fe.Field(), fe.Tag())
	}
}
