// Package validate defines the schema-validator capability the router
// depends on and ships two independent backends: a hand-written,
// JSON-shape-aware ObjectSchema for validating the loosely-typed `data`
// payload of commands, queries, and events, and a StructValidator backed by
// go-playground/validator for validating already-typed Go payloads.
package validate

import "fmt"

// Issue describes a single validation failure in the vocabulary the router
// and error taxonomy expect: a path into the value, a machine-readable code,
// a human message, and, for type mismatches, the expected and received
// shapes.
type Issue struct {
	Path     []string
	Code     string
	Message  string
	Expected string
	Received string
}

// Result is what a Validator returns: either OK with the (possibly
// coerced) value, or a non-empty Issues list.
type Result struct {
	OK     bool
	Value  any
	Issues []Issue
}

// Validator is the capability the router depends on. It deliberately does
// not return an error — validation failure is data (a Result), not a
// control-flow exception; the router decides how to turn a failing Result
// into a taxonomy error.
type Validator interface {
	Validate(value any) Result
}

// Func adapts a plain function to the Validator interface.
type Func func(value any) Result

func (f Func) Validate(value any) Result { return f(value) }

// typeNameOf returns the JSON-schema-style type name of a decoded JSON
// value, matching the vocabulary ObjectSchema issues use for Expected and
// Received ("string", "number", "boolean", "object", "array", "null").
func typeNameOf(v any) string {
	switch vv := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", vv)
	}
}
