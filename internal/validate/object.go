package validate

import "fmt"

// Type is a JSON-schema-style primitive type name.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Field describes the expected shape of one value: a primitive type, or,
// for TypeObject/TypeArray, the nested shape.
type Field struct {
	Type       Type
	Required   []string // for TypeObject: property names that must be present
	Properties map[string]*Field
	Items      *Field // for TypeArray: schema every element must satisfy
}

func String() *Field  { return &Field{Type: TypeString} }
func Number() *Field  { return &Field{Type: TypeNumber} }
func Boolean() *Field { return &Field{Type: TypeBoolean} }

func ArrayOf(item *Field) *Field { return &Field{Type: TypeArray, Items: item} }

func NestedObject(properties map[string]*Field, required ...string) *Field {
	return &Field{Type: TypeObject, Properties: properties, Required: required}
}

// ObjectSchema validates a decoded JSON value (as produced by
// jsoncodec.Unmarshal into `any`) against a declared object shape. It
// operates in non-strict mode: properties absent from Properties are left
// untouched rather than rejected, matching the wire-format requirement that
// unknown fields survive validation.
type ObjectSchema struct {
	Properties map[string]*Field
	Required   []string
}

// Object builds an ObjectSchema. required names the top-level properties
// that must be present.
func Object(properties map[string]*Field, required ...string) *ObjectSchema {
	return &ObjectSchema{Properties: properties, Required: required}
}

func (s *ObjectSchema) Validate(value any) Result {
	issues := validateObject(nil, s.Properties, s.Required, value)
	if len(issues) > 0 {
		return Result{OK: false, Issues: issues}
	}
	return Result{OK: true, Value: value}
}

func validateObject(path []string, properties map[string]*Field, required []string, value any) []Issue {
	obj, ok := value.(map[string]any)
	if !ok {
		return []Issue{typeIssue(path, TypeObject, value)}
	}

	var issues []Issue
	for _, name := range required {
		if _, present := obj[name]; !present {
			issues = append(issues, Issue{
				Path:    append(append([]string{}, path...), name),
				Code:    "required",
				Message: fmt.Sprintf("%q is required", name),
			})
		}
	}
	for name, field := range properties {
		v, present := obj[name]
		if !present {
			continue
		}
		issues = append(issues, field.validate(append(append([]string{}, path...), name), v)...)
	}
	return issues
}

func (f *Field) validate(path []string, value any) []Issue {
	switch f.Type {
	case TypeObject:
		return validateObject(path, f.Properties, f.Required, value)
	case TypeArray:
		arr, ok := value.([]any)
		if !ok {
			return []Issue{typeIssue(path, TypeArray, value)}
		}
		if f.Items == nil {
			return nil
		}
		var issues []Issue
		for i, elem := range arr {
			elemPath := append(append([]string{}, path...), fmt.Sprintf("%d", i))
			issues = append(issues, f.Items.validate(elemPath, elem)...)
		}
		return issues
	case TypeString:
		if _, ok := value.(string); !ok {
			return []Issue{typeIssue(path, TypeString, value)}
		}
	case TypeNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64, uint, uint32, uint64:
		default:
			return []Issue{typeIssue(path, TypeNumber, value)}
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return []Issue{typeIssue(path, TypeBoolean, value)}
		}
	}
	return nil
}

func typeIssue(path []string, expected Type, received any) Issue {
	receivedName := typeNameOf(received)
	return Issue{
		Path:     append([]string{}, path...),
		Code:     "invalid_type",
		Expected: string(expected),
		Received: receivedName,
		Message:  fmt.Sprintf("Expected %s, received %s", expected, receivedName),
	}
}
