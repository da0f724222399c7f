package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports a single argument that failed schema validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// Arguments is a validated, coerced and defaulted argument map. Values are
// guaranteed to hold the Go type their field declares: string, int, float64
// or bool.
type Arguments map[string]any

// String returns the named string argument, or "" when absent.
func (a Arguments) String(name string) string {
	if v, ok := a[name].(string); ok {
		return v
	}
	return ""
}

// Int returns the named integer argument, or 0 when absent.
func (a Arguments) Int(name string) int {
	if v, ok := a[name].(int); ok {
		return v
	}
	return 0
}

// Float returns the named number argument, or 0 when absent.
func (a Arguments) Float(name string) float64 {
	if v, ok := a[name].(float64); ok {
		return v
	}
	return 0
}

// Bool returns the named boolean argument, or false when absent.
func (a Arguments) Bool(name string) bool {
	if v, ok := a[name].(bool); ok {
		return v
	}
	return false
}

// Has reports whether the argument was supplied or defaulted.
func (a Arguments) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// ValidateArguments checks raw input against a declared schema and produces
// typed Arguments. Required fields must be present; integer fields accept
// JSON numbers with zero fraction and numeric strings; enum and bound
// violations name the offending field. Fields not declared in the schema are
// ignored.
func ValidateArguments(schema []Field, raw map[string]any) (Arguments, error) {
	args := make(Arguments, len(schema))

	for _, field := range schema {
		value, present := raw[field.Name]
		if !present || value == nil {
			if field.Required {
				return nil, &ValidationError{Field: field.Name, Message: "required argument is missing"}
			}
			if field.Default != nil {
				args[field.Name] = field.Default
			}
			continue
		}

		coerced, err := coerceValue(field, value)
		if err != nil {
			return nil, err
		}
		args[field.Name] = coerced
	}

	return args, nil
}

func coerceValue(field Field, value any) (any, error) {
	switch field.Type {
	case FieldString:
		return coerceString(field, value)
	case FieldInteger:
		return coerceInteger(field, value)
	case FieldNumber:
		return coerceNumber(field, value)
	case FieldBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, typeMismatch(field, "a boolean", value)
	default:
		return nil, &ValidationError{Field: field.Name, Message: fmt.Sprintf("unsupported schema type %q", field.Type)}
	}
}

func coerceString(field Field, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, typeMismatch(field, "a string", value)
	}
	if field.NonEmpty && strings.TrimSpace(s) == "" {
		return nil, &ValidationError{Field: field.Name, Message: "must not be empty"}
	}
	if len(field.Enum) > 0 {
		for _, allowed := range field.Enum {
			if s == allowed {
				return s, nil
			}
		}
		return nil, &ValidationError{
			Field:   field.Name,
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(field.Enum, ", "), s),
		}
	}
	return s, nil
}

func coerceInteger(field Field, value any) (any, error) {
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case int32:
		n = int(v)
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, &ValidationError{Field: field.Name, Message: fmt.Sprintf("must be an integer, got %v", v)}
		}
		n = int(v)
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return nil, &ValidationError{Field: field.Name, Message: fmt.Sprintf("must be an integer, got %q", v.String())}
		}
		n = int(parsed)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, &ValidationError{Field: field.Name, Message: fmt.Sprintf("must be an integer, got %q", v)}
		}
		n = parsed
	default:
		return nil, typeMismatch(field, "an integer", value)
	}

	if field.Minimum != nil && n < *field.Minimum {
		return nil, boundViolation(field, n)
	}
	if field.Maximum != nil && n > *field.Maximum {
		return nil, boundViolation(field, n)
	}
	return n, nil
}

func coerceNumber(field Field, value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, &ValidationError{Field: field.Name, Message: fmt.Sprintf("must be a number, got %q", v.String())}
		}
		return parsed, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, &ValidationError{Field: field.Name, Message: fmt.Sprintf("must be a number, got %q", v)}
		}
		return parsed, nil
	default:
		return nil, typeMismatch(field, "a number", value)
	}
}

func boundViolation(field Field, got int) *ValidationError {
	switch {
	case field.Minimum != nil && field.Maximum != nil:
		return &ValidationError{
			Field:   field.Name,
			Message: fmt.Sprintf("must be between %d and %d, got %d", *field.Minimum, *field.Maximum, got),
		}
	case field.Minimum != nil:
		return &ValidationError{Field: field.Name, Message: fmt.Sprintf("must be at least %d, got %d", *field.Minimum, got)}
	default:
		return &ValidationError{Field: field.Name, Message: fmt.Sprintf("must be at most %d, got %d", *field.Maximum, got)}
	}
}

func typeMismatch(field Field, want string, got any) *ValidationError {
	return &ValidationError{
		Field:   field.Name,
		Message: fmt.Sprintf("must be %s, got %s", want, jsonTypeName(got)),
	}
}

// jsonTypeName names a decoded JSON value the way a caller would recognize
// it, rather than leaking Go type names into error messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int32, int64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
