package tool

import "context"

// FieldType enumerates the argument types a tool schema can declare.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldInteger FieldType = "integer"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
)

// Field declares a single argument in a tool schema. Declaration order is
// preserved through validation and discovery listings.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	// Default is applied when an optional field is omitted. It must already
	// be the Go type the field validates to (string, int, float64 or bool).
	Default any
	// NonEmpty rejects blank (whitespace-only) values for string fields.
	NonEmpty bool
	// Enum restricts string fields to the listed values.
	Enum []string
	// Minimum and Maximum bound integer fields inclusively.
	Minimum *int
	Maximum *int
}

// HandlerFunc implements one tool. It only ever receives arguments that
// passed schema validation, with defaults already applied.
type HandlerFunc func(ctx context.Context, args Arguments) (any, error)

// Descriptor describes a registered tool. Descriptors are immutable once
// handed to a Registry.
type Descriptor struct {
	Name        string
	Description string
	Schema      []Field
	Handler     HandlerFunc
}
