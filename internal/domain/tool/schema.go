package tool

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// JSONSchema renders the descriptor's argument schema as a JSON Schema
// object, used both for MCP tool registration and the discovery listing.
func (d *Descriptor) JSONSchema() *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(d.Schema))
	var required []string

	for _, field := range d.Schema {
		prop := &jsonschema.Schema{
			Type:        string(field.Type),
			Description: field.Description,
		}
		for _, allowed := range field.Enum {
			prop.Enum = append(prop.Enum, allowed)
		}
		if field.Minimum != nil {
			prop.Minimum = float64Ptr(float64(*field.Minimum))
		}
		if field.Maximum != nil {
			prop.Maximum = float64Ptr(float64(*field.Maximum))
		}
		if field.Default != nil {
			if raw, err := json.Marshal(field.Default); err == nil {
				prop.Default = json.RawMessage(raw)
			}
		}
		properties[field.Name] = prop
		if field.Required {
			required = append(required, field.Name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// IntPtr is a convenience for declaring Field bounds inline.
func IntPtr(v int) *int {
	return &v
}

func float64Ptr(v float64) *float64 {
	return &v
}
