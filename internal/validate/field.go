// Package validate checks single extracted field values against the
// constraints their schema declares.
package validate

import (
	"encoding/json"

	"github.com/jackzampolin/hastd/internal/schema"
)

// FieldSchema describes the constraints on one extracted field. It is a plain
// value built from a task; JSONSchema renders it for the jsonschema compiler.
type FieldSchema struct {
	Path        string           `json:"path"`
	Name        string           `json:"name"`
	Type        schema.FieldType `json:"type"`
	Array       bool             `json:"array,omitempty"`
	Required    bool             `json:"required"`
	Enum        []any            `json:"enum,omitempty"`
	Format      string           `json:"format,omitempty"`
	Description string           `json:"description,omitempty"`
	Constraints map[string]any   `json:"constraints,omitempty"`
}

// ForTask builds the FieldSchema for a decomposed task. Array leaves
// ("tags[]") describe the whole list under the short name.
func ForTask(task schema.Task) FieldSchema {
	return FieldSchema{
		Path:        task.Path,
		Name:        task.ShortName(),
		Type:        task.Type,
		Array:       task.IsArrayLeaf(),
		Required:    task.Required,
		Enum:        task.Enum,
		Format:      task.Format,
		Description: task.Description,
		Constraints: task.Constraints,
	}
}

// Property returns the JSON Schema for the field value itself.
func (f FieldSchema) Property() map[string]any {
	value := map[string]any{}
	if f.Type != "" && f.Type != schema.TypeUntyped {
		value["type"] = string(f.Type)
	}
	if len(f.Enum) > 0 {
		value["enum"] = append([]any(nil), f.Enum...)
	}
	if f.Format != "" {
		value["format"] = f.Format
	}
	for k, v := range f.Constraints {
		value[k] = v
	}

	prop := value
	if f.Array {
		prop = map[string]any{"type": "array", "items": value}
	}
	if f.Description != "" {
		prop["description"] = f.Description
	}

	if !f.Required {
		prop = allowNull(prop)
	}
	return prop
}

// JSONSchema returns the single-property object schema the extracted value
// is checked against: {"type":"object","properties":{name:...},"required":[name]}.
func (f FieldSchema) JSONSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{f.Name: f.Property()},
		"required":   []any{f.Name},
	}
}

// MarshalSchema encodes JSONSchema. Map keys are sorted by encoding/json, so
// equal schemas encode identically.
func (f FieldSchema) MarshalSchema() ([]byte, error) {
	return json.Marshal(f.JSONSchema())
}

// allowNull widens prop so an optional field may be reported as null. An
// enum is widened even when the field has no declared type.
func allowNull(prop map[string]any) map[string]any {
	if t, ok := prop["type"].(string); ok {
		prop["type"] = []any{t, "null"}
	}
	if enum, ok := prop["enum"].([]any); ok && !containsNil(enum) {
		prop["enum"] = append(enum, nil)
	}
	return prop
}

func containsNil(values []any) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}
