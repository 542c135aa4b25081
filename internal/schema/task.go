package schema

import (
	"fmt"

	"github.com/jackzampolin/hastd/internal/fieldpath"
)

// FieldType is the value type an extraction task expects.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
	TypeNull    FieldType = "null"

	// TypeUntyped marks a field whose declared type was not recognised.
	// Validation applies no type constraint to it.
	TypeUntyped FieldType = "untyped"
)

// Known reports whether t is one of the JSON Schema primitive types.
func (t FieldType) Known() bool {
	switch t {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject, TypeNull:
		return true
	}
	return false
}

// Task is one atomic field extraction unit. Tasks are values and are never
// modified after decomposition.
type Task struct {
	Path         string         `json:"field_path" yaml:"field_path"`
	Type         FieldType      `json:"field_type" yaml:"field_type"`
	DeclaredType string         `json:"declared_type,omitempty" yaml:"declared_type,omitempty"`
	Required     bool           `json:"required" yaml:"required"`
	Enum         []any          `json:"enum,omitempty" yaml:"enum,omitempty"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	Format       string         `json:"format,omitempty" yaml:"format,omitempty"`
	Constraints  map[string]any `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// ShortName is the response key the oracle must use for this task.
func (t Task) ShortName() string {
	return fieldpath.ShortName(t.Path)
}

// IsArrayLeaf reports whether the task extracts the elements of an array of
// scalars, such as "tags[]".
func (t Task) IsArrayLeaf() bool {
	return fieldpath.IsArray(t.Path)
}

func (t Task) String() string {
	req := ""
	if t.Required {
		req = " [required]"
	}
	return fmt.Sprintf("%s (%s)%s", t.Path, t.Type, req)
}

// DecompositionError records a field whose shape could not be interpreted.
// The field is still emitted as an untyped task.
type DecompositionError struct {
	Path         string
	DeclaredType string
}

func (e *DecompositionError) Error() string {
	return fmt.Sprintf("field %s: unrecognised type %q, treating as untyped", e.Path, e.DeclaredType)
}
