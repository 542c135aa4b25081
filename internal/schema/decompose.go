package schema

import (
	"github.com/jackzampolin/hastd/internal/fieldpath"
)

// Decompose walks the schema's properties depth-first in declaration order
// and returns one task per scalar or array-of-scalar leaf. Objects and arrays
// of objects only contribute a path prefix.
func Decompose(root *Schema) []Task {
	tasks, _ := DecomposeWithWarnings(root)
	return tasks
}

// DecomposeWithWarnings is Decompose, also returning the fields whose
// declared type was not recognised.
func DecomposeWithWarnings(root *Schema) ([]Task, []*DecompositionError) {
	d := &decomposer{}
	if root != nil {
		d.walk(root, "")
	}
	return d.tasks, d.warnings
}

type decomposer struct {
	tasks    []Task
	warnings []*DecompositionError
}

func (d *decomposer) walk(node *Schema, prefix string) {
	for _, prop := range node.Properties {
		child := prop.Schema
		if child == nil {
			child = &Schema{}
		}
		path := fieldpath.Join(prefix, prop.Name)
		required := node.IsRequired(prop.Name)

		switch child.TypeOrDefault() {
		case string(TypeObject):
			d.walk(child, path)

		case string(TypeArray):
			items := child.Items
			if items == nil {
				items = &Schema{}
			}
			arrayPath := path + fieldpath.ArrayMarker
			if items.TypeOrDefault() == string(TypeObject) {
				d.walk(items, arrayPath)
				continue
			}

			enum := items.Enum
			if enum == nil {
				enum = child.Enum
			}
			description := child.Description
			if description == "" {
				description = items.Description
			}
			d.emit(Task{
				Path:        arrayPath,
				Required:    required,
				Enum:        enum,
				Description: description,
				Format:      items.Format,
				Constraints: items.Constraints,
			}, items.Type)

		default:
			d.emit(Task{
				Path:        path,
				Required:    required,
				Enum:        child.Enum,
				Description: child.Description,
				Format:      child.Format,
				Constraints: child.Constraints,
			}, child.Type)
		}
	}
}

func (d *decomposer) emit(task Task, declared string) {
	ft := FieldType(declared)
	if !ft.Known() {
		task.Type = TypeUntyped
		task.DeclaredType = declared
		d.warnings = append(d.warnings, &DecompositionError{Path: task.Path, DeclaredType: declared})
	} else {
		task.Type = ft
	}
	d.tasks = append(d.tasks, task)
}
