package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, raw string) *Schema {
	t.Helper()
	s, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return s
}

func paths(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Path
	}
	return out
}

func TestDecompose_SingleRequiredField(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"title":{"type":"string"}},"required":["title"]}`)

	tasks := Decompose(s)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	if tasks[0].Path != "title" {
		t.Errorf("Path = %q, want %q", tasks[0].Path, "title")
	}
	if !tasks[0].Required {
		t.Error("expected Required = true")
	}
	if tasks[0].Type != TypeString {
		t.Errorf("Type = %q, want %q", tasks[0].Type, TypeString)
	}
}

func TestDecompose_NestedObject(t *testing.T) {
	s := mustParse(t, `{
		"type": "object",
		"properties": {
			"author": {
				"type": "object",
				"properties": {
					"name":  {"type": "string"},
					"email": {"type": "string", "format": "email"}
				},
				"required": ["name", "email"]
			}
		}
	}`)

	tasks := Decompose(s)
	if diff := cmp.Diff([]string{"author.name", "author.email"}, paths(tasks)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	for _, task := range tasks {
		if !task.Required {
			t.Errorf("%s: expected Required = true", task.Path)
		}
	}
	if tasks[1].Format != "email" {
		t.Errorf("Format = %q, want email", tasks[1].Format)
	}
	if tasks[1].Type != TypeString {
		t.Errorf("email Type = %q, want string", tasks[1].Type)
	}
}

func TestDecompose_ArrayOfObjects(t *testing.T) {
	s := mustParse(t, `{
		"type": "object",
		"properties": {
			"references": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"title": {"type": "string"},
						"year":  {"type": "integer"}
					},
					"required": ["title"]
				}
			}
		}
	}`)

	tasks := Decompose(s)
	if diff := cmp.Diff([]string{"references[].title", "references[].year"}, paths(tasks)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if !tasks[0].Required || tasks[1].Required {
		t.Errorf("required flags = %v/%v, want true/false", tasks[0].Required, tasks[1].Required)
	}
	if tasks[1].Type != TypeInteger {
		t.Errorf("year Type = %q, want integer", tasks[1].Type)
	}
}

func TestDecompose_ArrayOfScalars(t *testing.T) {
	s := mustParse(t, `{
		"type": "object",
		"required": ["tags"],
		"properties": {
			"tags": {
				"type": "array",
				"description": "Keywords",
				"items": {"type": "string", "enum": ["a", "b"]}
			}
		}
	}`)

	tasks := Decompose(s)
	want := []Task{{
		Path:        "tags[]",
		Type:        TypeString,
		Required:    true,
		Enum:        []any{"a", "b"},
		Description: "Keywords",
	}}
	if diff := cmp.Diff(want, tasks); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
	if !tasks[0].IsArrayLeaf() {
		t.Error("expected IsArrayLeaf() = true")
	}
	if tasks[0].ShortName() != "tags" {
		t.Errorf("ShortName() = %q, want tags", tasks[0].ShortName())
	}
}

func TestDecompose_DeclarationOrder(t *testing.T) {
	s := mustParse(t, `{
		"properties": {
			"zeta":  {"type": "string"},
			"alpha": {"type": "object", "properties": {"y": {"type": "number"}, "b": {"type": "boolean"}}},
			"mid":   {"type": "integer"}
		}
	}`)

	want := []string{"zeta", "alpha.y", "alpha.b", "mid"}
	if diff := cmp.Diff(want, paths(Decompose(s))); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecompose_YAMLMatchesJSON(t *testing.T) {
	yamlSchema := mustParse(t, `
type: object
required: [title]
properties:
  title:
    type: string
    description: Document title
  author:
    properties:
      name:
        type: string
`)
	jsonSchema := mustParse(t, `{"type":"object","required":["title"],"properties":{
		"title":{"type":"string","description":"Document title"},
		"author":{"properties":{"name":{"type":"string"}}}}}`)

	if diff := cmp.Diff(Decompose(jsonSchema), Decompose(yamlSchema)); diff != "" {
		t.Errorf("YAML and JSON decompositions differ (-json +yaml):\n%s", diff)
	}
}

func TestDecompose_EdgeCases(t *testing.T) {
	t.Run("missing properties yields no tasks", func(t *testing.T) {
		s := mustParse(t, `{"type":"object","properties":{"meta":{"type":"object"}}}`)
		if tasks := Decompose(s); len(tasks) != 0 {
			t.Errorf("len(tasks) = %d, want 0", len(tasks))
		}
	})

	t.Run("missing type recurses as object", func(t *testing.T) {
		s := mustParse(t, `{"properties":{"info":{"properties":{"x":{"type":"string"}}}}}`)
		if diff := cmp.Diff([]string{"info.x"}, paths(Decompose(s))); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown type becomes untyped", func(t *testing.T) {
		s := mustParse(t, `{"properties":{"when":{"type":"datetime"}}}`)
		tasks, warnings := DecomposeWithWarnings(s)
		if len(tasks) != 1 || tasks[0].Type != TypeUntyped {
			t.Fatalf("tasks = %v, want one untyped task", tasks)
		}
		if tasks[0].DeclaredType != "datetime" {
			t.Errorf("DeclaredType = %q, want datetime", tasks[0].DeclaredType)
		}
		if len(warnings) != 1 || warnings[0].Path != "when" {
			t.Errorf("warnings = %v, want one for when", warnings)
		}
	})

	t.Run("nullable type list uses first non-null", func(t *testing.T) {
		s := mustParse(t, `{"properties":{"n":{"type":["null","integer"]}}}`)
		tasks := Decompose(s)
		if len(tasks) != 1 || tasks[0].Type != TypeInteger {
			t.Errorf("tasks = %v, want one integer task", tasks)
		}
	})

	t.Run("constraints carried to task", func(t *testing.T) {
		s := mustParse(t, `{"properties":{"age":{"type":"integer","minimum":0,"maximum":150}}}`)
		tasks := Decompose(s)
		if len(tasks) != 1 {
			t.Fatalf("len(tasks) = %d, want 1", len(tasks))
		}
		if _, ok := tasks[0].Constraints["minimum"]; !ok {
			t.Errorf("Constraints = %v, want minimum", tasks[0].Constraints)
		}
	})

	t.Run("nil schema", func(t *testing.T) {
		if tasks := Decompose(nil); len(tasks) != 0 {
			t.Errorf("len(tasks) = %d, want 0", len(tasks))
		}
	})
}

func TestDecompose_PathsUnique(t *testing.T) {
	s := mustParse(t, `{
		"properties": {
			"a": {"type":"object","properties":{"b":{"type":"string"},"c":{"type":"array","items":{"type":"integer"}}}},
			"d": {"type":"array","items":{"properties":{"e":{"type":"string"},"f":{"type":"object","properties":{"g":{"type":"boolean"}}}}}},
			"h": {"type":"number"}
		}
	}`)

	tasks := Decompose(s)
	want := []string{"a.b", "a.c[]", "d[].e", "d[].f.g", "h"}
	if diff := cmp.Diff(want, paths(tasks)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	seen := make(map[string]bool)
	for _, task := range tasks {
		if seen[task.Path] {
			t.Errorf("duplicate path %q", task.Path)
		}
		seen[task.Path] = true
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte("  ")); !errors.Is(err, ErrEmptySchema) {
		t.Errorf("Parse(blank) error = %v, want ErrEmptySchema", err)
	}
	if _, err := Parse([]byte(`{"type":`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
	for _, raw := range []string{`{"type":"object"} trailing`, `{"type":"object"}{}`, `{"type":"object"}]`} {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Errorf("Parse(%q) error = nil, want trailing data error", raw)
		}
	}
	if _, err := Parse([]byte("{\"type\":\"object\"}\n")); err != nil {
		t.Errorf("Parse(trailing newline) error = %v", err)
	}
	if _, err := Parse([]byte("- a\n- b\n")); err == nil {
		t.Error("expected error for non-object YAML root")
	}
}

func TestFromMap(t *testing.T) {
	s := FromMap(map[string]any{
		"type":     "object",
		"required": []any{"b"},
		"properties": map[string]any{
			"b": map[string]any{"type": "string"},
			"a": map[string]any{"type": "integer", "enum": []any{1.0, 2.0}},
		},
	})

	tasks := Decompose(s)
	if diff := cmp.Diff([]string{"a", "b"}, paths(tasks)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if tasks[0].Required || !tasks[1].Required {
		t.Errorf("required = %v/%v, want false/true", tasks[0].Required, tasks[1].Required)
	}
	if len(tasks[0].Enum) != 2 {
		t.Errorf("Enum = %v, want 2 values", tasks[0].Enum)
	}
}
