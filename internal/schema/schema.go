// Package schema reads JSON-Schema-like documents and decomposes them into
// per-field extraction tasks.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptySchema is returned by Parse when the input holds no document.
var ErrEmptySchema = errors.New("schema is empty")

// constraintKeys are passed through to single-field validation unchanged.
var constraintKeys = map[string]bool{
	"minimum":          true,
	"maximum":          true,
	"exclusiveMinimum": true,
	"exclusiveMaximum": true,
	"multipleOf":       true,
	"minLength":        true,
	"maxLength":        true,
	"pattern":          true,
	"minItems":         true,
	"maxItems":         true,
	"uniqueItems":      true,
	"const":            true,
}

// Schema is one node of a JSON-Schema-like document. Properties keep the
// order in which they were declared in the source text.
type Schema struct {
	Type        string
	Types       []string
	Format      string
	Description string
	Enum        []any
	Required    []string
	Properties  []Property
	Items       *Schema
	Constraints map[string]any
}

// Property is a named child schema.
type Property struct {
	Name   string
	Schema *Schema
}

// TypeOrDefault returns the declared type, or "object" when none was given.
func (s *Schema) TypeOrDefault() string {
	if s == nil || s.Type == "" {
		return string(TypeObject)
	}
	return s.Type
}

// IsRequired reports whether name appears in the node's required list.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Property looks up a direct child by name.
func (s *Schema) Property(name string) (*Schema, bool) {
	if s == nil {
		return nil, false
	}
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// Parse reads a schema from JSON or YAML text, preserving property order.
func Parse(raw []byte) (*Schema, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrEmptySchema
	}

	var root *yaml.Node
	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		node, err := jsonToNode(dec)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JSON schema: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, errors.New("failed to parse JSON schema: unexpected data after the top-level object")
		}
		root = node
	} else {
		var doc yaml.Node
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML schema: %w", err)
		}
		root = &doc
	}

	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, ErrEmptySchema
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema root must be an object, got %s", kindName(root.Kind))
	}
	return fromNode(root)
}

// FromMap builds a Schema from an already-decoded document. Go maps carry no
// key order, so properties are visited in sorted name order.
func FromMap(m map[string]any) *Schema {
	s := &Schema{}
	if m == nil {
		return s
	}

	switch t := m["type"].(type) {
	case string:
		s.Type = t
		s.Types = []string{t}
	case []any:
		for _, v := range t {
			if str, ok := v.(string); ok {
				s.Types = append(s.Types, str)
			}
		}
		s.Type = firstNonNull(s.Types)
	case []string:
		s.Types = append(s.Types, t...)
		s.Type = firstNonNull(s.Types)
	}

	s.Format, _ = m["format"].(string)
	s.Description, _ = m["description"].(string)

	if enum, ok := m["enum"].([]any); ok {
		s.Enum = enum
	}

	switch req := m["required"].(type) {
	case []any:
		for _, v := range req {
			if str, ok := v.(string); ok {
				s.Required = append(s.Required, str)
			}
		}
	case []string:
		s.Required = append(s.Required, req...)
	}

	if props, ok := m["properties"].(map[string]any); ok {
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child, _ := props[name].(map[string]any)
			s.Properties = append(s.Properties, Property{Name: name, Schema: FromMap(child)})
		}
	}

	if items, ok := m["items"].(map[string]any); ok {
		s.Items = FromMap(items)
	}

	for key, v := range m {
		if constraintKeys[key] {
			if s.Constraints == nil {
				s.Constraints = make(map[string]any)
			}
			s.Constraints[key] = v
		}
	}

	return s
}

func fromNode(n *yaml.Node) (*Schema, error) {
	s := &Schema{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := n.Content[i+1]

		switch key {
		case "type":
			switch val.Kind {
			case yaml.ScalarNode:
				s.Type = val.Value
				s.Types = []string{val.Value}
			case yaml.SequenceNode:
				for _, item := range val.Content {
					s.Types = append(s.Types, item.Value)
				}
				s.Type = firstNonNull(s.Types)
			}
		case "format":
			s.Format = val.Value
		case "description":
			s.Description = val.Value
		case "enum":
			var enum []any
			if err := val.Decode(&enum); err != nil {
				return nil, fmt.Errorf("invalid enum at line %d: %w", val.Line, err)
			}
			s.Enum = enum
		case "required":
			if val.Kind != yaml.SequenceNode {
				continue
			}
			for _, item := range val.Content {
				s.Required = append(s.Required, item.Value)
			}
		case "properties":
			if val.Kind != yaml.MappingNode {
				continue
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				name := val.Content[j].Value
				childNode := val.Content[j+1]
				child := &Schema{}
				if childNode.Kind == yaml.MappingNode {
					var err error
					child, err = fromNode(childNode)
					if err != nil {
						return nil, fmt.Errorf("property %q: %w", name, err)
					}
				}
				s.Properties = append(s.Properties, Property{Name: name, Schema: child})
			}
		case "items":
			if val.Kind != yaml.MappingNode {
				continue
			}
			items, err := fromNode(val)
			if err != nil {
				return nil, fmt.Errorf("items: %w", err)
			}
			s.Items = items
		default:
			if !constraintKeys[key] {
				continue
			}
			var v any
			if err := val.Decode(&v); err != nil {
				return nil, fmt.Errorf("invalid %s at line %d: %w", key, val.Line, err)
			}
			if s.Constraints == nil {
				s.Constraints = make(map[string]any)
			}
			s.Constraints[key] = v
		}
	}
	return s, nil
}

// jsonToNode converts a JSON token stream into a yaml.Node tree so JSON and
// YAML schemas share one ordered reader.
func jsonToNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySchema
		}
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				child, err := jsonToNode(dec)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
					child,
				)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		case '[':
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for dec.More() {
				child, err := jsonToNode(dec)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(v.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}, nil
	case bool:
		value := "false"
		if v {
			value = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: value}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func firstNonNull(types []string) string {
	for _, t := range types {
		if t != string(TypeNull) {
			return t
		}
	}
	if len(types) > 0 {
		return types[0]
	}
	return ""
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "array"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
