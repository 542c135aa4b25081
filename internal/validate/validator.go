package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Func adapts a plain function to the validator interface.
type Func func(ctx context.Context, value map[string]any, field FieldSchema) error

// Validate calls f.
func (f Func) Validate(ctx context.Context, value map[string]any, field FieldSchema) error {
	return f(ctx, value, field)
}

// JSONSchemaValidator validates field values with a compiled JSON Schema.
// Compiled schemas are cached by their JSON encoding and shared across runs.
type JSONSchemaValidator struct {
	mu     sync.RWMutex
	cache  map[string]*jsonschema.Schema
	logger *slog.Logger
}

// NewJSONSchemaValidator creates a validator with an empty schema cache.
func NewJSONSchemaValidator(logger *slog.Logger) *JSONSchemaValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONSchemaValidator{
		cache:  make(map[string]*jsonschema.Schema),
		logger: logger,
	}
}

// Validate checks value against field. A nil return means the value is
// acceptable; otherwise the error text describes every failing constraint.
func (v *JSONSchemaValidator) Validate(ctx context.Context, value map[string]any, field FieldSchema) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	compiled, err := v.compile(field)
	if err != nil {
		return err
	}

	doc, err := normalize(value)
	if err != nil {
		return err
	}

	if err := compiled.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return errors.New(describe(verr))
		}
		return fmt.Errorf("failed to validate %s: %w", field.Path, err)
	}
	return nil
}

// CacheSize reports the number of compiled schemas held.
func (v *JSONSchemaValidator) CacheSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.cache)
}

func (v *JSONSchemaValidator) compile(field FieldSchema) (*jsonschema.Schema, error) {
	raw, err := field.MarshalSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to encode field schema: %w", err)
	}
	key := string(raw)

	v.mu.RLock()
	compiled, ok := v.cache[key]
	v.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource("field.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load field schema: %w", err)
	}
	compiled, err = compiler.Compile("field.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile field schema for %s: %w", field.Path, err)
	}

	v.mu.Lock()
	v.cache[key] = compiled
	v.mu.Unlock()

	v.logger.Debug("compiled field schema", "path", field.Path)
	return compiled, nil
}

// normalize round-trips value through JSON so the validator sees only JSON
// kinds (map[string]any, []any, json.Number, string, bool, nil).
func normalize(value map[string]any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON encodable: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return doc, nil
}

// describe flattens a validation error tree into "location: message" lines
// taken from its leaves.
func describe(err *jsonschema.ValidationError) string {
	var lines []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			lines = append(lines, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(err)
	return strings.Join(lines, "; ")
}
