package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError explains why an oracle response could not be read as a field
// value.
type ParseError struct {
	Key    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed oracle output for %q: %s", e.Key, e.Reason)
}

// MalformedOutput stands in for a value when the oracle response could not be
// parsed or the oracle call failed. It always fails validation.
type MalformedOutput struct {
	Raw    string
	Reason string
}

func (m MalformedOutput) String() string {
	return "malformed oracle output: " + m.Reason
}

// ParseFieldResponse reads a JSON object from raw and returns the value under
// key. Markdown code fences and prose around the object are tolerated.
func ParseFieldResponse(raw, key string) (any, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return nil, &ParseError{Key: key, Reason: "empty response"}
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractObject(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	var obj map[string]any
	parsed := false
	for _, candidate := range candidates {
		var v any
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &ParseError{Key: key, Reason: fmt.Sprintf("expected a JSON object, got %s", jsonKind(v))}
		}
		obj = m
		parsed = true
		break
	}
	if !parsed {
		return nil, &ParseError{Key: key, Reason: "response is not valid JSON"}
	}

	value, ok := obj[key]
	if !ok {
		return nil, &ParseError{Key: key, Reason: fmt.Sprintf("missing key %q", key)}
	}
	return value, nil
}

func stripCodeFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return ""
	}
	return content[start : end+1]
}

func jsonKind(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
