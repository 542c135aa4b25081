// Package merge reassembles per-field values into one nested document.
//
// Paths use the fieldpath syntax. A plain segment addresses an object key and
// a segment ending in "[]" addresses a list. Writing to a plain final segment
// overwrites (last write wins); writing to a final "[]" segment appends.
//
// Known limitation: an intermediate "[]" segment always appends a fresh
// object element. Leaves of an array of objects ("references[].title",
// "references[].year") are extracted independently with no key correlating
// them, so each merge produces its own element instead of filling a shared
// one:
//
//	references[].title = "A"  ->  {"references":[{"title":"A"}]}
//	references[].year  = 2020 ->  {"references":[{"title":"A"},{"year":2020}]}
package merge

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jackzampolin/hastd/internal/fieldpath"
)

// ConflictError reports a path whose structure does not match the document,
// such as descending into a scalar or treating a list as an object.
type ConflictError struct {
	Path    string
	Segment string
	Found   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot merge %q: segment %q holds %s", e.Path, e.Segment, e.Found)
}

// Into writes value at path inside doc. On conflict doc is left unchanged.
func Into(doc map[string]any, path string, value any) error {
	return write(doc, path, []any{value}, false)
}

// ExtendInto appends every element of values to the list at an array path
// ("tags[]"), creating the list even when values is empty.
func ExtendInto(doc map[string]any, path string, values []any) error {
	if !fieldpath.IsArray(path) {
		return fmt.Errorf("cannot extend %q: not an array path", path)
	}
	return write(doc, path, values, true)
}

// write walks path, creating containers on demand. Every mutation leads into
// a freshly created container, so all conflict checks happen before the
// first change to doc.
func write(doc map[string]any, path string, values []any, extend bool) error {
	if doc == nil {
		return fmt.Errorf("cannot merge %q: nil document", path)
	}
	segs := fieldpath.Segments(path)
	if len(segs) == 0 {
		return fmt.Errorf("cannot merge: empty path")
	}
	for _, seg := range segs {
		if seg.Name == "" {
			return fmt.Errorf("cannot merge %q: empty segment", path)
		}
	}

	current := doc
	for i, seg := range segs {
		last := i == len(segs)-1
		existing, exists := current[seg.Name]

		if !seg.Array {
			if last {
				current[seg.Name] = values[0]
				return nil
			}
			if !exists || existing == nil {
				next := map[string]any{}
				current[seg.Name] = next
				current = next
				continue
			}
			next, ok := existing.(map[string]any)
			if !ok {
				return &ConflictError{Path: path, Segment: seg.String(), Found: kind(existing)}
			}
			current = next
			continue
		}

		var list []any
		if exists && existing != nil {
			l, ok := existing.([]any)
			if !ok {
				return &ConflictError{Path: path, Segment: seg.String(), Found: kind(existing)}
			}
			list = l
		}

		if last {
			if extend {
				if list == nil {
					list = make([]any, 0, len(values))
				}
				current[seg.Name] = append(list, values...)
			} else {
				current[seg.Name] = append(list, values[0])
			}
			return nil
		}

		elem := map[string]any{}
		current[seg.Name] = append(list, elem)
		current = elem
	}
	return nil
}

func kind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case float64, float32, int, int64, json.Number:
		return "a number"
	default:
		return fmt.Sprintf("a %T", v)
	}
}

// Document is a nested result document shared by the writers of one run.
type Document struct {
	mu   sync.Mutex
	data map[string]any
}

// New returns an empty document.
func New() *Document {
	return &Document{data: map[string]any{}}
}

// Merge writes value at path. See Into.
func (d *Document) Merge(path string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Into(d.data, path, value)
}

// Extend appends values to the list at an array path. See ExtendInto.
func (d *Document) Extend(path string, values []any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ExtendInto(d.data, path, values)
}

// Data returns a deep copy of the document tree.
func (d *Document) Data() map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return copyMap(d.data)
}

// JSON encodes the document.
func (d *Document) JSON() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return json.Marshal(d.data)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

// String renders the document as indented JSON for logs and the CLI.
func (d *Document) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, err := json.MarshalIndent(d.data, "", "  ")
	if err != nil {
		return strings.TrimSpace(fmt.Sprint(d.data))
	}
	return string(b)
}
