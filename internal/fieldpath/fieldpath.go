// Package fieldpath implements the dotted path syntax used to address schema
// fields: "." separates nested object keys and a trailing "[]" on a segment
// marks an element of the array stored under that key.
//
//	title
//	author.email
//	references[].title
//	tags[]
package fieldpath

import "strings"

const (
	// Separator divides nested object segments.
	Separator = "."
	// ArrayMarker suffixes a segment whose value is an array.
	ArrayMarker = "[]"
)

// Segment is one dot-delimited component of a path.
type Segment struct {
	Name  string
	Array bool
}

// String renders the segment back into path syntax.
func (s Segment) String() string {
	if s.Array {
		return s.Name + ArrayMarker
	}
	return s.Name
}

// Join appends name to prefix, returning name alone when prefix is empty.
func Join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + Separator + name
}

// Parent returns the path of the enclosing node. A dotted path loses its last
// segment; an undotted array path loses its marker. Root-level paths have no
// parent and return ok=false.
func Parent(path string) (string, bool) {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[:i], true
	}
	if strings.HasSuffix(path, ArrayMarker) {
		parent := strings.TrimSuffix(path, ArrayMarker)
		if parent == "" {
			return "", false
		}
		return parent, true
	}
	return "", false
}

// ShortName returns the last segment with any array marker removed.
// It is the key an oracle response is expected to carry.
func ShortName(path string) string {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		path = path[i+1:]
	}
	return strings.TrimSuffix(path, ArrayMarker)
}

// Segments splits a path into its components.
func Segments(path string) []Segment {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, Separator)
	segs := make([]Segment, 0, len(parts))
	for _, p := range parts {
		segs = append(segs, Segment{
			Name:  strings.TrimSuffix(p, ArrayMarker),
			Array: strings.HasSuffix(p, ArrayMarker),
		})
	}
	return segs
}

// IsArray reports whether the final segment carries an array marker.
func IsArray(path string) bool {
	return strings.HasSuffix(path, ArrayMarker)
}

// Depth counts how many Parent steps separate path from the document root.
// Root-level paths have depth 0.
func Depth(path string) int {
	depth := 0
	for {
		parent, ok := Parent(path)
		if !ok {
			return depth
		}
		depth++
		path = parent
	}
}
