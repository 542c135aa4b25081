package fieldpath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParent(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"title", "", false},
		{"author.name", "author", true},
		{"a.b.c", "a.b", true},
		{"references[].title", "references[]", true},
		{"references[]", "references", true},
		{"tags[]", "tags", true},
		{"meta.tags[]", "meta", true},
		{"[]", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Parent(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Parent(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Parent(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestShortName(t *testing.T) {
	tests := map[string]string{
		"title":              "title",
		"author.email":       "email",
		"references[].title": "title",
		"tags[]":             "tags",
		"a.b.list[]":         "list",
	}
	for path, want := range tests {
		if got := ShortName(path); got != want {
			t.Errorf("ShortName(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestSegments(t *testing.T) {
	got := Segments("references[].authors[].name")
	want := []Segment{
		{Name: "references", Array: true},
		{Name: "authors", Array: true},
		{Name: "name"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Segments() mismatch (-want +got):\n%s", diff)
	}

	if segs := Segments(""); segs != nil {
		t.Errorf("Segments(\"\") = %v, want nil", segs)
	}
}

func TestJoinAndDepth(t *testing.T) {
	if got := Join("", "title"); got != "title" {
		t.Errorf("Join(\"\", title) = %q", got)
	}
	if got := Join("author", "name"); got != "author.name" {
		t.Errorf("Join(author, name) = %q", got)
	}

	depths := map[string]int{
		"title":              0,
		"author.name":        1,
		"references[].title": 2,
		"tags[]":             1,
	}
	for path, want := range depths {
		if got := Depth(path); got != want {
			t.Errorf("Depth(%q) = %d, want %d", path, got, want)
		}
	}
}
