package confidence

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  float64
	}{
		{"valid email", "email", "jane@example.com", 1.0},
		{"invalid email", "email", "not-an-email", 0.3},
		{"email in longer name", "contact_email", "a@b.io", 1.0},
		{"empty value", "email", "", 0.0},
		{"whitespace value", "title", "   ", 0.0},
		{"nil value", "title", nil, 0.0},
		{"iso date", "start_date", "2024-01-31", 1.0},
		{"slash date", "date", "2024/01/31", 1.0},
		{"bad date", "date", "Jan 31", 0.4},
		{"numeric id", "user_id", "12345", 1.0},
		{"numeric id as float", "user_id", float64(12345), 1.0},
		{"numeric id as json number", "user_id", json.Number("12345"), 1.0},
		{"non numeric id", "user_id", "abc", 0.5},
		{"phone number", "phone_number", "555-1234", 0.5},
		{"flag yes", "is_active", "Yes", 1.0},
		{"flag bool", "has_children", true, 1.0},
		{"flag junk", "is_active", "maybe", 0.5},
		{"trimmed before matching", "email", "  jane@example.com  ", 1.0},
		{"short", "title", "Go", 0.4},
		{"six chars", "title", "Golang", 0.6},
		{"21 chars", "title", strings.Repeat("a", 21), 0.7},
		{"51 chars", "title", strings.Repeat("a", 51), 0.8},
		{"101 chars", "title", strings.Repeat("a", 101), 0.9},
		{"exactly 100 chars", "title", strings.Repeat("a", 100), 0.8},
		{"multibyte counted as runes", "title", strings.Repeat("é", 6), 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.field, tt.value); got != tt.want {
				t.Errorf("Score(%q, %v) = %v, want %v", tt.field, tt.value, got, tt.want)
			}
		})
	}
}

func TestScore_Range(t *testing.T) {
	values := []any{"", "x", "jane@example.com", 42, 3.5, true, []any{"a"}, map[string]any{"k": 1}, strings.Repeat("z", 500)}
	names := []string{"email", "date", "id", "is_x", "has_y", "title", ""}
	for _, n := range names {
		for _, v := range values {
			got := Score(n, v)
			if got < 0 || got > 1 {
				t.Errorf("Score(%q, %v) = %v, out of range", n, v, got)
			}
			if again := Score(n, v); again != got {
				t.Errorf("Score(%q, %v) not deterministic: %v then %v", n, v, got, again)
			}
		}
	}
}

type panicky struct{}

func (panicky) String() string { panic("boom") }

func TestScoreAll(t *testing.T) {
	got := ScoreAll(map[string]any{
		"author.email": "jane@example.com",
		"user_id":      "abc",
		"broken":       panicky{},
		"tags[]":       []any{"a", "b"},
	})
	want := map[string]float64{
		"author.email": 1.0,
		"user_id":      0.5,
		"broken":       0.0,
		"tags[]":       0.6,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ScoreAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{float64(12345), "12345"},
		{1.5, "1.5"},
		{json.Number("12345.0"), "12345"},
		{7, "7"},
		{[]any{"a", 1.0}, `["a",1]`},
	}
	for _, tt := range tests {
		if got := Stringify(tt.value); got != tt.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
