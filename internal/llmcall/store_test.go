package llmcall

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func ids(calls []Call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.ID
	}
	return out
}

func TestStore_AddAndGet(t *testing.T) {
	s := NewStore(10)
	ctx := context.Background()

	id := s.Add(Call{PromptKey: "extract.field", FieldPath: "title", Success: true})
	if id == "" {
		t.Fatal("Add() returned empty ID")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil, want call")
	}
	if got.FieldPath != "title" || got.Timestamp.IsZero() {
		t.Errorf("Get() = %+v, want path title with timestamp", got)
	}

	missing, err := s.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if missing != nil {
		t.Errorf("Get(unknown) = %+v, want nil", missing)
	}
}

func TestStore_Eviction(t *testing.T) {
	s := NewStore(3)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		s.Add(Call{ID: id})
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	calls, err := s.List(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if diff := cmp.Diff([]string{"e", "d", "c"}, ids(calls)); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	if got, _ := s.Get(ctx, "a"); got != nil {
		t.Errorf("Get(evicted) = %+v, want nil", got)
	}
	if got, _ := s.Get(ctx, "d"); got == nil || got.ID != "d" {
		t.Errorf("Get(d) = %+v, want d", got)
	}
}

func TestStore_ListFilter(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Add(Call{ID: "1", RunID: "r1", FieldPath: "title", Kind: "extract", PromptKey: "extract.field", Success: true, Timestamp: base})
	s.Add(Call{ID: "2", RunID: "r1", FieldPath: "title", Kind: "correct", PromptKey: "extract.correct", Success: false, Timestamp: base.Add(time.Minute)})
	s.Add(Call{ID: "3", RunID: "r2", FieldPath: "author.name", Kind: "extract", PromptKey: "extract.field", Success: true, Timestamp: base.Add(2 * time.Minute)})

	failed := false
	after := base.Add(30 * time.Second)

	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{"all newest first", QueryFilter{}, []string{"3", "2", "1"}},
		{"by run", QueryFilter{RunID: "r1"}, []string{"2", "1"}},
		{"by kind", QueryFilter{Kind: "extract"}, []string{"3", "1"}},
		{"by path", QueryFilter{FieldPath: "author.name"}, []string{"3"}},
		{"failures", QueryFilter{Success: &failed}, []string{"2"}},
		{"after", QueryFilter{After: &after}, []string{"3", "2"}},
		{"limit", QueryFilter{Limit: 2}, []string{"3", "2"}},
		{"offset", QueryFilter{Offset: 1, Limit: 1}, []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, err := s.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(calls)); diff != "" {
				t.Errorf("List() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_CountByPromptKey(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()

	s.Add(Call{RunID: "r1", PromptKey: "extract.field"})
	s.Add(Call{RunID: "r1", PromptKey: "extract.correct"})
	s.Add(Call{RunID: "r1", PromptKey: "extract.correct"})
	s.Add(Call{RunID: "r2", PromptKey: "extract.field"})

	counts, err := s.CountByPromptKey(ctx, "r1")
	if err != nil {
		t.Fatalf("CountByPromptKey() error = %v", err)
	}
	want := map[string]int{"extract.field": 1, "extract.correct": 2}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("CountByPromptKey() mismatch (-want +got):\n%s", diff)
	}

	all, err := s.CountByPromptKey(ctx, "")
	if err != nil {
		t.Fatalf("CountByPromptKey() error = %v", err)
	}
	if all["extract.field"] != 2 {
		t.Errorf("all[extract.field] = %d, want 2", all["extract.field"])
	}
}

func TestStore_History(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Add(Call{ID: "y2", RunID: "r1", FieldPath: "year", Kind: "correct", Attempt: 2, Success: true, InputTokens: 7, LatencyMs: 20, Timestamp: base.Add(3 * time.Second)})
	s.Add(Call{ID: "t1", RunID: "r1", FieldPath: "title", Kind: "extract", Attempt: 1, Success: true, InputTokens: 5, LatencyMs: 10, Timestamp: base.Add(time.Second)})
	s.Add(Call{ID: "y1", RunID: "r1", FieldPath: "year", Kind: "extract", Attempt: 1, Success: false, Error: "timeout", InputTokens: 4, LatencyMs: 30, Timestamp: base.Add(2 * time.Second)})
	s.Add(Call{ID: "other", RunID: "r2", FieldPath: "year", Kind: "extract", Attempt: 1, Success: true})

	h, err := s.History(ctx, "r1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if h.RunID != "r1" || h.Total != 3 {
		t.Fatalf("History() = %+v, want 3 calls for r1", h)
	}

	var paths []string
	for _, f := range h.Fields {
		paths = append(paths, f.FieldPath)
	}
	if diff := cmp.Diff([]string{"title", "year"}, paths); diff != "" {
		t.Fatalf("field paths mismatch (-want +got):\n%s", diff)
	}

	year := h.Fields[1]
	if diff := cmp.Diff([]string{"y1", "y2"}, ids(year.Calls)); diff != "" {
		t.Errorf("year calls mismatch (-want +got):\n%s", diff)
	}
	if year.Corrections != 1 || year.Failures != 1 || year.InputTokens != 11 || year.LatencyMs != 50 {
		t.Errorf("year totals = %+v", year)
	}

	empty, err := s.History(ctx, "missing")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if empty.Total != 0 || len(empty.Fields) != 0 {
		t.Errorf("History(missing) = %+v, want empty", empty)
	}
}
