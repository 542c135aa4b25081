package metrics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/hastd/internal/llmcall"
)

func seedStore(t *testing.T) *llmcall.Store {
	t.Helper()
	s := llmcall.NewStore(100)
	for _, c := range []llmcall.Call{
		{RunID: "r1", FieldPath: "title", Kind: "extract", Provider: "p1", Model: "m", PromptKey: "extract.field", InputTokens: 100, OutputTokens: 10, LatencyMs: 100, Success: true},
		{RunID: "r1", FieldPath: "year", Kind: "extract", Provider: "p1", Model: "m", PromptKey: "extract.field", InputTokens: 100, OutputTokens: 10, LatencyMs: 200, Success: true},
		{RunID: "r1", FieldPath: "year", Kind: "correct", Provider: "p1", Model: "m", PromptKey: "extract.correct", InputTokens: 150, OutputTokens: 10, LatencyMs: 300, Success: true},
		{RunID: "r2", FieldPath: "title", Kind: "extract", Provider: "p2", Model: "n", PromptKey: "extract.field", LatencyMs: 400, Success: false, Error: "timeout"},
	} {
		s.Add(c)
	}
	return s
}

func TestQuery_GetSummary(t *testing.T) {
	q := NewQuery(seedStore(t))

	got, err := q.GetSummary(context.Background(), llmcall.QueryFilter{})
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}
	want := &Summary{
		Count:        4,
		SuccessCount: 3,
		ErrorCount:   1,
		Runs:         2,
		Fields:       3,
		TotalTokens:  380,
		AvgTokens:    95,
		TotalTimeMs:  1000,
		AvgTimeMs:    250,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetSummary() mismatch (-want +got):\n%s", diff)
	}

	empty, err := q.GetSummary(context.Background(), llmcall.QueryFilter{RunID: "missing"})
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}
	if empty.Count != 0 || empty.AvgTokens != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestQuery_GetDetailedStats(t *testing.T) {
	q := NewQuery(seedStore(t))

	got, err := q.GetDetailedStats(context.Background(), llmcall.QueryFilter{RunID: "r1"})
	if err != nil {
		t.Fatalf("GetDetailedStats() error = %v", err)
	}
	if got.Count != 3 || got.TotalInputTokens != 350 || got.TotalOutputTokens != 30 || got.TotalTokens != 380 {
		t.Errorf("token stats = %+v", got)
	}
	if got.LatencyMin != 100 || got.LatencyMax != 300 || got.LatencyP50 != 200 || got.LatencyAvg != 200 {
		t.Errorf("latency stats = %+v", got)
	}
	if math.Abs(got.LatencyP95-290) > 1e-9 {
		t.Errorf("LatencyP95 = %v, want 290", got.LatencyP95)
	}
}

func TestQuery_StatsBy(t *testing.T) {
	q := NewQuery(seedStore(t))

	byKind, err := q.StatsBy(context.Background(), llmcall.QueryFilter{RunID: "r1"}, ByKind)
	if err != nil {
		t.Fatalf("StatsBy() error = %v", err)
	}
	if len(byKind) != 2 || byKind["extract"].Count != 2 || byKind["correct"].Count != 1 {
		t.Errorf("StatsBy(kind) = %+v", byKind)
	}

	byProvider, err := q.StatsBy(context.Background(), llmcall.QueryFilter{}, ByProvider)
	if err != nil {
		t.Fatalf("StatsBy() error = %v", err)
	}
	if byProvider["p2"].ErrorCount != 1 || byProvider["p1"].SuccessCount != 3 {
		t.Errorf("StatsBy(provider) = %+v", byProvider)
	}
}

func TestQuery_TokensBy(t *testing.T) {
	q := NewQuery(seedStore(t))

	got, err := q.TokensBy(context.Background(), llmcall.QueryFilter{}, ByField)
	if err != nil {
		t.Fatalf("TokensBy() error = %v", err)
	}
	if diff := cmp.Diff(map[string]int{"title": 110, "year": 270}, got); diff != "" {
		t.Errorf("TokensBy(field) mismatch (-want +got):\n%s", diff)
	}
}

type failingSource struct{}

func (failingSource) List(context.Context, llmcall.QueryFilter) ([]llmcall.Call, error) {
	return nil, errors.New("boom")
}

func TestQuery_SourceError(t *testing.T) {
	q := NewQuery(failingSource{})
	if _, err := q.GetSummary(context.Background(), llmcall.QueryFilter{}); err == nil {
		t.Error("expected error from failing source")
	}
}

func TestParseDimension(t *testing.T) {
	for _, d := range Dimensions {
		got, err := ParseDimension(string(d))
		if err != nil || got != d {
			t.Errorf("ParseDimension(%q) = %q, %v", d, got, err)
		}
	}
	if _, err := ParseDimension("colour"); err == nil {
		t.Error("expected error for unknown dimension")
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 50, 0},
		{"single", []float64{7}, 99, 7},
		{"median of even", []float64{1, 2, 3, 4}, 50, 2.5},
		{"max", []float64{1, 2, 3}, 100, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.sorted, tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("percentile() = %v, want %v", got, tt.want)
			}
		})
	}
}
