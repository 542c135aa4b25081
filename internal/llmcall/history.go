package llmcall

import (
	"context"
	"sort"
)

// FieldHistory is the ordered call trail of one field within a run.
type FieldHistory struct {
	FieldPath    string `json:"field_path"`
	Calls        []Call `json:"calls"`
	Corrections  int    `json:"corrections"`
	Failures     int    `json:"failures"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	LatencyMs    int    `json:"latency_ms"`
}

// RunHistory groups the calls of one run by field, oldest call first.
type RunHistory struct {
	RunID  string         `json:"run_id"`
	Total  int            `json:"total"`
	Fields []FieldHistory `json:"fields"`
}

// History returns the calls recorded for runID grouped by field path.
// Fields are sorted by path; calls within a field by attempt, then time.
// A run whose calls were all evicted has no fields.
func (s *Store) History(ctx context.Context, runID string) (*RunHistory, error) {
	calls, err := s.List(ctx, QueryFilter{RunID: runID})
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]*FieldHistory)
	for _, c := range calls {
		fh, ok := byPath[c.FieldPath]
		if !ok {
			fh = &FieldHistory{FieldPath: c.FieldPath}
			byPath[c.FieldPath] = fh
		}
		fh.Calls = append(fh.Calls, c)
		if c.Kind == "correct" {
			fh.Corrections++
		}
		if !c.Success {
			fh.Failures++
		}
		fh.InputTokens += c.InputTokens
		fh.OutputTokens += c.OutputTokens
		fh.LatencyMs += c.LatencyMs
	}

	h := &RunHistory{RunID: runID, Total: len(calls), Fields: make([]FieldHistory, 0, len(byPath))}
	for _, fh := range byPath {
		sort.SliceStable(fh.Calls, func(i, j int) bool {
			a, b := fh.Calls[i], fh.Calls[j]
			if a.Attempt != b.Attempt {
				return a.Attempt < b.Attempt
			}
			return a.Timestamp.Before(b.Timestamp)
		})
		h.Fields = append(h.Fields, *fh)
	}
	sort.Slice(h.Fields, func(i, j int) bool {
		return h.Fields[i].FieldPath < h.Fields[j].FieldPath
	})
	return h, nil
}
