package pipeline

import (
	"time"

	"github.com/jackzampolin/hastd/internal/extract"
)

// FieldResult is the per-field summary of one run.
type FieldResult struct {
	Path         string        `json:"path"`
	State        extract.State `json:"state"`
	Value        any           `json:"value,omitempty"`
	Confidence   float64       `json:"confidence"`
	AttemptsUsed int           `json:"attempts_used"`
	Corrected    bool          `json:"corrected"`
	Errors       []string      `json:"errors,omitempty"`
	MergeError   string        `json:"merge_error,omitempty"`
}

// Result is the outcome of a whole run. Document is best effort: failed
// fields are absent and explained in FieldErrors.
type Result struct {
	RunID       string              `json:"run_id"`
	Document    map[string]any      `json:"extracted_data"`
	Corrected   map[string]any      `json:"corrected_data"`
	Confidence  map[string]float64  `json:"confidence_scores"`
	FieldErrors map[string][]string `json:"errors"`
	Fields      []FieldResult       `json:"fields"`
	LastError   string              `json:"last_error,omitempty"`
	Order       []string            `json:"order"`
	Warnings    []string            `json:"warnings,omitempty"`
	Truncated   bool                `json:"document_truncated,omitempty"`
	Succeeded   int                 `json:"succeeded"`
	Failed      int                 `json:"failed"`
	Duration    time.Duration       `json:"duration_ns"`
}

// Complete reports whether every field was extracted and merged.
func (r *Result) Complete() bool {
	return r.Failed == 0 && len(r.FieldErrors) == 0
}
