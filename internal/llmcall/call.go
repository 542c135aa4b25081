// Package llmcall records every oracle round trip for traceability.
// Each call carries the run, field path and prompt version it served.
package llmcall

import (
	"time"
)

// Call represents a recorded LLM API call.
type Call struct {
	ID string `json:"id"`

	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Extraction context
	RunID     string `json:"run_id,omitempty"`
	FieldPath string `json:"field_path,omitempty"`
	Kind      string `json:"kind,omitempty"` // "extract" or "correct"
	Attempt   int    `json:"attempt,omitempty"`

	// Prompt traceability
	PromptKey  string `json:"prompt_key"`
	PromptHash string `json:"prompt_hash,omitempty"` // sha256 of the template that produced the prompt

	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature,omitempty"`

	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	Response string `json:"response"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Matches reports whether the call passes every set field of f.
// Limit and Offset are ignored.
func (c *Call) Matches(f QueryFilter) bool {
	switch {
	case f.RunID != "" && c.RunID != f.RunID:
		return false
	case f.FieldPath != "" && c.FieldPath != f.FieldPath:
		return false
	case f.Kind != "" && c.Kind != f.Kind:
		return false
	case f.PromptKey != "" && c.PromptKey != f.PromptKey:
		return false
	case f.Provider != "" && c.Provider != f.Provider:
		return false
	case f.Model != "" && c.Model != f.Model:
		return false
	case f.Success != nil && c.Success != *f.Success:
		return false
	case f.After != nil && !c.Timestamp.After(*f.After):
		return false
	case f.Before != nil && !c.Timestamp.Before(*f.Before):
		return false
	}
	return true
}
