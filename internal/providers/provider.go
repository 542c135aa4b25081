// Package providers holds the LLM clients that back the extraction oracle.
package providers

import (
	"context"
	"time"
)

// LLMClient is the interface every chat completion backend implements.
type LLMClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openrouter").
	Name() string
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Timeout     time.Duration `json:"-"`

	// JSONMode asks the provider to return a single JSON object.
	JSONMode bool `json:"-"`

	RequestID string `json:"-"`
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	Content string `json:"content"`

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`
	TotalTime     time.Duration `json:"total_time"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	RequestID string `json:"request_id"`
	Attempts  int    `json:"attempts"`

	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// fail marks the result unsuccessful and returns err for chaining.
func (r *ChatResult) fail(errType string, err error, start time.Time) error {
	r.Success = false
	r.ErrorType = errType
	r.ErrorMessage = err.Error()
	r.TotalTime = time.Since(start)
	return err
}
