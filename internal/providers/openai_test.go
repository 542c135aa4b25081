package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAIClient_Chat(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": `{"name":"Ada"}`},
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "be precise"},
			{Role: "user", Content: "extract"},
		},
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !result.Success || result.Content != `{"name":"Ada"}` {
		t.Errorf("result = %+v", result)
	}
	if result.PromptTokens != 12 || result.CompletionTokens != 5 {
		t.Errorf("tokens = %d/%d, want 12/5", result.PromptTokens, result.CompletionTokens)
	}
	if got, _ := payload["model"].(string); got != openAIDefaultModel {
		t.Errorf("model = %q, want %q", got, openAIDefaultModel)
	}
	rf, _ := payload["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", payload["response_format"])
	}
	msgs, _ := payload["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v, want 2", payload["messages"])
	}
	if first, _ := msgs[0].(map[string]any); first["role"] != "system" {
		t.Errorf("first role = %v, want system", first["role"])
	}
}

func TestOpenAIClient_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		MaxRetries: 0,
	})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "extract"}},
	})
	rle, ok := IsRateLimitError(err)
	if !ok {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}
	if rle.RetryAfter != 3*time.Second {
		t.Errorf("RetryAfter = %v, want 3s", rle.RetryAfter)
	}
	if result.Success {
		t.Error("expected Success = false")
	}
}
