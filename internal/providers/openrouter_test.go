package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":    "test-id",
		"model": "openai/gpt-4o-mini",
		"choices": []map[string]any{
			{
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     10,
			"completion_tokens": 8,
			"total_tokens":      18,
		},
	}
}

func TestOpenRouterClient_Chat(t *testing.T) {
	t.Run("successful chat", func(t *testing.T) {
		var payload openRouterRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method: %s", r.Method)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode body: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(chatCompletion(`{"title":"Report"}`))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:       "test-key",
			BaseURL:      server.URL,
			DefaultModel: "openai/gpt-4o-mini",
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "Hello"}},
			JSONMode: true,
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Error("expected Success = true")
		}
		if result.Content != `{"title":"Report"}` {
			t.Errorf("Content = %q", result.Content)
		}
		if result.TotalTokens != 18 || result.PromptTokens != 10 {
			t.Errorf("tokens = %d/%d, want 10/18", result.PromptTokens, result.TotalTokens)
		}
		if result.Attempts != 1 {
			t.Errorf("Attempts = %d, want 1", result.Attempts)
		}
		if payload.Model != "openai/gpt-4o-mini" {
			t.Errorf("model = %q, want default model", payload.Model)
		}
		if payload.ResponseFormat == nil || payload.ResponseFormat.Type != "json_object" {
			t.Errorf("response_format = %+v, want json_object", payload.ResponseFormat)
		}
	})

	t.Run("retries with nonce after server error", func(t *testing.T) {
		var calls atomic.Int32
		var lastContent atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req openRouterRequest
			json.NewDecoder(r.Body).Decode(&req)
			lastContent.Store(req.Messages[len(req.Messages)-1].Content)
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("upstream down"))
				return
			}
			json.NewEncoder(w).Encode(chatCompletion("ok"))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     "test-key",
			BaseURL:    server.URL,
			MaxRetries: 3,
			RetryDelay: time.Millisecond,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "Hello"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", result.Attempts)
		}
		if got, _ := lastContent.Load().(string); !strings.Contains(got, "retry_") {
			t.Errorf("last request content %q lacks retry nonce", got)
		}
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("bad key"))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     "test-key",
			BaseURL:    server.URL,
			RetryDelay: time.Millisecond,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "Hello"}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
			t.Errorf("error = %v, want StatusError 401", err)
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
		if result.Success || result.ErrorType != "http_error" {
			t.Errorf("result = %+v, want failed http_error", result)
		}
	})

	t.Run("rate limit surfaces after retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     "test-key",
			BaseURL:    server.URL,
			MaxRetries: 2,
			RetryDelay: time.Millisecond,
		})

		_, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "Hello"}},
		})
		rle, ok := IsRateLimitError(err)
		if !ok {
			t.Fatalf("expected RateLimitError, got %T: %v", err, err)
		}
		if rle.RetryAfter != 2*time.Second {
			t.Errorf("RetryAfter = %v, want 2s", rle.RetryAfter)
		}
	})

	t.Run("error in body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"code":"content_filter","message":"blocked"}}`))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: server.URL, RetryDelay: time.Millisecond})
		_, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "Hello"}},
		})
		if err == nil || !strings.Contains(err.Error(), "blocked") {
			t.Errorf("error = %v, want body error", err)
		}
	})
}

func TestOpenRouterClient_Config(t *testing.T) {
	c := NewOpenRouterClient(OpenRouterConfig{APIKey: "k"})
	if c.Name() != OpenRouterName {
		t.Errorf("Name() = %q", c.Name())
	}
	if c.baseURL != OpenRouterBaseURL {
		t.Errorf("baseURL = %q, want default", c.baseURL)
	}
	if c.maxRetries != 3 || c.retryDelay != time.Second {
		t.Errorf("retry defaults = %d/%v, want 3/1s", c.maxRetries, c.retryDelay)
	}
	if c.Model() == "" {
		t.Error("expected a default model")
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{"0.5", 500 * time.Millisecond},
		{"-1", 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.in); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 {
		t.Errorf("parseRetryAfter(date) = %v, want positive", got)
	}
}
