package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

const (
	OpenRouterName    = "openrouter"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenRouterConfig holds configuration for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
	MaxRetries   int           // Max attempts per request (default: 3)
	RetryDelay   time.Duration // Base delay between retries (default: 1s)
	HTTPClient   *http.Client  // Optional (tests)
}

// OpenRouterClient implements LLMClient using the OpenRouter API.
type OpenRouterClient struct {
	apiKey       string
	baseURL      string
	defaultModel string
	timeout      time.Duration
	client       *http.Client
	maxRetries   int
	retryDelay   time.Duration
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenRouterBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "openai/gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenRouterClient{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		timeout:      cfg.Timeout,
		client:       httpClient,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
	}
}

// Name returns the client identifier.
func (c *OpenRouterClient) Name() string {
	return OpenRouterName
}

// Model returns the configured default model.
func (c *OpenRouterClient) Model() string {
	return c.defaultModel
}

// Chat sends a chat completion request.
func (c *OpenRouterClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	orReq := openRouterRequest{
		Model:       model,
		Messages:    make([]openRouterMessage, 0, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, m := range req.Messages {
		orReq.Messages = append(orReq.Messages, openRouterMessage{Role: m.Role, Content: m.Content})
	}
	if req.JSONMode {
		orReq.ResponseFormat = &openRouterResponseFormat{Type: "json_object"}
	}

	result := &ChatResult{
		RequestID: requestID,
		Provider:  OpenRouterName,
	}

	orResp, attempts, err := c.doRequest(ctx, &orReq)
	result.Attempts = attempts
	if err != nil {
		return result, result.fail("http_error", err, start)
	}

	content, err := orResp.content()
	if err != nil {
		return result, result.fail("content_marshal_error", err, start)
	}

	result.Success = true
	result.Content = content
	result.ModelUsed = orResp.Model
	result.PromptTokens = orResp.Usage.PromptTokens
	result.CompletionTokens = orResp.Usage.CompletionTokens
	result.TotalTokens = orResp.Usage.TotalTokens
	result.ExecutionTime = time.Since(start)
	result.TotalTime = result.ExecutionTime
	return result, nil
}

// doRequest posts the request, retrying transient failures. Retries after a
// failure carry a nonce so the upstream cache treats them as new requests.
func (c *OpenRouterClient) doRequest(ctx context.Context, orReq *openRouterRequest) (*openRouterResponse, int, error) {
	var (
		out      *openRouterResponse
		attempts int
	)
	err := retry.Do(
		func() error {
			attempts++
			resp, err := c.post(ctx, orReq)
			if err != nil {
				return err
			}
			out = resp
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(10*time.Second),
		retry.MaxJitter(maxJitter(c.retryDelay)),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, _ error) {
			injectNonce(orReq, int(n)+1)
		}),
	)
	if err != nil {
		return nil, attempts, err
	}
	return out, attempts, nil
}

func (c *OpenRouterClient) post(ctx context.Context, orReq *openRouterRequest) (*openRouterResponse, error) {
	bodyBytes, err := json.Marshal(orReq)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", "https://github.com/jackzampolin/hastd")
	req.Header.Set("X-Title", "hastd")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("OpenRouter rate limited: %s", string(respBody)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			StatusCode: resp.StatusCode,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: "OpenRouter", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var orResp openRouterResponse
	if err := json.Unmarshal(respBody, &orResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if err := orResp.check(); err != nil {
		return nil, err
	}
	return &orResp, nil
}

// maxJitter keeps the random component positive; retry.RandomDelay
// cannot draw from an empty range.
func maxJitter(base time.Duration) time.Duration {
	if j := base / 2; j > 0 {
		return j
	}
	return time.Millisecond
}

// injectNonce appends a unique comment to the last user message.
func injectNonce(req *openRouterRequest, attempt int) {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			nonce := uuid.New().String()[:16]
			req.Messages[i].Content += fmt.Sprintf("\n<!-- retry_%d_id: %s -->", attempt, nonce)
			return
		}
	}
}

type openRouterRequest struct {
	Model          string                    `json:"model"`
	Messages       []openRouterMessage       `json:"messages"`
	Temperature    float64                   `json:"temperature,omitempty"`
	MaxTokens      int                       `json:"max_tokens,omitempty"`
	ResponseFormat *openRouterResponseFormat `json:"response_format,omitempty"`
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterResponseFormat struct {
	Type string `json:"type"`
}

type openRouterResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content any    `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// check reports errors carried inside a 200 response.
func (r *openRouterResponse) check() error {
	if r.Error != nil {
		switch fmt.Sprintf("%v", r.Error.Code) {
		case "overloaded", "rate_limit_exceeded", "503", "502", "500":
			return &responseError{msg: "OpenRouter API error (retryable): " + r.Error.Message, retryable: true}
		}
		return &responseError{msg: "OpenRouter API error: " + r.Error.Message}
	}
	if len(r.Choices) == 0 {
		return &responseError{
			msg:       fmt.Sprintf("empty choices in response (model=%s, id=%s)", r.Model, r.ID),
			retryable: true,
		}
	}
	return nil
}

func (r *openRouterResponse) content() (string, error) {
	switch v := r.Choices[0].Message.Content.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal content: %w", err)
		}
		return string(b), nil
	}
}

var _ LLMClient = (*OpenRouterClient)(nil)
