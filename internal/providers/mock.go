package providers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing and offline runs.
//
// Responses are served in order; once exhausted the last one repeats.
// With no scripted responses ResponseText is returned. Respond, when set,
// takes precedence over both.
type MockClient struct {
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string
	Responses    []string
	Respond      func(req *ChatRequest) (string, error)

	mu           sync.Mutex
	next         int
	requestCount atomic.Int64
	lastRequest  *ChatRequest
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "{}",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Chat returns the next scripted response.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	result := &ChatResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockClientName,
		ModelUsed: req.Model,
		Attempts:  1,
	}

	if c.ShouldFail {
		return result, result.fail("mock_failure", fmt.Errorf("mock client configured to fail"), start)
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return result, result.fail("mock_failure", fmt.Errorf("mock client failed after %d requests", c.FailAfter), start)
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return result, result.fail("context_cancelled", ctx.Err(), start)
		}
	} else if err := ctx.Err(); err != nil {
		return result, result.fail("context_cancelled", err, start)
	}

	content, err := c.respond(req)
	if err != nil {
		return result, result.fail("mock_failure", err, start)
	}

	promptTokens := 0
	for _, m := range req.Messages {
		promptTokens += len(m.Content) / 4 // Rough estimate
	}
	result.Success = true
	result.Content = content
	result.PromptTokens = promptTokens
	result.CompletionTokens = len(content) / 4
	result.TotalTokens = result.PromptTokens + result.CompletionTokens
	result.ExecutionTime = time.Since(start)
	result.TotalTime = result.ExecutionTime
	return result, nil
}

func (c *MockClient) respond(req *ChatRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRequest = req

	if c.Respond != nil {
		return c.Respond(req)
	}
	if len(c.Responses) == 0 {
		return c.ResponseText, nil
	}
	i := c.next
	if i >= len(c.Responses) {
		i = len(c.Responses) - 1
	} else {
		c.next++
	}
	return c.Responses[i], nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastRequest returns the most recent request that reached the responder.
func (c *MockClient) LastRequest() *ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRequest
}

// Reset resets the request counter and script position.
func (c *MockClient) Reset() {
	c.mu.Lock()
	c.next = 0
	c.lastRequest = nil
	c.mu.Unlock()
	c.requestCount.Store(0)
}

var _ LLMClient = (*MockClient)(nil)
