package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/hastd/internal/extract"
	"github.com/jackzampolin/hastd/internal/llmcall"
)

// DefaultSystemPrompt frames every oracle call.
const DefaultSystemPrompt = "You extract structured data from documents. " +
	"Answer with a single JSON object and nothing else."

// CallRecorder receives one entry per oracle call.
type CallRecorder interface {
	Add(call llmcall.Call) string
}

var _ CallRecorder = (*llmcall.Store)(nil)

// OracleConfig configures an Oracle.
type OracleConfig struct {
	Client   LLMClient
	Limiter  *RateLimiter // optional
	Recorder CallRecorder // optional
	Logger   *slog.Logger // optional

	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	SystemPrompt string

	// RateLimitRetries bounds how often a rate-limited call is retried
	// before the error reaches the orchestrator (default: 3).
	RateLimitRetries int
	RetryDelay       time.Duration // default: 1s
}

// Oracle adapts an LLMClient to extract.Oracle. Calls wait on the rate
// limiter, rate-limit errors are retried here without consuming an
// extraction attempt, and every call is recorded.
type Oracle struct {
	client       LLMClient
	limiter      *RateLimiter
	recorder     CallRecorder
	logger       *slog.Logger
	model        string
	temperature  float64
	maxTokens    int
	timeout      time.Duration
	systemPrompt string
	retries      int
	retryDelay   time.Duration
}

// NewOracle creates an Oracle around cfg.Client.
func NewOracle(cfg OracleConfig) (*Oracle, error) {
	if cfg.Client == nil {
		return nil, errors.New("oracle requires an LLM client")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.RateLimitRetries <= 0 {
		cfg.RateLimitRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	return &Oracle{
		client:       cfg.Client,
		limiter:      cfg.Limiter,
		recorder:     cfg.Recorder,
		logger:       cfg.Logger.With("provider", cfg.Client.Name()),
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		timeout:      cfg.Timeout,
		systemPrompt: cfg.SystemPrompt,
		retries:      cfg.RateLimitRetries,
		retryDelay:   cfg.RetryDelay,
	}, nil
}

// Complete sends prompt to the model in JSON mode and returns the raw reply.
func (o *Oracle) Complete(ctx context.Context, prompt string) (string, error) {
	info, _ := extract.CallInfoFrom(ctx)
	start := time.Now()

	req := &ChatRequest{
		Messages: []Message{
			{Role: "system", Content: o.systemPrompt},
			{Role: "user", Content: prompt},
		},
		Model:       o.model,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
		Timeout:     o.timeout,
		JSONMode:    true,
	}

	var result *ChatResult
	err := retry.Do(
		func() error {
			if o.limiter != nil {
				if err := o.limiter.Wait(ctx); err != nil {
					return retry.Unrecoverable(err)
				}
			}
			res, err := o.client.Chat(ctx, req)
			result = res
			if rle, ok := IsRateLimitError(err); ok {
				if o.limiter != nil {
					o.limiter.Record429(rle.RetryAfter)
				}
				o.logger.Warn("oracle.rate_limited",
					"path", info.Path,
					"retry_after_ms", rle.RetryAfter.Milliseconds())
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(o.retries)),
		retry.Delay(o.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			_, ok := IsRateLimitError(err)
			return ok
		}),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			if rle, ok := IsRateLimitError(err); ok && rle.RetryAfter > 0 {
				return rle.RetryAfter
			}
			return retry.BackOffDelay(n, err, config)
		}),
	)

	o.record(info, result, err, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%s chat failed: %w", o.client.Name(), err)
	}
	if result == nil {
		return "", fmt.Errorf("%s returned no result", o.client.Name())
	}
	return result.Content, nil
}

func (o *Oracle) record(info extract.CallInfo, result *ChatResult, err error, elapsed time.Duration) {
	if o.recorder == nil {
		return
	}
	call := llmcall.Call{
		LatencyMs:  int(elapsed.Milliseconds()),
		RunID:      info.RunID,
		FieldPath:  info.Path,
		Kind:       string(info.Kind),
		Attempt:    info.Attempt,
		PromptKey:  info.PromptKey,
		PromptHash: info.PromptHash,
		Provider:   o.client.Name(),
		Model:      o.model,
		Success:    err == nil,
	}
	if o.temperature > 0 {
		t := o.temperature
		call.Temperature = &t
	}
	if result != nil {
		if result.ModelUsed != "" {
			call.Model = result.ModelUsed
		}
		call.InputTokens = result.PromptTokens
		call.OutputTokens = result.CompletionTokens
		call.Response = result.Content
	}
	if err != nil {
		call.Error = err.Error()
	}
	o.recorder.Add(call)
}

var _ extract.Oracle = (*Oracle)(nil)
