// Package extract drives one field-extraction task through a bounded
// extract, validate, correct cycle against an injected oracle and validator.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackzampolin/hastd/internal/prompts"
	"github.com/jackzampolin/hastd/internal/schema"
	"github.com/jackzampolin/hastd/internal/validate"
)

// DefaultMaxAttempts bounds oracle round trips per task when the caller
// passes a non-positive limit.
const DefaultMaxAttempts = 3

// maxLoggedResponse caps raw oracle text in debug logs.
const maxLoggedResponse = 300

// Attempt records one oracle round trip.
type Attempt struct {
	Number     int           `json:"number"`
	Kind       CallKind      `json:"kind"`
	PromptHash string        `json:"prompt_hash,omitempty"`
	Response   string        `json:"response,omitempty"`
	Value      any           `json:"value,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// Outcome is the terminal result of one task run.
type Outcome struct {
	Path         string    `json:"path"`
	Value        any       `json:"value,omitempty"`
	Errors       []string  `json:"errors,omitempty"`
	AttemptsUsed int       `json:"attempts_used"`
	State        State     `json:"state"`
	Corrected    bool      `json:"corrected"`
	History      []Attempt `json:"history,omitempty"`
}

// Succeeded reports whether a value was accepted.
func (o Outcome) Succeeded() bool {
	return o.State == StateSucceeded
}

// LastError returns the most recent failure message, or "".
func (o Outcome) LastError() string {
	if len(o.Errors) == 0 {
		return ""
	}
	return o.Errors[len(o.Errors)-1]
}

// runState is the mutable per-task state. It never escapes Run.
type runState struct {
	state         State
	attempt       int
	maxAttempts   int
	value         any
	validationErr string
}

// Orchestrator runs extraction tasks. It holds no per-task state, so one
// Orchestrator may run many tasks concurrently.
type Orchestrator struct {
	oracle    Oracle
	validator Validator
	prompts   *prompts.Resolver
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPrompts resolves prompt templates through r. The extraction and
// correction templates are registered on r if missing.
func WithPrompts(r *prompts.Resolver) Option {
	return func(o *Orchestrator) {
		if r == nil {
			return
		}
		if _, err := r.Resolve(ExtractPromptKey); err != nil {
			RegisterPrompts(r)
		}
		o.prompts = r
	}
}

// New creates an Orchestrator. oracle and validator are required.
func New(oracle Oracle, validator Validator, opts ...Option) (*Orchestrator, error) {
	if oracle == nil {
		return nil, errors.New("extract: oracle is required")
	}
	if validator == nil {
		return nil, errors.New("extract: validator is required")
	}

	o := &Orchestrator{
		oracle:    oracle,
		validator: validator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.prompts == nil {
		o.prompts = prompts.NewResolver(o.logger)
		RegisterPrompts(o.prompts)
	}
	return o, nil
}

// Run drives task to SUCCEEDED or FAILED using at most maxAttempts oracle
// calls. Oracle failures and unparseable responses are failed attempts, not
// errors; Run itself never fails.
func (o *Orchestrator) Run(ctx context.Context, task schema.Task, documentText string, maxAttempts int) Outcome {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	field := validate.ForTask(task)
	key := field.Name
	logger := o.logger.With("path", task.Path)
	base, _ := CallInfoFrom(ctx)

	rs := &runState{state: StatePending, maxAttempts: maxAttempts}
	out := Outcome{Path: task.Path}

	logger.Debug("extract.task.start", "type", task.Type, "max_attempts", maxAttempts)
	rs.state = transition(rs.state, StateExtracting)
	kind := KindExtract

	for {
		if err := ctx.Err(); err != nil {
			rs.state = transition(rs.state, StateFailed)
			out.Errors = append(out.Errors, err.Error())
			logger.Warn("extract.task.cancelled", "attempt", rs.attempt, "error", err)
			break
		}

		prompt, resolved, err := o.buildPrompt(kind, task, documentText, rs)
		if err != nil {
			rs.state = transition(rs.state, StateFailed)
			out.Errors = append(out.Errors, err.Error())
			logger.Error("extract.prompt.failed", "kind", kind, "error", err)
			break
		}

		rs.attempt++
		info := base
		info.Path = task.Path
		info.Kind = kind
		info.Attempt = rs.attempt
		info.PromptKey = resolved.Key
		info.PromptHash = resolved.Hash

		start := time.Now()
		raw, callErr := o.oracle.Complete(WithCallInfo(ctx, info), prompt)
		rec := Attempt{
			Number:     rs.attempt,
			Kind:       kind,
			PromptHash: resolved.Hash,
			Response:   raw,
			Duration:   time.Since(start),
		}

		if callErr != nil {
			rs.value = MalformedOutput{Raw: raw, Reason: fmt.Sprintf("oracle call failed: %v", callErr)}
			logger.Warn("extract.oracle.failed", "attempt", rs.attempt, "error", callErr)
		} else if value, perr := ParseFieldResponse(raw, key); perr != nil {
			rs.value = MalformedOutput{Raw: raw, Reason: perr.Error()}
			logger.Debug("extract.parse.failed", "attempt", rs.attempt, "error", perr, "response", truncate(raw, maxLoggedResponse))
		} else {
			rs.value = value
		}

		rs.state = transition(rs.state, StateValidating)
		rs.validationErr = o.check(ctx, rs.value, key, field)
		rec.Value = rs.value
		rec.Error = rs.validationErr
		out.History = append(out.History, rec)

		if rs.validationErr == "" {
			rs.state = transition(rs.state, StateSucceeded)
			out.Value = rs.value
			out.Corrected = kind == KindCorrect
			logger.Debug("extract.task.succeeded", "attempt", rs.attempt, "corrected", out.Corrected)
			break
		}

		out.Errors = append(out.Errors, rs.validationErr)
		logger.Debug("extract.validate.failed", "attempt", rs.attempt, "error", rs.validationErr)

		if rs.attempt >= rs.maxAttempts {
			rs.state = transition(rs.state, StateFailed)
			logger.Info("extract.task.failed", "attempts", rs.attempt, "error", rs.validationErr)
			break
		}
		rs.state = transition(rs.state, StateCorrecting)
		kind = KindCorrect
	}

	out.State = rs.state
	out.AttemptsUsed = rs.attempt
	return out
}

// check returns "" when value is acceptable, otherwise the failure text.
// Malformed candidates fail without consulting the validator.
func (o *Orchestrator) check(ctx context.Context, value any, key string, field validate.FieldSchema) string {
	if m, ok := value.(MalformedOutput); ok {
		return m.String()
	}
	if err := o.validator.Validate(ctx, map[string]any{key: value}, field); err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "validation failed"
		}
		return msg
	}
	return ""
}

func (o *Orchestrator) buildPrompt(kind CallKind, task schema.Task, documentText string, rs *runState) (string, *prompts.ResolvedPrompt, error) {
	data := newPromptData(task, documentText)
	key := ExtractPromptKey
	if kind == KindCorrect {
		key = CorrectPromptKey
		data.Previous = describePrevious(data.Name, rs.value)
		data.Errors = rs.validationErr
	}
	text, resolved, err := o.prompts.RenderKey(key, data)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build %s prompt: %w", kind, err)
	}
	return text, resolved, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
