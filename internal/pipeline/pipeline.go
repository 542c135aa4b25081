// Package pipeline runs a whole extraction: decompose the schema, schedule
// its fields, extract each one, score and merge the accepted values.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/hastd/internal/confidence"
	"github.com/jackzampolin/hastd/internal/extract"
	"github.com/jackzampolin/hastd/internal/jobs"
	"github.com/jackzampolin/hastd/internal/merge"
	"github.com/jackzampolin/hastd/internal/schema"
	"github.com/jackzampolin/hastd/internal/textprep"
)

var (
	// ErrNoTasks is returned when a schema yields no extractable fields.
	ErrNoTasks = errors.New("schema has no extractable fields")
	// ErrEmptyDocument is returned when the document text is blank.
	ErrEmptyDocument = errors.New("document text is empty")
)

// Options are per-run settings. Zero values take the defaults.
type Options struct {
	MaxAttempts      int `json:"max_attempts" yaml:"max_attempts"`             // Oracle calls per field (default: 3)
	Concurrency      int `json:"concurrency" yaml:"concurrency"`               // Fields extracted at once (default: 1)
	MaxDocumentChars int `json:"max_document_chars" yaml:"max_document_chars"` // Cut the document at a chunk boundary (0 = unlimited)
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = extract.DefaultMaxAttempts
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.MaxDocumentChars < 0 {
		o.MaxDocumentChars = 0
	}
	return o
}

// overlay returns o with every positive field of override applied.
func (o Options) overlay(override Options) Options {
	if override.MaxAttempts > 0 {
		o.MaxAttempts = override.MaxAttempts
	}
	if override.Concurrency > 0 {
		o.Concurrency = override.Concurrency
	}
	if override.MaxDocumentChars > 0 {
		o.MaxDocumentChars = override.MaxDocumentChars
	}
	return o
}

// Config configures a Pipeline.
type Config struct {
	Orchestrator *extract.Orchestrator
	Options      Options
	Logger       *slog.Logger
}

// Pipeline runs extractions. It is safe for concurrent use; each Run owns
// its own document.
type Pipeline struct {
	orch   *extract.Orchestrator
	opts   Options
	logger *slog.Logger
}

// New creates a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Orchestrator == nil {
		return nil, errors.New("pipeline: orchestrator is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		orch:   cfg.Orchestrator,
		opts:   cfg.Options.withDefaults(),
		logger: logger,
	}, nil
}

// Options returns the pipeline defaults.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Input is one extraction request.
type Input struct {
	Schema   *schema.Schema
	Document string
	// Options override the pipeline defaults where positive.
	Options Options
}

// Run extracts every field of in.Schema from in.Document. Only configuration
// faults (no fields, empty document) return an error; per-field failures are
// reported in the Result.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	opts := p.opts.overlay(in.Options)

	plan, err := NewPlan(in.Schema)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Document) == "" {
		return nil, ErrEmptyDocument
	}

	document := in.Document
	truncated := false
	if opts.MaxDocumentChars > 0 {
		document, truncated = textprep.Window(document, opts.MaxDocumentChars)
	}

	runID := uuid.New().String()
	logger := p.logger.With("run_id", runID)
	tasks := plan.Scheduled()

	logger.Info("pipeline.run.start",
		"tasks", len(tasks),
		"nodes", len(plan.Order),
		"levels", len(plan.Levels),
		"concurrency", opts.Concurrency,
		"max_attempts", opts.MaxAttempts,
		"document_chars", len(document),
		"truncated", truncated)
	for _, w := range plan.Warnings {
		logger.Warn("pipeline.schema.warning", "warning", w)
	}

	ctx = extract.WithCallInfo(ctx, extract.CallInfo{RunID: runID})
	c := newCollector(runID, len(tasks), logger)

	if opts.Concurrency > 1 && len(tasks) > 1 {
		err = p.runConcurrent(ctx, tasks, document, opts, c)
	} else {
		p.runSequential(ctx, tasks, document, opts, c)
	}
	if err != nil {
		return nil, err
	}

	res := c.result()
	res.Order = plan.Order
	res.Warnings = plan.Warnings
	res.Truncated = truncated
	res.Duration = time.Since(start)

	logger.Info("pipeline.run.complete",
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"elapsed_ms", res.Duration.Milliseconds())
	return res, nil
}

func (p *Pipeline) runSequential(ctx context.Context, tasks []schema.Task, document string, opts Options, c *collector) {
	for _, task := range tasks {
		c.add(task, p.orch.Run(ctx, task, document, opts.MaxAttempts))
	}
}

// runConcurrent extracts on a worker pool and merges in schedule order, so
// array appends follow the schedule rather than completion order.
func (p *Pipeline) runConcurrent(ctx context.Context, tasks []schema.Task, document string, opts Options, c *collector) error {
	pool, err := jobs.NewWorkerPool(jobs.PoolConfig{
		Name:        "extract",
		Logger:      p.logger,
		WorkerCount: opts.Concurrency,
		QueueSize:   len(tasks),
		Handler: func(ctx context.Context, unit *jobs.WorkUnit) (any, error) {
			task := unit.Payload.(schema.Task)
			return p.orch.Run(ctx, task, document, opts.MaxAttempts), nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}

	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool.Start(poolCtx)

	for i, task := range tasks {
		if err := pool.Submit(&jobs.WorkUnit{ID: task.Path, Seq: i, Key: task.Path, Payload: task}); err != nil {
			pool.Close()
			return fmt.Errorf("failed to submit %s: %w", task.Path, err)
		}
	}
	pool.Close()

	buf := jobs.NewSequenceBuffer()
	received := make(map[int]bool, len(tasks))
	drain := func() {
		for _, r := range buf.Ready() {
			c.add(tasks[r.Seq], outcomeOf(tasks[r.Seq], r))
		}
	}

	for r := range pool.Results() {
		received[r.Seq] = true
		buf.Push(r)
		drain()
		if len(received) == len(tasks) {
			break
		}
	}

	// Units never picked up because the context ended still get a result.
	for i := range tasks {
		if !received[i] {
			buf.Push(jobs.WorkResult{Seq: i, Key: tasks[i].Path, Err: notRun(ctx)})
		}
	}
	drain()
	return nil
}

func outcomeOf(task schema.Task, r jobs.WorkResult) extract.Outcome {
	if out, ok := r.Value.(extract.Outcome); ok && r.Err == nil {
		return out
	}
	msg := "field was not extracted"
	if r.Err != nil {
		msg = r.Err.Error()
	}
	return extract.Outcome{Path: task.Path, State: extract.StateFailed, Errors: []string{msg}}
}

func notRun(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.New("field was not extracted")
}

// collector merges outcomes in the order they are added.
type collector struct {
	runID     string
	logger    *slog.Logger
	doc       *merge.Document
	corrected *merge.Document
	res       *Result
}

func newCollector(runID string, n int, logger *slog.Logger) *collector {
	return &collector{
		runID:     runID,
		logger:    logger,
		doc:       merge.New(),
		corrected: merge.New(),
		res: &Result{
			RunID:       runID,
			Confidence:  make(map[string]float64, n),
			FieldErrors: make(map[string][]string),
			Fields:      make([]FieldResult, 0, n),
		},
	}
}

func (c *collector) add(task schema.Task, out extract.Outcome) {
	fr := FieldResult{
		Path:         task.Path,
		State:        out.State,
		AttemptsUsed: out.AttemptsUsed,
		Corrected:    out.Corrected,
		Errors:       out.Errors,
	}
	if msg := out.LastError(); msg != "" {
		c.res.LastError = msg
	}

	if !out.Succeeded() {
		c.res.Failed++
		c.res.FieldErrors[task.Path] = append([]string(nil), out.Errors...)
		c.res.Confidence[task.Path] = 0.0
		c.res.Fields = append(c.res.Fields, fr)
		c.logger.Info("pipeline.field.failed", "path", task.Path, "attempts", out.AttemptsUsed, "error", out.LastError())
		return
	}

	fr.Value = out.Value
	fr.Confidence = confidence.ScoreAll(map[string]any{task.Path: out.Value})[task.Path]
	c.res.Confidence[task.Path] = fr.Confidence

	if err := mergeValue(c.doc, task, out.Value); err != nil {
		fr.MergeError = err.Error()
		c.res.Failed++
		c.res.FieldErrors[task.Path] = append(c.res.FieldErrors[task.Path], err.Error())
		c.res.LastError = err.Error()
		c.logger.Warn("pipeline.merge.conflict", "path", task.Path, "error", err)
	} else {
		c.res.Succeeded++
		if out.Corrected {
			if err := mergeValue(c.corrected, task, out.Value); err != nil {
				c.logger.Warn("pipeline.merge.conflict", "path", task.Path, "document", "corrected", "error", err)
			}
		}
		c.logger.Debug("pipeline.field.merged", "path", task.Path, "attempts", out.AttemptsUsed, "confidence", fr.Confidence)
	}
	c.res.Fields = append(c.res.Fields, fr)
}

func (c *collector) result() *Result {
	c.res.Document = c.doc.Data()
	c.res.Corrected = c.corrected.Data()
	return c.res
}

// mergeValue writes an accepted value. An optional field reported as null is
// left out. An array leaf's list is spread into the target list.
func mergeValue(doc *merge.Document, task schema.Task, value any) error {
	if value == nil {
		return nil
	}
	if task.IsArrayLeaf() {
		if list, ok := value.([]any); ok {
			return doc.Extend(task.Path, list)
		}
	}
	return doc.Merge(task.Path, value)
}
