// Package jobcfg builds extraction runs from the live configuration.
// Settings are read when a run is created, so a config reload applies to the
// next request without restarting the server.
package jobcfg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/hastd/internal/config"
	"github.com/jackzampolin/hastd/internal/extract"
	"github.com/jackzampolin/hastd/internal/pipeline"
	"github.com/jackzampolin/hastd/internal/prompts"
	"github.com/jackzampolin/hastd/internal/providers"
)

// ErrUnknownProvider is returned when the requested provider is not
// configured or has no usable credentials.
var ErrUnknownProvider = errors.New("unknown llm provider")

// ConfigSource supplies the configuration in effect. *config.Manager
// satisfies it.
type ConfigSource interface {
	Get() *config.Config
}

var _ ConfigSource = (*config.Manager)(nil)

// Overrides are per-request settings. Zero values fall back to config.
type Overrides struct {
	Provider         string
	Model            string
	MaxAttempts      int
	Concurrency      int
	MaxDocumentChars int
}

// RunConfig is the resolved configuration of one run.
type RunConfig struct {
	Provider string           `json:"provider" yaml:"provider"`
	Model    string           `json:"model,omitempty" yaml:"model,omitempty"`
	Options  pipeline.Options `json:"options" yaml:"options"`
}

// BuilderConfig configures a Builder.
type BuilderConfig struct {
	Config    ConfigSource
	Registry  *providers.Registry
	Recorder  providers.CallRecorder // optional
	Prompts   *prompts.Resolver      // optional
	Validator extract.Validator
	Logger    *slog.Logger
}

// Builder turns the current config plus request overrides into a ready
// pipeline.
type Builder struct {
	cfg       ConfigSource
	registry  *providers.Registry
	recorder  providers.CallRecorder
	prompts   *prompts.Resolver
	validator extract.Validator
	logger    *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if cfg.Config == nil {
		return nil, errors.New("jobcfg: config source is required")
	}
	if cfg.Registry == nil {
		return nil, errors.New("jobcfg: provider registry is required")
	}
	if cfg.Validator == nil {
		return nil, errors.New("jobcfg: validator is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Builder{
		cfg:       cfg.Config,
		registry:  cfg.Registry,
		recorder:  cfg.Recorder,
		prompts:   cfg.Prompts,
		validator: cfg.Validator,
		logger:    cfg.Logger,
	}, nil
}

// RunConfig resolves the provider and options for a run.
func (b *Builder) RunConfig(ctx context.Context, o Overrides) (RunConfig, error) {
	cfg := b.cfg.Get()

	name := o.Provider
	if name == "" {
		name = cfg.Defaults.LLMProvider
	}
	if !b.registry.HasLLM(name) {
		return RunConfig{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProvider, name, b.registry.ListLLM())
	}

	model := o.Model
	if model == "" {
		if pc, ok := b.registry.Config(name); ok {
			model = pc.Model
		}
	}

	opts := pipeline.Options{
		MaxAttempts:      cfg.Extraction.MaxAttempts,
		Concurrency:      cfg.Concurrency(),
		MaxDocumentChars: cfg.Extraction.MaxDocumentChars,
	}
	if o.MaxAttempts > 0 {
		opts.MaxAttempts = o.MaxAttempts
	}
	if o.Concurrency > 0 {
		opts.Concurrency = o.Concurrency
		if limit := cfg.Defaults.MaxWorkers; limit > 0 && opts.Concurrency > limit {
			b.logger.Debug("jobcfg.concurrency.clamped", "requested", o.Concurrency, "max_workers", limit)
			opts.Concurrency = limit
		}
	}
	if o.MaxDocumentChars > 0 {
		opts.MaxDocumentChars = o.MaxDocumentChars
	}

	return RunConfig{Provider: name, Model: model, Options: opts}, nil
}

// Pipeline builds a pipeline wired to the resolved provider.
func (b *Builder) Pipeline(ctx context.Context, o Overrides) (*pipeline.Pipeline, RunConfig, error) {
	rc, err := b.RunConfig(ctx, o)
	if err != nil {
		return nil, RunConfig{}, err
	}

	client, err := b.registry.GetLLM(rc.Provider)
	if err != nil {
		return nil, RunConfig{}, fmt.Errorf("%w: %v", ErrUnknownProvider, err)
	}
	pc, _ := b.registry.Config(rc.Provider)

	oracle, err := providers.NewOracle(providers.OracleConfig{
		Client:      client,
		Limiter:     b.registry.Limiter(rc.Provider),
		Recorder:    b.recorder,
		Logger:      b.logger,
		Model:       rc.Model,
		Temperature: pc.Temperature,
		Timeout:     pc.Timeout,
	})
	if err != nil {
		return nil, RunConfig{}, fmt.Errorf("failed to create oracle: %w", err)
	}

	opts := []extract.Option{extract.WithLogger(b.logger)}
	if b.prompts != nil {
		opts = append(opts, extract.WithPrompts(b.prompts))
	}
	orch, err := extract.New(oracle, b.validator, opts...)
	if err != nil {
		return nil, RunConfig{}, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	p, err := pipeline.New(pipeline.Config{
		Orchestrator: orch,
		Options:      rc.Options,
		Logger:       b.logger,
	})
	if err != nil {
		return nil, RunConfig{}, fmt.Errorf("failed to create pipeline: %w", err)
	}

	b.logger.Debug("jobcfg.pipeline.built",
		"provider", rc.Provider,
		"model", rc.Model,
		"max_attempts", rc.Options.MaxAttempts,
		"concurrency", rc.Options.Concurrency)
	return p, rc, nil
}
