package jobcfg

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/hastd/internal/config"
	"github.com/jackzampolin/hastd/internal/llmcall"
	"github.com/jackzampolin/hastd/internal/pipeline"
	"github.com/jackzampolin/hastd/internal/prompts"
	"github.com/jackzampolin/hastd/internal/providers"
	"github.com/jackzampolin/hastd/internal/schema"
	"github.com/jackzampolin/hastd/internal/validate"
)

type staticConfig struct {
	cfg *config.Config
}

func (s staticConfig) Get() *config.Config { return s.cfg }

func newTestBuilder(t *testing.T, cfg *config.Config, store *llmcall.Store) (*Builder, *providers.MockClient) {
	t.Helper()
	registry := providers.NewRegistry()
	mock := providers.NewMockClient()
	registry.RegisterLLM("local", mock)

	b, err := NewBuilder(BuilderConfig{
		Config:    staticConfig{cfg: cfg},
		Registry:  registry,
		Recorder:  store,
		Prompts:   prompts.NewResolver(nil),
		Validator: validate.NewJSONSchemaValidator(nil),
	})
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return b, mock
}

func TestNewBuilder_RequiresDependencies(t *testing.T) {
	if _, err := NewBuilder(BuilderConfig{}); err == nil {
		t.Error("expected error without config source")
	}
	if _, err := NewBuilder(BuilderConfig{Config: staticConfig{cfg: config.DefaultConfig()}}); err == nil {
		t.Error("expected error without registry")
	}
	if _, err := NewBuilder(BuilderConfig{
		Config:   staticConfig{cfg: config.DefaultConfig()},
		Registry: providers.NewRegistry(),
	}); err == nil {
		t.Error("expected error without validator")
	}
}

func TestBuilder_RunConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("uses config defaults", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Defaults.LLMProvider = "local"
		cfg.Extraction.MaxAttempts = 4
		cfg.Extraction.Concurrency = 2
		b, _ := newTestBuilder(t, cfg, nil)

		rc, err := b.RunConfig(ctx, Overrides{})
		if err != nil {
			t.Fatalf("RunConfig() error = %v", err)
		}
		want := RunConfig{
			Provider: "local",
			Options:  pipeline.Options{MaxAttempts: 4, Concurrency: 2},
		}
		if diff := cmp.Diff(want, rc); diff != "" {
			t.Errorf("RunConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("overrides win and concurrency is clamped", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Defaults.MaxWorkers = 3
		b, _ := newTestBuilder(t, cfg, nil)

		rc, err := b.RunConfig(ctx, Overrides{
			Provider:         "local",
			Model:            "tiny",
			MaxAttempts:      1,
			Concurrency:      10,
			MaxDocumentChars: 500,
		})
		if err != nil {
			t.Fatalf("RunConfig() error = %v", err)
		}
		want := RunConfig{
			Provider: "local",
			Model:    "tiny",
			Options:  pipeline.Options{MaxAttempts: 1, Concurrency: 3, MaxDocumentChars: 500},
		}
		if diff := cmp.Diff(want, rc); diff != "" {
			t.Errorf("RunConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		b, _ := newTestBuilder(t, config.DefaultConfig(), nil)
		_, err := b.RunConfig(ctx, Overrides{Provider: "nope"})
		if !errors.Is(err, ErrUnknownProvider) {
			t.Errorf("RunConfig() error = %v, want ErrUnknownProvider", err)
		}
	})
}

func TestBuilder_Pipeline(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Defaults.LLMProvider = "local"
	store := llmcall.NewStore(10)
	b, mock := newTestBuilder(t, cfg, store)
	mock.Respond = func(req *providers.ChatRequest) (string, error) {
		return `{"name": "Ada Lovelace"}`, nil
	}

	p, rc, err := b.Pipeline(context.Background(), Overrides{})
	if err != nil {
		t.Fatalf("Pipeline() error = %v", err)
	}
	if rc.Provider != "local" {
		t.Errorf("Provider = %q, want local", rc.Provider)
	}

	root, err := schema.Parse([]byte(`{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]}`))
	if err != nil {
		t.Fatalf("schema.Parse() error = %v", err)
	}
	res, err := p.Run(context.Background(), pipeline.Input{Schema: root, Document: "Ada Lovelace wrote the first program."})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada Lovelace"}, res.Document); diff != "" {
		t.Errorf("Document mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 1 {
		t.Errorf("recorded %d calls, want 1", store.Len())
	}
}
