// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/hastd/internal/config"
	"github.com/jackzampolin/hastd/internal/home"
	"github.com/jackzampolin/hastd/internal/jobcfg"
	"github.com/jackzampolin/hastd/internal/llmcall"
	"github.com/jackzampolin/hastd/internal/metrics"
	"github.com/jackzampolin/hastd/internal/prompts"
	"github.com/jackzampolin/hastd/internal/providers"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Registry     *providers.Registry
	Builder      *jobcfg.Builder
	Config       *config.Manager
	Prompts      *prompts.Resolver
	LLMCallStore *llmcall.Store
	Metrics      *metrics.Query
	Home         *home.Dir
	Logger       *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// BuilderFrom extracts the run builder from context.
func BuilderFrom(ctx context.Context) *jobcfg.Builder {
	if s := ServicesFrom(ctx); s != nil {
		return s.Builder
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// PromptsFrom extracts the prompt resolver from context.
func PromptsFrom(ctx context.Context) *prompts.Resolver {
	if s := ServicesFrom(ctx); s != nil {
		return s.Prompts
	}
	return nil
}

// LLMCallStoreFrom extracts the LLM call store from context.
func LLMCallStoreFrom(ctx context.Context) *llmcall.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.LLMCallStore
	}
	return nil
}

// MetricsFrom extracts the LLM call metrics query from context.
func MetricsFrom(ctx context.Context) *metrics.Query {
	if s := ServicesFrom(ctx); s != nil {
		return s.Metrics
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// LoggerFrom extracts the logger from context, falling back to the default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
