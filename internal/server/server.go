package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/config"
	"github.com/jackzampolin/hastd/internal/extract"
	"github.com/jackzampolin/hastd/internal/home"
	"github.com/jackzampolin/hastd/internal/jobcfg"
	"github.com/jackzampolin/hastd/internal/llmcall"
	"github.com/jackzampolin/hastd/internal/metrics"
	"github.com/jackzampolin/hastd/internal/prompts"
	"github.com/jackzampolin/hastd/internal/providers"
	"github.com/jackzampolin/hastd/internal/server/endpoints"
	"github.com/jackzampolin/hastd/internal/svcctx"
	"github.com/jackzampolin/hastd/internal/validate"
)

// Server is the main hastd HTTP server.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	configMgr  *config.Manager
	calls      *llmcall.Store
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support (required)
	ConfigManager *config.Manager
	// Home is the hastd home directory holding the schema library
	Home *home.Dir
	// Registry replaces the registry built from config (optional)
	Registry *providers.Registry
	// CallLogCapacity bounds the in-memory oracle call log (default: llmcall.DefaultCapacity)
	CallLogCapacity int
	// WriteTimeout bounds a whole request including extraction (default: 10m)
	WriteTimeout time.Duration
	// SwaggerSpecPath serves swagger.json from disk instead of the compiled-in spec
	SwaggerSpecPath string
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("server: config manager is required")
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Minute
	}

	// Create provider registry from config and follow config changes
	registry := cfg.Registry
	if registry == nil {
		registry = providers.NewRegistry()
		registry.SetLogger(cfg.Logger)
		registry.Reload(cfg.ConfigManager.Get().ToProviderRegistryConfig())

		cfg.ConfigManager.OnChange(func(c *config.Config) {
			registry.Reload(c.ToProviderRegistryConfig())
			cfg.Logger.Info("provider registry reloaded from config", "providers", registry.ListLLM())
		})
	}
	cfg.ConfigManager.SetLogger(cfg.Logger)

	calls := llmcall.NewStore(cfg.CallLogCapacity)

	resolver := prompts.NewResolver(cfg.Logger)
	extract.RegisterPrompts(resolver)

	builder, err := jobcfg.NewBuilder(jobcfg.BuilderConfig{
		Config:    cfg.ConfigManager,
		Registry:  registry,
		Recorder:  calls,
		Prompts:   resolver,
		Validator: validate.NewJSONSchemaValidator(cfg.Logger),
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create run builder: %w", err)
	}

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		calls:     calls,
		logger:    cfg.Logger,
		services: &svcctx.Services{
			Registry:     registry,
			Builder:      builder,
			Config:       cfg.ConfigManager,
			Prompts:      resolver,
			LLMCallStore: calls,
			Metrics:      metrics.NewQuery(calls),
			Home:         cfg.Home,
			Logger:       cfg.Logger,
		},
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: cfg.SwaggerSpecPath}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withRequestLog(s.withServices(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if file := s.configMgr.ConfigFileUsed(); file != "" {
		s.configMgr.WatchConfig()
		s.logger.Info("watching config file", "file", file)
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String(), "providers", s.registry.ListLLM())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped", "llm_calls", s.calls.Len())
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the root HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// LLMCalls returns the oracle call log.
func (s *Server) LLMCalls() *llmcall.Store {
	return s.calls
}
