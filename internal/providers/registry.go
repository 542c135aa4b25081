package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Provider types understood by the registry.
const (
	TypeOpenRouter = "openrouter"
	TypeOpenAI     = "openai"
	TypeMock       = "mock"
)

// Registry holds the configured LLM clients and one rate limiter per client.
// It supports config-driven instantiation and hot reload.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]LLMClient
	configs  map[string]LLMProviderConfig
	limiters map[string]*RateLimiter
	logger   *slog.Logger
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	LLMProviders map[string]LLMProviderConfig
}

// LLMProviderConfig matches config.LLMProviderCfg with the API key resolved.
type LLMProviderConfig struct {
	Type        string        // "openrouter", "openai", "mock"
	Model       string        // Model name
	APIKey      string        // Resolved API key
	BaseURL     string        // Optional endpoint override
	RateLimit   float64       // Requests per second
	Timeout     time.Duration // Per-request timeout
	MaxRetries  int           // Transport retries inside the client
	Temperature float64
	Response    string // Canned reply for the mock type
	Enabled     bool
}

// usable reports whether the entry should be instantiated.
func (c LLMProviderConfig) usable() bool {
	if !c.Enabled {
		return false
	}
	return c.Type == TypeMock || c.APIKey != ""
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients:  make(map[string]LLMClient),
		configs:  make(map[string]LLMProviderConfig),
		limiters: make(map[string]*RateLimiter),
		logger:   slog.Default(),
	}
}

// NewRegistryFromConfig creates a registry holding every enabled provider
// that has an API key (mock providers need none).
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers an LLM client by name with an unlimited rate.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	delete(r.configs, name)
	delete(r.limiters, name)
	r.logger.Info("registered LLM client", "name", name)
}

// UnregisterLLM removes an LLM client by name.
func (r *Registry) UnregisterLLM(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(name)
}

// GetLLM returns an LLM client by name.
func (r *Registry) GetLLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// Limiter returns the rate limiter for a configured provider, or nil.
func (r *Registry) Limiter(name string) *RateLimiter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.limiters[name]
}

// Config returns the settings a provider was built from.
func (r *Registry) Config(name string) (LLMProviderConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[name]
	return cfg, ok
}

// ListLLM returns all registered LLM client names, sorted.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasLLM checks if an LLM client is registered.
func (r *Registry) HasLLM(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[name]
	return ok
}

// Reload updates the registry from new configuration. Providers no longer
// configured are removed; providers whose settings changed are rebuilt.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)
	for name, provCfg := range cfg.LLMProviders {
		if !provCfg.usable() {
			continue
		}
		client := r.clients[name]
		prev, hasPrev := r.configs[name]
		if client != nil && hasPrev && prev == provCfg {
			want[name] = true
			continue
		}

		client, err := createLLMClient(provCfg)
		if err != nil {
			r.logger.Warn("skipping LLM provider", "name", name, "error", err)
			continue
		}
		want[name] = true
		r.clients[name] = client
		r.configs[name] = provCfg
		if !hasPrev || prev.RateLimit != provCfg.RateLimit || r.limiters[name] == nil {
			r.limiters[name] = NewRateLimiter(provCfg.RateLimit)
		}
		if hasPrev {
			r.logger.Info("updated LLM client", "name", name, "type", provCfg.Type)
		} else {
			r.logger.Info("registered LLM client", "name", name, "type", provCfg.Type)
		}
	}

	for name := range r.configs {
		if !want[name] {
			r.remove(name)
		}
	}
}

// remove drops a configured provider. Must be called with lock held.
func (r *Registry) remove(name string) {
	if _, ok := r.clients[name]; !ok {
		return
	}
	delete(r.clients, name)
	delete(r.configs, name)
	delete(r.limiters, name)
	r.logger.Info("unregistered LLM client", "name", name)
}

// createLLMClient creates an LLM client based on provider type.
func createLLMClient(cfg LLMProviderConfig) (LLMClient, error) {
	switch cfg.Type {
	case TypeOpenRouter:
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
			MaxRetries:   cfg.MaxRetries,
		}), nil
	case TypeOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
			MaxRetries:   cfg.MaxRetries,
		}), nil
	case TypeMock:
		c := NewMockClient()
		if cfg.Response != "" {
			c.ResponseText = cfg.Response
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}
