package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds hastd configuration.
// Stored at: {home}/config.yaml
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers" json:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults" json:"defaults"`
	Extraction   ExtractionCfg             `mapstructure:"extraction" yaml:"extraction" json:"extraction"`
	Server       ServerCfg                 `mapstructure:"server" yaml:"server" json:"server"`
	LogLevel     string                    `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type           string  `mapstructure:"type" yaml:"type" json:"type"`                                  // "openrouter", "openai", "mock"
	Model          string  `mapstructure:"model" yaml:"model" json:"model"`                               // Model name
	APIKey         string  `mapstructure:"api_key" yaml:"api_key" json:"api_key"`                         // API key (supports ${ENV_VAR} syntax)
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url,omitempty" json:"base_url,omitempty"`  // Optional endpoint override
	RateLimit      float64 `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`                // Requests per second
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"` // Per-request timeout
	MaxRetries     int     `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`             // Transport retries
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature" json:"temperature"`
	Response       string  `mapstructure:"response" yaml:"response,omitempty" json:"response,omitempty"` // Canned reply (mock only)
	Enabled        bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

// Timeout returns the per-request timeout as a duration.
func (p LLMProviderCfg) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	LLMProvider string `mapstructure:"llm_provider" yaml:"llm_provider" json:"llm_provider"` // Default LLM provider
	MaxWorkers  int    `mapstructure:"max_workers" yaml:"max_workers" json:"max_workers"`    // Upper bound on extraction concurrency
}

// ExtractionCfg holds per-run extraction defaults.
type ExtractionCfg struct {
	MaxAttempts      int `mapstructure:"max_attempts" yaml:"max_attempts" json:"max_attempts"`
	Concurrency      int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
	MaxDocumentChars int `mapstructure:"max_document_chars" yaml:"max_document_chars" json:"max_document_chars"` // 0 = unlimited
	ChunkSize        int `mapstructure:"chunk_size" yaml:"chunk_size" json:"chunk_size"`
	ChunkOverlap     int `mapstructure:"chunk_overlap" yaml:"chunk_overlap" json:"chunk_overlap"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port string `mapstructure:"port" yaml:"port" json:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openrouter": {
				Type:           "openrouter",
				Model:          "openai/gpt-4o-mini",
				APIKey:         "${OPENROUTER_API_KEY}",
				RateLimit:      5,
				TimeoutSeconds: 120,
				MaxRetries:     3,
				Enabled:        true,
			},
			"openai": {
				Type:           "openai",
				Model:          "gpt-4o-mini",
				APIKey:         "${OPENAI_API_KEY}",
				RateLimit:      5,
				TimeoutSeconds: 120,
				MaxRetries:     2,
				Enabled:        true,
			},
			"mock": {
				Type:     "mock",
				Response: "{}",
				Enabled:  true,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider: "openrouter",
			MaxWorkers:  8,
		},
		Extraction: ExtractionCfg{
			MaxAttempts:  3,
			Concurrency:  1,
			ChunkSize:    800,
			ChunkOverlap: 100,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		LogLevel: "info",
	}
}

// Validate reports settings that cannot drive an extraction run.
func (c *Config) Validate() error {
	var errs []error
	if c.Extraction.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("extraction.max_attempts must be >= 1, got %d", c.Extraction.MaxAttempts))
	}
	if c.Extraction.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("extraction.concurrency must be >= 1, got %d", c.Extraction.Concurrency))
	}
	if c.Extraction.MaxDocumentChars < 0 {
		errs = append(errs, fmt.Errorf("extraction.max_document_chars must be >= 0, got %d", c.Extraction.MaxDocumentChars))
	}
	if c.Extraction.ChunkOverlap < 0 || (c.Extraction.ChunkSize > 0 && c.Extraction.ChunkOverlap >= c.Extraction.ChunkSize) {
		errs = append(errs, fmt.Errorf("extraction.chunk_overlap must be in [0, chunk_size), got %d", c.Extraction.ChunkOverlap))
	}
	for name, p := range c.LLMProviders {
		switch p.Type {
		case "openrouter", "openai", "mock":
		default:
			errs = append(errs, fmt.Errorf("llm_providers.%s: unknown type %q", name, p.Type))
		}
	}
	return errors.Join(errs...)
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// Concurrency clamps the configured concurrency to the worker ceiling.
func (c *Config) Concurrency() int {
	n := c.Extraction.Concurrency
	if c.Defaults.MaxWorkers > 0 && n > c.Defaults.MaxWorkers {
		n = c.Defaults.MaxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}
