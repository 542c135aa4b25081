// Package config loads hastd settings from file and environment and keeps
// them current while the server runs.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/hastd/internal/providers"
)

// EnvPrefix prefixes environment overrides, e.g. HASTD_EXTRACTION_MAX_ATTEMPTS.
const EnvPrefix = "HASTD"

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
	logger    *slog.Logger
}

// NewManager creates a new config manager and loads initial config.
// cfgFile may be empty, in which case ./config.yaml and homeDir/config.yaml
// are searched; a missing file is not an error.
func NewManager(cfgFile, homeDir string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
		logger:    slog.Default(),
	}

	if err := cm.initViper(cfgFile, homeDir); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// SetLogger sets the logger used for reload messages.
func (cm *Manager) SetLogger(logger *slog.Logger) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.logger = logger
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile, homeDir string) error {
	v := cm.v
	defaults := DefaultConfig()
	v.SetDefault("llm_providers", defaults.LLMProviders)
	v.SetDefault("defaults.llm_provider", defaults.Defaults.LLMProvider)
	v.SetDefault("defaults.max_workers", defaults.Defaults.MaxWorkers)
	v.SetDefault("extraction.max_attempts", defaults.Extraction.MaxAttempts)
	v.SetDefault("extraction.concurrency", defaults.Extraction.Concurrency)
	v.SetDefault("extraction.max_document_chars", defaults.Extraction.MaxDocumentChars)
	v.SetDefault("extraction.chunk_size", defaults.Extraction.ChunkSize)
	v.SetDefault("extraction.chunk_overlap", defaults.Extraction.ChunkOverlap)
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if homeDir != "" {
			v.AddConfigPath(homeDir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFileUsed returns the path of the loaded config file, or "".
func (cm *Manager) ConfigFileUsed() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration. An edit that fails to
// parse or validate is logged and the previous config stays active.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			cm.mu.RLock()
			logger := cm.logger
			cm.mu.RUnlock()
			logger.Warn("config reload rejected", "file", e.Name, "error", err)
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		logger := cm.logger
		cm.mu.Unlock()

		logger.Info("config reloaded", "file", e.Name, "op", e.Op.String())
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// ToProviderRegistryConfig converts the config to a format suitable for
// providers.Registry, resolving ${ENV_VAR} references in API keys.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		LLMProviders: make(map[string]providers.LLMProviderConfig),
	}
	for name, llm := range c.LLMProviders {
		cfg.LLMProviders[name] = providers.LLMProviderConfig{
			Type:        llm.Type,
			Model:       llm.Model,
			APIKey:      ResolveEnvVars(llm.APIKey),
			BaseURL:     llm.BaseURL,
			RateLimit:   llm.RateLimit,
			Timeout:     llm.Timeout(),
			MaxRetries:  llm.MaxRetries,
			Temperature: llm.Temperature,
			Response:    llm.Response,
			Enabled:     llm.Enabled,
		}
	}
	return cfg
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# hastd configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENROUTER_API_KEY=xxx OPENAI_API_KEY=xxx
# Any setting can be overridden with HASTD_<SECTION>_<KEY>, e.g. HASTD_EXTRACTION_MAX_ATTEMPTS=5

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
