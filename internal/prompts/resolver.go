package prompts

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"text/template"
)

// Resolver resolves prompt keys to template text.
// Resolution order: runtime override > embedded default.
type Resolver struct {
	mu        sync.RWMutex
	embedded  map[string]EmbeddedPrompt
	overrides map[string]string
	logger    *slog.Logger
}

// NewResolver creates an empty resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		embedded:  make(map[string]EmbeddedPrompt),
		overrides: make(map[string]string),
		logger:    logger,
	}
}

// Register adds an embedded default. Hash and Variables are derived when empty.
func (r *Resolver) Register(prompt EmbeddedPrompt) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prompt.Hash == "" {
		prompt.Hash = HashText(prompt.Text)
	}
	if prompt.Variables == nil {
		prompt.Variables = ExtractVariables(prompt.Text)
	}

	r.embedded[prompt.Key] = prompt
	r.logger.Debug("registered embedded prompt", "key", prompt.Key, "vars", prompt.Variables)
}

// Resolve returns the template in effect for key.
func (r *Resolver) Resolve(key string) (*ResolvedPrompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	embedded, ok := r.embedded[key]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", key)
	}

	if text, ok := r.overrides[key]; ok {
		return &ResolvedPrompt{
			Key:         key,
			Text:        text,
			Description: embedded.Description,
			Variables:   ExtractVariables(text),
			Hash:        HashText(text),
			IsOverride:  true,
		}, nil
	}

	return &ResolvedPrompt{
		Key:         key,
		Text:        embedded.Text,
		Description: embedded.Description,
		Variables:   embedded.Variables,
		Hash:        embedded.Hash,
	}, nil
}

// SetOverride replaces the template for an embedded key. The text must parse.
func (r *Resolver) SetOverride(key, text string) error {
	if _, err := template.New(key).Parse(text); err != nil {
		return fmt.Errorf("invalid template for %s: %w", key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.embedded[key]; !ok {
		return fmt.Errorf("prompt not found: %s", key)
	}
	r.overrides[key] = text
	r.logger.Info("prompt override set", "key", key, "hash", HashText(text))
	return nil
}

// ClearOverride restores the embedded default for key.
// Returns false if no override was set.
func (r *Resolver) ClearOverride(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.overrides[key]; !ok {
		return false
	}
	delete(r.overrides, key)
	r.logger.Info("prompt override cleared", "key", key)
	return true
}

// All returns every key's resolved prompt sorted by key.
func (r *Resolver) All() []ResolvedPrompt {
	r.mu.RLock()
	keys := make([]string, 0, len(r.embedded))
	for k := range r.embedded {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	sort.Strings(keys)

	out := make([]ResolvedPrompt, 0, len(keys))
	for _, k := range keys {
		if p, err := r.Resolve(k); err == nil {
			out = append(out, *p)
		}
	}
	return out
}

// RenderKey resolves key and executes it against data.
func (r *Resolver) RenderKey(key string, data any) (string, *ResolvedPrompt, error) {
	p, err := r.Resolve(key)
	if err != nil {
		return "", nil, err
	}
	text, err := Render(p.Text, data)
	if err != nil {
		return "", p, err
	}
	return text, p, nil
}
