// Package metrics aggregates recorded LLM calls into token, latency and
// outcome statistics, overall or grouped by field, kind, provider, model or
// prompt.
package metrics

import (
	"context"
	"fmt"

	"github.com/jackzampolin/hastd/internal/llmcall"
)

// Source lists recorded calls. *llmcall.Store satisfies it.
type Source interface {
	List(ctx context.Context, filter llmcall.QueryFilter) ([]llmcall.Call, error)
}

var _ Source = (*llmcall.Store)(nil)

// Dimension names a call attribute to group by.
type Dimension string

const (
	ByField     Dimension = "field"
	ByKind      Dimension = "kind"
	ByProvider  Dimension = "provider"
	ByModel     Dimension = "model"
	ByPromptKey Dimension = "prompt_key"
	ByRun       Dimension = "run"
)

// Dimensions lists the supported grouping keys.
var Dimensions = []Dimension{ByField, ByKind, ByProvider, ByModel, ByPromptKey, ByRun}

// ParseDimension validates a grouping key.
func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q (want one of %v)", s, Dimensions)
}

func (d Dimension) key(c *llmcall.Call) string {
	switch d {
	case ByField:
		return c.FieldPath
	case ByKind:
		return c.Kind
	case ByProvider:
		return c.Provider
	case ByModel:
		return c.Model
	case ByPromptKey:
		return c.PromptKey
	case ByRun:
		return c.RunID
	}
	return ""
}

// Query provides aggregate queries over recorded calls.
type Query struct {
	source Source
}

// NewQuery creates a new metrics query helper.
func NewQuery(source Source) *Query {
	return &Query{source: source}
}

// list returns every call matching f. Paging fields are ignored.
func (q *Query) list(ctx context.Context, f llmcall.QueryFilter) ([]llmcall.Call, error) {
	f.Limit, f.Offset = 0, 0
	calls, err := q.source.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	return calls, nil
}
