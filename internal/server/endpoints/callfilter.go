package endpoints

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/llmcall"
)

// defaultCallLimit caps list responses when no limit is given.
const defaultCallLimit = 100

// callFilterKeys maps query keys to the string fields of a QueryFilter.
var callFilterKeys = []struct {
	key   string
	field func(*llmcall.QueryFilter) *string
}{
	{"run_id", func(f *llmcall.QueryFilter) *string { return &f.RunID }},
	{"field_path", func(f *llmcall.QueryFilter) *string { return &f.FieldPath }},
	{"kind", func(f *llmcall.QueryFilter) *string { return &f.Kind }},
	{"prompt_key", func(f *llmcall.QueryFilter) *string { return &f.PromptKey }},
	{"provider", func(f *llmcall.QueryFilter) *string { return &f.Provider }},
	{"model", func(f *llmcall.QueryFilter) *string { return &f.Model }},
}

// parseCallFilter reads the call filter shared by the llmcalls and metrics
// endpoints. Limit and Offset are left zero.
func parseCallFilter(q url.Values) (llmcall.QueryFilter, error) {
	var f llmcall.QueryFilter
	for _, k := range callFilterKeys {
		*k.field(&f) = q.Get(k.key)
	}

	if v := q.Get("success"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid success filter: %q must be true or false", v)
		}
		f.Success = &b
	}

	var err error
	if f.After, err = parseTimeParam(q, "after"); err != nil {
		return f, err
	}
	if f.Before, err = parseTimeParam(q, "before"); err != nil {
		return f, err
	}
	return f, nil
}

// parsePage reads limit and offset into f, defaulting the limit.
func parsePage(q url.Values, f *llmcall.QueryFilter) error {
	for _, p := range []struct {
		key string
		dst *int
	}{{"limit", &f.Limit}, {"offset", &f.Offset}} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s: %q must be a non-negative integer", p.key, v)
		}
		*p.dst = n
	}
	if f.Limit == 0 {
		f.Limit = defaultCallLimit
	}
	return nil
}

func parseTimeParam(q url.Values, key string) (*time.Time, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s time: %q must be RFC3339 (e.g. 2024-01-15T00:00:00Z)", key, v)
	}
	return &t, nil
}

// callFilterFlags is the CLI side of parseCallFilter.
type callFilterFlags struct {
	values  map[string]*string
	success bool
	failed  bool
	after   string
	before  string
}

func (c *callFilterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	c.values = map[string]*string{}
	for _, f := range []struct{ key, flag, usage string }{
		{"run_id", "run", "Filter by extraction run ID"},
		{"field_path", "field", "Filter by field path"},
		{"kind", "kind", "Filter by call kind (extract or correct)"},
		{"prompt_key", "prompt-key", "Filter by prompt key"},
		{"provider", "provider", "Filter by provider"},
		{"model", "model", "Filter by model"},
	} {
		c.values[f.key] = flags.String(f.flag, "", f.usage)
	}
	flags.BoolVar(&c.success, "success", false, "Only successful calls")
	flags.BoolVar(&c.failed, "failed", false, "Only failed calls")
	flags.StringVar(&c.after, "after", "", "Only calls after this RFC3339 time")
	flags.StringVar(&c.before, "before", "", "Only calls before this RFC3339 time")
	cmd.MarkFlagsMutuallyExclusive("success", "failed")
}

func (c *callFilterFlags) query() url.Values {
	params := url.Values{}
	for key, v := range c.values {
		if *v != "" {
			params.Set(key, *v)
		}
	}
	switch {
	case c.success:
		params.Set("success", "true")
	case c.failed:
		params.Set("success", "false")
	}
	if c.after != "" {
		params.Set("after", c.after)
	}
	if c.before != "" {
		params.Set("before", c.before)
	}
	return params
}

// withQuery appends params to path when any are set.
func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
