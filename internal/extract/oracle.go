package extract

import (
	"context"

	"github.com/jackzampolin/hastd/internal/validate"
)

// Oracle answers a prompt with free text. Any error is treated as a failed
// attempt by the orchestrator, never as a fatal one.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f OracleFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Validator checks a single-field value map against its field schema. A nil
// error accepts the value; otherwise the error text is fed to the next
// correction prompt.
type Validator interface {
	Validate(ctx context.Context, value map[string]any, field validate.FieldSchema) error
}

var (
	_ Validator = (*validate.JSONSchemaValidator)(nil)
	_ Validator = validate.Func(nil)
)

// CallKind distinguishes first extraction calls from correction calls.
type CallKind string

const (
	KindExtract CallKind = "extract"
	KindCorrect CallKind = "correct"
)

// CallInfo describes the oracle call in flight. The orchestrator attaches it
// to the context passed to Oracle.Complete so oracle implementations can
// record calls without changing the Oracle signature.
type CallInfo struct {
	RunID      string
	Path       string
	Kind       CallKind
	Attempt    int
	PromptKey  string
	PromptHash string
}

type callInfoKey struct{}

// WithCallInfo returns a context carrying info.
func WithCallInfo(ctx context.Context, info CallInfo) context.Context {
	return context.WithValue(ctx, callInfoKey{}, info)
}

// CallInfoFrom returns the call info attached to ctx, if any.
func CallInfoFrom(ctx context.Context) (CallInfo, bool) {
	info, ok := ctx.Value(callInfoKey{}).(CallInfo)
	return info, ok
}
