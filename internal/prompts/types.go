// Package prompts manages the text templates sent to the oracle.
//
// Embedded .tmpl files are the defaults. An override registered at runtime
// replaces the default for its key until cleared. Every resolved prompt
// carries a content hash so recorded oracle calls can be traced back to the
// exact template text that produced them.
package prompts

// EmbeddedPrompt is a default template compiled into the binary.
type EmbeddedPrompt struct {
	Key         string   // Hierarchical key: extract.field
	Text        string   // Go text/template source
	Description string   // Human-readable description
	Variables   []string // Template variables referenced by Text
	Hash        string   // SHA256 of Text
}

// ResolvedPrompt is the template in effect for a key.
type ResolvedPrompt struct {
	Key         string   `json:"key" yaml:"key"`
	Text        string   `json:"text" yaml:"text"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Variables   []string `json:"variables,omitempty" yaml:"variables,omitempty"`
	Hash        string   `json:"hash" yaml:"hash"`
	IsOverride  bool     `json:"is_override" yaml:"is_override"`
}
