package extract

import (
	_ "embed"
	"encoding/json"

	"github.com/jackzampolin/hastd/internal/prompts"
	"github.com/jackzampolin/hastd/internal/schema"
)

// Prompt keys registered by RegisterPrompts.
const (
	ExtractPromptKey = "extract.field"
	CorrectPromptKey = "extract.correct"
)

//go:embed prompts/extract.tmpl
var extractTemplate string

//go:embed prompts/correct.tmpl
var correctTemplate string

// RegisterPrompts adds the extraction and correction templates to r.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         ExtractPromptKey,
		Text:        extractTemplate,
		Description: "Extracts one field from the document as a single-key JSON object",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         CorrectPromptKey,
		Text:        correctTemplate,
		Description: "Asks for a corrected value after validation failed",
	})
}

// PromptData is the data the extraction and correction templates render
// against.
type PromptData struct {
	Path        string
	Name        string
	Type        string
	Array       bool
	Required    bool
	Description string
	Format      string
	Enum        string
	Document    string
	Previous    string
	Errors      string
}

func newPromptData(task schema.Task, documentText string) PromptData {
	typ := string(task.Type)
	if task.Type == schema.TypeUntyped {
		typ = "any"
		if task.DeclaredType != "" {
			typ = task.DeclaredType
		}
	}
	data := PromptData{
		Path:        task.Path,
		Name:        task.ShortName(),
		Type:        typ,
		Array:       task.IsArrayLeaf(),
		Required:    task.Required,
		Description: task.Description,
		Format:      task.Format,
		Document:    documentText,
	}
	if len(task.Enum) > 0 {
		if b, err := json.Marshal(task.Enum); err == nil {
			data.Enum = string(b)
		}
	}
	return data
}

func describePrevious(key string, previous any) string {
	if m, ok := previous.(MalformedOutput); ok {
		if m.Raw == "" {
			return "(no usable output)"
		}
		return m.Raw
	}
	b, err := json.MarshalIndent(map[string]any{key: previous}, "", "  ")
	if err != nil {
		return "(unencodable value)"
	}
	return string(b)
}
