package prompts

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"text/template"
)

// variablePattern matches template references like {{.VarName}} or {{ .Task.Path }}.
var variablePattern = regexp.MustCompile(`\{\{\s*\.([a-zA-Z_][a-zA-Z0-9_.]*)\s*\}\}`)

// ExtractVariables returns the sorted, de-duplicated variable names a
// template references. "{{.Task.Path}}" yields "Task.Path".
func ExtractVariables(text string) []string {
	matches := variablePattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool)
	var vars []string

	for _, match := range matches {
		if len(match) > 1 {
			varName := match[1]
			if !seen[varName] {
				seen[varName] = true
				vars = append(vars, varName)
			}
		}
	}

	sort.Strings(vars)
	return vars
}

// HashText returns the hex SHA256 of text.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

var (
	parsedMu sync.Mutex
	parsed   = make(map[string]*template.Template)
)

// Render executes text as a template against data. Parsed templates are
// cached by content hash.
func Render(text string, data any) (string, error) {
	key := HashText(text)

	parsedMu.Lock()
	tmpl, ok := parsed[key]
	if !ok {
		var err error
		tmpl, err = template.New(key[:12]).Option("missingkey=zero").Parse(text)
		if err != nil {
			parsedMu.Unlock()
			return "", fmt.Errorf("failed to parse prompt template: %w", err)
		}
		parsed[key] = tmpl
	}
	parsedMu.Unlock()

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt template: %w", err)
	}
	return buf.String(), nil
}
