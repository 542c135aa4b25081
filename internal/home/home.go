// Package home manages the hastd home directory (~/.hastd): the config file
// and a library of named schemas.
package home

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the default name for the hastd home directory.
	DefaultDirName = ".hastd"

	// SchemasDirName is the subdirectory holding named schemas.
	SchemasDirName = "schemas"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// schemaExts are tried in order when resolving a schema by name.
var schemaExts = []string{".json", ".yaml", ".yml"}

// Dir represents the hastd home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.hastd).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// SchemasPath returns the directory holding named schemas.
func (d *Dir) SchemasPath() string {
	return filepath.Join(d.path, SchemasDirName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.SchemasPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create schemas directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// ResolveSchema maps ref to a schema file. An existing path is returned as
// is; otherwise ref is looked up by name in the schemas directory.
func (d *Dir) ResolveSchema(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("schema reference is empty")
	}
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return ref, nil
	}
	if strings.ContainsRune(ref, filepath.Separator) {
		return "", fmt.Errorf("schema file not found: %s", ref)
	}

	candidates := []string{filepath.Join(d.SchemasPath(), ref)}
	if filepath.Ext(ref) == "" {
		candidates = candidates[:0]
		for _, ext := range schemaExts {
			candidates = append(candidates, filepath.Join(d.SchemasPath(), ref+ext))
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("schema %q not found in %s", ref, d.SchemasPath())
}

// ListSchemas returns the names of schemas in the schemas directory.
func (d *Dir) ListSchemas() ([]string, error) {
	entries, err := os.ReadDir(d.SchemasPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read schemas directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, known := range schemaExts {
			if ext == known {
				names = append(names, strings.TrimSuffix(e.Name(), ext))
				break
			}
		}
	}
	return names, nil
}

// ReadSchema returns the contents of a named schema from the library. Unlike
// ResolveSchema it never reads outside the schemas directory.
func (d *Dir) ReadSchema(name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("invalid schema name %q", name)
	}
	for _, ext := range schemaExts {
		data, err := os.ReadFile(filepath.Join(d.SchemasPath(), name+ext))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("schema %q not found in %s", name, d.SchemasPath())
}
