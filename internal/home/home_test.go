package home

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-hastd")
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if dir.Path() != "/tmp/test-hastd" {
			t.Errorf("expected path /tmp/test-hastd, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		home, _ := os.UserHomeDir()
		if expected := filepath.Join(home, DefaultDirName); dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-hastd")

	if got := dir.ConfigPath(); got != "/tmp/test-hastd/config.yaml" {
		t.Errorf("ConfigPath() = %s", got)
	}
	if got := dir.SchemasPath(); got != "/tmp/test-hastd/schemas" {
		t.Errorf("SchemasPath() = %s", got)
	}
}

func TestDir_EnsureExists(t *testing.T) {
	dir, err := New(filepath.Join(t.TempDir(), "hastd-test"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if dir.Exists() {
		t.Error("expected directory to not exist yet")
	}
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	if !dir.Exists() {
		t.Error("expected directory to exist")
	}
	if _, err := os.Stat(dir.SchemasPath()); err != nil {
		t.Errorf("schemas directory missing: %v", err)
	}
	if dir.ConfigExists() {
		t.Error("expected no config file")
	}
}

func TestDir_ResolveSchema(t *testing.T) {
	dir, _ := New(t.TempDir())
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	invoice := filepath.Join(dir.SchemasPath(), "invoice.yaml")
	if err := os.WriteFile(invoice, []byte("type: object\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	explicit := filepath.Join(t.TempDir(), "paper.json")
	if err := os.WriteFile(explicit, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if got, err := dir.ResolveSchema("invoice"); err != nil || got != invoice {
		t.Errorf("ResolveSchema(invoice) = %q, %v", got, err)
	}
	if got, err := dir.ResolveSchema("invoice.yaml"); err != nil || got != invoice {
		t.Errorf("ResolveSchema(invoice.yaml) = %q, %v", got, err)
	}
	if got, err := dir.ResolveSchema(explicit); err != nil || got != explicit {
		t.Errorf("ResolveSchema(explicit) = %q, %v", got, err)
	}
	if _, err := dir.ResolveSchema("missing"); err == nil {
		t.Error("expected error for unknown schema")
	}
	if _, err := dir.ResolveSchema(""); err == nil {
		t.Error("expected error for empty reference")
	}

	names, err := dir.ListSchemas()
	if err != nil {
		t.Fatalf("ListSchemas() error = %v", err)
	}
	if diff := cmp.Diff([]string{"invoice"}, names); diff != "" {
		t.Errorf("ListSchemas() mismatch (-want +got):\n%s", diff)
	}
}

func TestDir_ReadSchema(t *testing.T) {
	dir, _ := New(t.TempDir())
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	want := []byte(`{"type":"object"}`)
	if err := os.WriteFile(filepath.Join(dir.SchemasPath(), "invoice.json"), want, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := dir.ReadSchema("invoice")
	if err != nil {
		t.Fatalf("ReadSchema() error = %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("ReadSchema() = %s, want %s", got, want)
	}

	for _, name := range []string{"", "../config", "sub/invoice", ".hidden", "missing"} {
		if _, err := dir.ReadSchema(name); err == nil {
			t.Errorf("ReadSchema(%q) expected error", name)
		}
	}
}
