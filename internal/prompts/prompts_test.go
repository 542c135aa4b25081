package prompts

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractVariables(t *testing.T) {
	got := ExtractVariables("{{.Path}} {{ .Task.Description }} {{.Path}} {{if .Enum}}x{{end}}")
	want := []string{"Path", "Task.Description"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractVariables() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver(t *testing.T) {
	r := NewResolver(nil)
	r.Register(EmbeddedPrompt{Key: "greet", Text: "Hello {{.Name}}", Description: "greeting"})

	t.Run("embedded default", func(t *testing.T) {
		p, err := r.Resolve("greet")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if p.IsOverride {
			t.Error("expected IsOverride = false")
		}
		if p.Hash != HashText("Hello {{.Name}}") {
			t.Errorf("Hash = %q", p.Hash)
		}
		if diff := cmp.Diff([]string{"Name"}, p.Variables); diff != "" {
			t.Errorf("Variables mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("override wins until cleared", func(t *testing.T) {
		if err := r.SetOverride("greet", "Hi {{.Name}}!"); err != nil {
			t.Fatalf("SetOverride() error = %v", err)
		}
		text, p, err := r.RenderKey("greet", map[string]string{"Name": "Ada"})
		if err != nil {
			t.Fatalf("RenderKey() error = %v", err)
		}
		if text != "Hi Ada!" || !p.IsOverride {
			t.Errorf("RenderKey() = %q override=%v", text, p.IsOverride)
		}

		if !r.ClearOverride("greet") {
			t.Error("ClearOverride() = false, want true")
		}
		if r.ClearOverride("greet") {
			t.Error("second ClearOverride() = true, want false")
		}
		text, _, _ = r.RenderKey("greet", map[string]string{"Name": "Ada"})
		if text != "Hello Ada" {
			t.Errorf("RenderKey() after clear = %q", text)
		}
	})

	t.Run("rejects bad override and unknown key", func(t *testing.T) {
		if err := r.SetOverride("greet", "{{.Name"); err == nil {
			t.Error("expected parse error")
		}
		if err := r.SetOverride("missing", "x"); err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("SetOverride(missing) error = %v", err)
		}
		if _, err := r.Resolve("missing"); err == nil {
			t.Error("expected error for missing key")
		}
	})

	t.Run("all sorted", func(t *testing.T) {
		r.Register(EmbeddedPrompt{Key: "alpha", Text: "a"})
		all := r.All()
		if len(all) != 2 || all[0].Key != "alpha" || all[1].Key != "greet" {
			t.Errorf("All() = %+v", all)
		}
	})
}
