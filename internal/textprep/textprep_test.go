package textprep

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestClean(t *testing.T) {
	got := Clean("  Jane Doe \n\n is the\tlead engineer.  ")
	if got != "Jane Doe is the lead engineer." {
		t.Errorf("Clean() = %q", got)
	}
}

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	text := "Jane Doe is the lead engineer. Her user ID is 12345."
	got := Chunk(text, 800, 100)
	if diff := cmp.Diff([]string{text}, got); diff != "" {
		t.Errorf("Chunk() mismatch (-want +got):\n%s", diff)
	}
}

func TestChunk_RespectsSize(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60)
	chunks := Chunk(text, 200, 40)
	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want several", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 200 {
			t.Errorf("chunk %d has %d chars, want <= 200", i, n)
		}
		if !strings.HasSuffix(c, ".") {
			t.Errorf("chunk %d does not end on a sentence boundary: %q", i, c)
		}
	}
}

func TestChunk_Overlap(t *testing.T) {
	sentences := []string{"Alpha one.", "Bravo two.", "Charlie three.", "Delta four.", "Echo five."}
	text := strings.Join(sentences, " ")
	chunks := Chunk(text, 30, 15)
	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want several", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		lastSentence := prev[strings.LastIndex(strings.TrimSuffix(prev, "."), ".")+1:]
		if !strings.Contains(chunks[i], strings.TrimSpace(lastSentence)) {
			t.Errorf("chunk %d = %q does not overlap previous %q", i, chunks[i], prev)
		}
	}
}

func TestChunk_LongWordFallsBackToCharacters(t *testing.T) {
	text := strings.Repeat("x", 25)
	chunks := Chunk(text, 10, 0)
	if diff := cmp.Diff([]string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, chunks); diff != "" {
		t.Errorf("Chunk() mismatch (-want +got):\n%s", diff)
	}
}

func TestChunk_Empty(t *testing.T) {
	if got := Chunk("   ", 10, 2); got != nil {
		t.Errorf("Chunk(blank) = %v, want nil", got)
	}
}

func TestWindow(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here."

	got, truncated := Window(text, 0)
	if got != text || truncated {
		t.Errorf("Window(0) = %q, %v", got, truncated)
	}

	got, truncated = Window(text, 45)
	if !truncated {
		t.Error("expected truncated = true")
	}
	if utf8.RuneCountInString(got) > 45 {
		t.Errorf("Window() length = %d, want <= 45", utf8.RuneCountInString(got))
	}
	if !strings.HasPrefix(got, "First sentence here.") {
		t.Errorf("Window() = %q, want leading text", got)
	}
}
