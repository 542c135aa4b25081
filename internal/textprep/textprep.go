// Package textprep normalises document text and splits it into overlapping
// chunks that respect natural boundaries where possible.
package textprep

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

// separators are tried in order; "" splits into single characters.
var separators = []string{"\n\n", "\n", ".", "!", "?", ",", " ", ""}

// Clean collapses every whitespace run (including non-breaking spaces) to a
// single space and trims the result.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Chunk splits text into pieces of at most size characters, carrying up to
// overlap characters of context from the end of one chunk into the next.
// Non-positive size uses DefaultChunkSize; overlap is clamped to [0, size/2].
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap > size/2 {
		overlap = size / 2
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s := splitter{size: size, overlap: overlap}
	var out []string
	for _, c := range s.split(text, separators) {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Window returns the cleaned text cut to at most maxChars characters at a
// chunk boundary, and whether anything was dropped. maxChars <= 0 disables
// the limit.
func Window(text string, maxChars int) (string, bool) {
	text = Clean(text)
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text, false
	}

	size := DefaultChunkSize
	if maxChars < size {
		size = maxChars
	}

	var b strings.Builder
	used := 0
	for _, c := range Chunk(text, size, 0) {
		n := utf8.RuneCountInString(c)
		extra := n
		if used > 0 {
			extra++
		}
		if used+extra > maxChars {
			break
		}
		if used > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c)
		used += extra
	}
	return b.String(), true
}

type splitter struct {
	size    int
	overlap int
}

func (s splitter) split(text string, seps []string) []string {
	sep := ""
	var rest []string
	for i, c := range seps {
		if c == "" {
			break
		}
		if strings.Contains(text, c) {
			sep = c
			rest = seps[i+1:]
			break
		}
	}

	var final, good []string
	for _, piece := range splitKeep(text, sep) {
		if utf8.RuneCountInString(piece) <= s.size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// merge packs pieces into chunks no longer than size, seeding each new chunk
// with trailing pieces of the previous one up to overlap characters.
func (s splitter) merge(pieces []string) []string {
	var chunks, current []string
	total := 0

	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if total+n > s.size && len(current) > 0 {
			if c := strings.TrimSpace(strings.Join(current, "")); c != "" {
				chunks = append(chunks, c)
			}
			for len(current) > 0 && (total > s.overlap || total+n > s.size) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, p)
		total += n
	}
	if c := strings.TrimSpace(strings.Join(current, "")); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

// splitKeep splits text after each occurrence of sep, keeping sep attached
// to the preceding piece. An empty sep splits into characters.
func splitKeep(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}
	parts := strings.SplitAfter(text, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
