// Package confidence assigns heuristic trust scores in [0, 1] to extracted
// field values based on the field's name and the value's shape.
package confidence

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jackzampolin/hastd/internal/fieldpath"
)

var (
	emailPattern   = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	datePattern    = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}$`)
	numericPattern = regexp.MustCompile(`^\d+$`)
)

// Score rates value for a field called name. The first matching rule wins:
// email, date, id/number, boolean flags, then a length band.
func Score(name string, value any) float64 {
	s := strings.TrimSpace(Stringify(value))
	if s == "" {
		return 0.0
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "email"):
		return pick(emailPattern.MatchString(s), 1.0, 0.3)
	case strings.Contains(lower, "date"):
		return pick(datePattern.MatchString(s), 1.0, 0.4)
	case strings.Contains(lower, "id"), strings.Contains(lower, "number"):
		return pick(numericPattern.MatchString(s), 1.0, 0.5)
	case strings.Contains(lower, "is_"), strings.HasPrefix(lower, "has_"):
		return pick(isBoolean(s), 1.0, 0.5)
	}

	switch n := utf8.RuneCountInString(s); {
	case n > 100:
		return 0.9
	case n > 50:
		return 0.8
	case n > 20:
		return 0.7
	case n > 5:
		return 0.6
	default:
		return 0.4
	}
}

// ScoreAll scores every entry of values. Keys may be field paths; rules
// match against the path's short name. A field whose scoring panics gets 0.0
// and the rest of the batch is unaffected.
func ScoreAll(values map[string]any) map[string]float64 {
	scores := make(map[string]float64, len(values))
	for key, value := range values {
		scores[key] = safeScore(fieldpath.ShortName(key), value)
	}
	return scores
}

func safeScore(name string, value any) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			score = 0.0
		}
	}()
	return Score(name, value)
}

// Stringify renders value the way scoring sees it: strings unchanged, nil as
// "", numbers in shortest decimal form, booleans as true/false, anything else
// as JSON.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return formatNumber(v.String())
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	case fmt.Stringer:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return formatFloat(f)
}

func isBoolean(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

func pick(ok bool, yes, no float64) float64 {
	if ok {
		return yes
	}
	return no
}
