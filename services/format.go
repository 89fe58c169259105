package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hotel-reviews/models"
)

// FormatScore renders a raw rating value the way it was written in the
// dataset: 4 -> "4", 4.0 -> "4.0", "5" -> "5", None -> "None".
func FormatScore(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return formatLiteral(t)
	}
}

func formatLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		return quoteLiteral(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return formatFloat(float64(t))
	case float64:
		return formatFloat(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatLiteral(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case models.RatingMap:
		return formatMapping(t)
	case map[string]any:
		return formatMapping(models.RatingMap(t))
	default:
		return fmt.Sprint(t)
	}
}

func formatMapping(m models.RatingMap) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = quoteLiteral(k) + ": " + formatLiteral(m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatAverage renders a rounded average with one decimal
func FormatAverage(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// Capitalize upper-cases the first letter and lower-cases the rest
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	// Casers are not safe for concurrent use
	return string(unicode.ToTitle(r)) + cases.Lower(language.Und).String(s[size:])
}
