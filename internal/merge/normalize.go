package merge

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so that
// "Jérôme" and "Jerome" compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName canonicalizes a name for comparison: lower-case, no
// diacritics, single internal spaces, trimmed. Idempotent; empty input
// yields the empty string.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// Date formats accepted on person records, tried in order. ISO first so
// that an ambiguous string parses deterministically.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006",
}

// ParseDate parses a free-text birth/death date. Any time-of-day suffix
// (text after a literal 'T') is discarded. Returns false when no format
// matches or the input is empty.
func ParseDate(s string) (time.Time, bool) {
	if i := strings.Index(s, "T"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
