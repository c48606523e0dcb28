package bulletin

import (
	"regexp"
	"strconv"
	"strings"
)

// extractValue finds the first match of re in text, strips thousands
// separators, and parses the captured group as a float. Zero or negative
// parses are treated as extraction noise, not legitimate readings, so the
// caller-supplied default wins for them too.
func extractValue(text string, re *regexp.Regexp, def float64) float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return def
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// sectionPattern compiles a case-insensitive pattern anchoring a field label
// to its section heading. (?s) lets the gap span the bulletin's line breaks:
// the heading and the reading sit on different lines of the columnar layout.
func sectionPattern(section, field string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + regexp.QuoteMeta(section) + `.*?` + field + `\s*=\s*([\d,.]+)`)
}
