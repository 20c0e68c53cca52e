package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeTagName trims surrounding whitespace. Case and inner spacing are kept;
// Slugify is what folds variants together
func NormalizeTagName(name string) string {
	return strings.TrimSpace(name)
}

// Slugify lower-cases s and replaces whitespace runs with a single hyphen
func Slugify(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingSep = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// RuneLen counts characters rather than bytes
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// SplitCSV splits a comma separated list, trimming items and dropping empties
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
