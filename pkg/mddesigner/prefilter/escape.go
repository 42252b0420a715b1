// Package prefilter rewrites raw documents before structural parsing:
// literal emphasis markers are escaped and schema-declared custom-prefixed
// list lines are turned into ordinary list items carrying a marker.
package prefilter

import (
	"strings"
	"unicode/utf8"
)

// AsteriskPlaceholder stands in for a literal '*' between Escape and
// Unescape.
const AsteriskPlaceholder = "--asterisk--"

// Escape replaces every '*' except the first character of each line with
// AsteriskPlaceholder, so that content cannot open emphasis or list syntax.
func Escape(input string) string {
	lines := strings.Split(input, "\n")
	var b strings.Builder
	b.Grow(len(input))
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if line == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(line)
		b.WriteString(line[:size])
		b.WriteString(strings.ReplaceAll(line[size:], "*", AsteriskPlaceholder))
	}
	return b.String()
}

// Unescape reverses Escape on parsed text content.
func Unescape(text string) string {
	return strings.ReplaceAll(text, AsteriskPlaceholder, "*")
}
