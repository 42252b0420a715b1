package prefilter

import (
	"strings"
	"unicode/utf8"
)

// markerTag introduces the custom-prefix marker inside list item text.
const markerTag = "!!!CUSTOMPREFIX"

// listBullet is the neutral bullet rewritten lines are given.
const listBullet = "* "

// Marker returns the text a rewritten list item starts with for prefix.
func Marker(prefix rune) string {
	return markerTag + string(prefix)
}

// DecodeMarker splits list item text produced by RewritePrefixes into the
// original prefix and the item content.
func DecodeMarker(text string) (prefix rune, content string, ok bool) {
	rest, found := strings.CutPrefix(text, markerTag)
	if !found || rest == "" {
		return 0, "", false
	}
	prefix, size := utf8.DecodeRuneInString(rest)
	if prefix == utf8.RuneError {
		return 0, "", false
	}
	return prefix, strings.TrimPrefix(rest[size:], " "), true
}

// RewritePrefixes rewrites every line whose trimmed text starts with one of
// prefixes followed by a space into a neutral list item carrying Marker.
// The document is processed per sheet segment (split before each level-1
// heading line); fenced code is left untouched and an unterminated fence
// does not leak into the next segment.
func RewritePrefixes(input string, prefixes []rune) string {
	if len(prefixes) == 0 {
		return input
	}

	segments := splitSheets(strings.Split(input, "\n"))
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		out = append(out, rewriteSegment(seg, prefixes)...)
	}
	return strings.Join(out, "\n")
}

func rewriteSegment(lines []string, prefixes []rune) []string {
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if isFence(trimmed) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, p := range prefixes {
			if rewritten, ok := rewriteLine(line, trimmed, p); ok {
				lines[i] = rewritten
				break
			}
		}
	}
	return lines
}

func rewriteLine(line, trimmed string, prefix rune) (string, bool) {
	rest, found := strings.CutPrefix(trimmed, string(prefix))
	if !found || !strings.HasPrefix(rest, " ") {
		return "", false
	}
	indent := line[:len(line)-len(trimmed)]
	return indent + listBullet + Marker(prefix) + rest, true
}

// splitSheets groups lines into sheet segments, each starting at a level-1
// heading line (the first segment may hold a preamble).
func splitSheets(lines []string) [][]string {
	var segments [][]string
	start := 0
	for i, line := range lines {
		if i > start && isSheetHeading(line) {
			segments = append(segments, lines[start:i])
			start = i
		}
	}
	return append(segments, lines[start:])
}

func isSheetHeading(line string) bool {
	return strings.HasPrefix(line, "# ") || line == "#"
}

func isFence(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}
