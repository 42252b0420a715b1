package parser

import "strings"

// deepHeadingPrefixes maps the text prefix of an emulated heading to its
// level. goldmark stops at level six, so such lines arrive as paragraph
// text.
var deepHeadingPrefixes = []struct {
	prefix string
	level  int
}{
	{"######## ", 8},
	{"####### ", 7},
}

// deepHeadings rewrites text events that start with seven or eight '#'
// followed by a space into a heading start of that depth followed by the
// rest of the text. No end event is emitted, so consecutive emulated
// headings of the same depth fill one cell.
func deepHeadings(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Kind != EventText {
			out = append(out, ev)
			continue
		}
		emulated := false
		for _, h := range deepHeadingPrefixes {
			if rest, ok := strings.CutPrefix(ev.Text, h.prefix); ok {
				tag := HeadingTag(h.level)
				out = append(out, Start(tag), Text(rest))
				emulated = true
				break
			}
		}
		if !emulated {
			out = append(out, ev)
		}
	}
	return out
}
