// Package parser turns a prefiltered document into the table model. The
// document is parsed with goldmark into a flat stream of structural events
// which a schema-driven state machine folds into sheets, blocks and rows.
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/rule"
)

// EventKind classifies structural events.
type EventKind uint8

const (
	// EventStart opens a structural element.
	EventStart EventKind = iota
	// EventText carries one run of text content.
	EventText
	// EventEnd closes a structural element.
	EventEnd
	// EventDivider is an explicit block separator (thematic break).
	EventDivider
)

// TagKind classifies structural elements.
type TagKind uint8

const (
	TagOther TagKind = iota
	TagHeading
	TagList
	TagItem
	TagParagraph
)

// Tag identifies the element an EventStart or EventEnd refers to.
type Tag struct {
	Kind  TagKind
	Level int // heading level, TagHeading only
}

// Key returns the structural key of the tag; the zero key if the element
// cannot be mapped to a column.
func (t Tag) Key() rule.Key {
	switch t.Kind {
	case TagHeading:
		return rule.Heading(t.Level)
	case TagList:
		return rule.List()
	default:
		return rule.Key{}
	}
}

// IsSheetName reports whether the tag declares a sheet name.
func (t Tag) IsSheetName() bool {
	return t.Kind == TagHeading && t.Level == 1
}

// Event is one element of the structural event stream.
type Event struct {
	Kind EventKind
	Tag  Tag
	Text string
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart:
		return fmt.Sprintf("Start(%s)", e.Tag)
	case EventEnd:
		return fmt.Sprintf("End(%s)", e.Tag)
	case EventText:
		return fmt.Sprintf("Text(%q)", e.Text)
	default:
		return "Divider"
	}
}

func (t Tag) String() string {
	switch t.Kind {
	case TagHeading:
		return fmt.Sprintf("Heading%d", t.Level)
	case TagList:
		return "List"
	case TagItem:
		return "Item"
	case TagParagraph:
		return "Paragraph"
	default:
		return "Other"
	}
}

// Start returns an EventStart for tag.
func Start(tag Tag) Event { return Event{Kind: EventStart, Tag: tag} }

// End returns an EventEnd for tag.
func End(tag Tag) Event { return Event{Kind: EventEnd, Tag: tag} }

// Text returns an EventText carrying s.
func Text(s string) Event { return Event{Kind: EventText, Text: s} }

// Divider returns an EventDivider.
func Divider() Event { return Event{Kind: EventDivider} }

// HeadingTag returns the tag of a heading of the given level.
func HeadingTag(level int) Tag { return Tag{Kind: TagHeading, Level: level} }

// ListTag returns the tag of a list.
func ListTag() Tag { return Tag{Kind: TagList} }

// Events parses source with goldmark and flattens the tree into structural
// events. Inline markup is transparent: the text of one line is delivered
// as a single EventText, and each soft or hard line break ends a run.
// Headings deeper than goldmark supports are emulated (see deepHeadings).
func Events(source []byte) []Event {
	md := goldmark.New(goldmark.WithExtensions(extension.TaskList))
	doc := md.Parser().Parse(text.NewReader(source))

	w := &walker{source: source}
	_ = ast.Walk(doc, w.visit)
	w.flush()

	return deepHeadings(w.events)
}

type walker struct {
	source []byte
	buf    bytes.Buffer
	events []Event
}

func (w *walker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document:
		return ast.WalkContinue, nil

	case *ast.Text:
		if entering {
			value := node.Segment.Value(w.source)
			if !node.IsRaw() {
				value = decode(value)
			}
			w.buf.Write(value)
			if node.SoftLineBreak() || node.HardLineBreak() {
				w.flush()
			}
		}
		return ast.WalkContinue, nil

	case *ast.String:
		if entering {
			w.buf.Write(node.Value)
		}
		return ast.WalkContinue, nil

	case *ast.AutoLink:
		if entering {
			w.buf.Write(node.Label(w.source))
		}
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering {
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				w.buf.Write(seg.Value(w.source))
			}
		}
		return ast.WalkSkipChildren, nil

	case *ast.ThematicBreak:
		if entering {
			w.flush()
			w.events = append(w.events, Divider())
		}
		return ast.WalkSkipChildren, nil

	case *ast.TextBlock:
		w.flush()
		return ast.WalkContinue, nil

	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		w.flush()
		if !entering {
			w.events = append(w.events, End(Tag{Kind: TagOther}))
			return ast.WalkContinue, nil
		}
		w.events = append(w.events, Start(Tag{Kind: TagOther}))
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.events = append(w.events, Text(strings.TrimRight(string(seg.Value(w.source)), "\r\n")))
		}
		return ast.WalkSkipChildren, nil
	}

	if n.Type() == ast.TypeInline {
		return ast.WalkContinue, nil
	}

	w.flush()
	if entering {
		w.events = append(w.events, Start(tagOf(n)))
	} else {
		w.events = append(w.events, End(tagOf(n)))
	}
	return ast.WalkContinue, nil
}

// decode resolves backslash escapes and character references the way the
// HTML renderer would, without escaping the result. Code span text is raw
// and never decoded.
func decode(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}

// flush emits the pending text run, if any.
func (w *walker) flush() {
	run := strings.TrimSpace(w.buf.String())
	w.buf.Reset()
	if run == "" {
		return
	}
	w.events = append(w.events, Text(run))
}

func tagOf(n ast.Node) Tag {
	switch node := n.(type) {
	case *ast.Heading:
		return HeadingTag(node.Level)
	case *ast.List:
		return ListTag()
	case *ast.ListItem:
		return Tag{Kind: TagItem}
	case *ast.Paragraph:
		return Tag{Kind: TagParagraph}
	default:
		return Tag{Kind: TagOther}
	}
}
