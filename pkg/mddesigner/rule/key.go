package rule

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxHeadingLevel is the deepest heading a schema column can reference.
const MaxHeadingLevel = 8

// KeyKind identifies which structural document element a Key selects.
type KeyKind uint8

const (
	// KeyNone is the zero key; it never matches a document element.
	KeyNone KeyKind = iota
	// KeyHeading selects a heading of a given level (1..8).
	KeyHeading
	// KeyList selects an ordinary list.
	KeyList
	// KeyAutoIncrement is the reserved key of the auto-increment column.
	KeyAutoIncrement
	// KeyCustomPrefix selects list items starting with a custom prefix.
	KeyCustomPrefix
)

// Key is a structural lookup key. It is comparable and used directly as a
// map key by the mapping compiler.
type Key struct {
	Kind   KeyKind
	Level  int
	Prefix rune
}

// Heading returns the key of a heading of the given level.
func Heading(level int) Key {
	return Key{Kind: KeyHeading, Level: level}
}

// List returns the key of an ordinary list.
func List() Key {
	return Key{Kind: KeyList}
}

// AutoIncrement returns the reserved auto-increment key.
func AutoIncrement() Key {
	return Key{Kind: KeyAutoIncrement}
}

// CustomPrefix returns the key of list items introduced by prefix.
func CustomPrefix(prefix rune) Key {
	return Key{Kind: KeyCustomPrefix, Prefix: prefix}
}

// IsZero reports whether k selects nothing.
func (k Key) IsZero() bool {
	return k.Kind == KeyNone
}

// String renders the key in the schema's "md" notation, e.g. "Heading2",
// "List", "AUTOINCREMENT" or "CUSTOMPREFIX +".
func (k Key) String() string {
	switch k.Kind {
	case KeyHeading:
		return "Heading" + strconv.Itoa(k.Level)
	case KeyList:
		return "List"
	case KeyAutoIncrement:
		return "AUTOINCREMENT"
	case KeyCustomPrefix:
		return "CUSTOMPREFIX " + string(k.Prefix)
	default:
		return ""
	}
}

// ParseKey parses the "md" value of a column declaration. Only heading
// levels 1..8 and "List" are accepted; the empty string yields the zero key.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Key{}, nil
	case s == "List":
		return List(), nil
	case strings.HasPrefix(s, "Heading"):
		level, err := strconv.Atoi(strings.TrimPrefix(s, "Heading"))
		if err != nil || level < 1 || level > MaxHeadingLevel {
			return Key{}, fmt.Errorf("unknown heading key %q", s)
		}
		return Heading(level), nil
	default:
		return Key{}, fmt.Errorf("unknown structural key %q", s)
	}
}
