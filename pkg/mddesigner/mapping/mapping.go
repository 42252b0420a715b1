// Package mapping compiles a rule into per-block lookup tables that turn a
// structural document element into an output column index.
package mapping

import (
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/rule"
)

// Mapping holds one compiled Block per schema block. It is read-only after
// Compile and may be shared between conversions.
type Mapping struct {
	blocks []Block
}

// Block is the compiled lookup of one schema block.
type Block struct {
	title   string
	width   int
	index   map[rule.Key]int
	last    rule.Key
	hasLast bool
}

// Compile builds the mapping of every block of r. Key collisions inside a
// block are resolved by the later column.
func Compile(r *rule.Rule) *Mapping {
	m := &Mapping{blocks: make([]Block, 0, len(r.Blocks))}
	for _, bs := range r.Blocks {
		b := Block{
			title: bs.Title,
			width: len(bs.Columns),
			index: make(map[rule.Key]int, len(bs.Columns)),
		}
		for idx, col := range bs.Columns {
			key := KeyOf(col)
			b.index[key] = idx
			if col.IsLast {
				b.last = key
				b.hasLast = true
			}
		}
		m.blocks = append(m.blocks, b)
	}
	return m
}

// KeyOf returns the lookup key a column is registered under.
func KeyOf(col rule.ColumnSchema) rule.Key {
	switch {
	case col.AutoIncrement:
		return rule.AutoIncrement()
	case col.HasCustomPrefix():
		return rule.CustomPrefix(col.CustomPrefix)
	default:
		return col.Key
	}
}

// Len returns the number of compiled blocks.
func (m *Mapping) Len() int {
	return len(m.blocks)
}

// Block returns the compiled block at index i.
func (m *Mapping) Block(i int) (*Block, bool) {
	if i < 0 || i >= len(m.blocks) {
		return nil, false
	}
	return &m.blocks[i], true
}

// Title is the schema title of the block.
func (b *Block) Title() string {
	return b.title
}

// Width is the number of columns of the block.
func (b *Block) Width() int {
	return b.width
}

// Index resolves a structural key to a column index.
func (b *Block) Index(k rule.Key) (int, bool) {
	if k.IsZero() {
		return 0, false
	}
	idx, ok := b.index[k]
	return idx, ok
}

// AutoIncrementIndex returns the index of the auto-increment column.
func (b *Block) AutoIncrementIndex() (int, bool) {
	return b.Index(rule.AutoIncrement())
}

// IsLast reports whether k is the key of the block's terminal column.
func (b *Block) IsLast(k rule.Key) bool {
	return b.hasLast && !k.IsZero() && b.last == k
}
