// Package rule defines the schema that drives the document-to-table
// conversion: the ordered blocks, their columns, column groups and the
// header merge ranges derived from them.
package rule

import (
	_ "embed"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// NoGroup is the Group index of a column that belongs to no group.
const NoGroup = -1

//go:embed default_rule.yml
var defaultRule []byte

// Rule is a parsed schema: an ordered list of block definitions plus the
// side table of groups referenced by their columns.
type Rule struct {
	Blocks []BlockSchema
	Groups []Group
	// Warnings lists accepted but ineffective declarations, such as an
	// unknown md value.
	Warnings []string
}

// BlockSchema describes one repeating block of a sheet.
type BlockSchema struct {
	Title   string
	Columns []ColumnSchema
	// MergeInfo holds one header merge range per group, in schema order.
	MergeInfo []MergeInfo
}

// ColumnSchema describes one output column.
type ColumnSchema struct {
	Title         string
	AutoIncrement bool
	// Key is the structural element feeding this column; zero for
	// auto-increment columns.
	Key Key
	// CustomPrefix is the list-item prefix routed to this column, 0 if unset.
	CustomPrefix rune
	// Group indexes Rule.Groups, NoGroup if the column is not grouped.
	Group  int
	IsLast bool
}

// Group is a named cluster of adjacent columns sharing one header.
type Group struct {
	Title string
}

// MergeInfo is the column range [From, To] spanned by a group header.
type MergeInfo struct {
	Title string
	From  int
	To    int
}

// Contains reports whether the column index lies inside the range.
func (m MergeInfo) Contains(col int) bool {
	return m.From <= col && col <= m.To
}

// HasCustomPrefix reports whether list items with a custom prefix are
// routed to the column.
func (c ColumnSchema) HasCustomPrefix() bool {
	return c.CustomPrefix != 0
}

// CustomPrefixes returns every distinct custom prefix declared by the
// schema, in declaration order.
func (r *Rule) CustomPrefixes() []rune {
	var prefixes []rune
	seen := make(map[rune]struct{})
	for _, b := range r.Blocks {
		for _, c := range b.Columns {
			if !c.HasCustomPrefix() {
				continue
			}
			if _, ok := seen[c.CustomPrefix]; ok {
				continue
			}
			seen[c.CustomPrefix] = struct{}{}
			prefixes = append(prefixes, c.CustomPrefix)
		}
	}
	return prefixes
}

// Default returns the built-in rule used when no schema file is given.
func Default() *Rule {
	r, err := Parse(defaultRule)
	if err != nil {
		panic(fmt.Sprintf("embedded default rule: %v", err))
	}
	return r
}

// LoadFile loads and parses a YAML schema from the given path.
func LoadFile(path string) (*Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	return Parse(data)
}

type ruleFile struct {
	Blocks []blockFile `yaml:"blocks"`
}

type blockFile struct {
	Title   string      `yaml:"title"`
	Content []yaml.Node `yaml:"content"`
}

// Parse parses YAML schema data into a Rule.
func Parse(data []byte) (*Rule, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, NewSchemaError(-1, -1, "malformed schema document", err)
	}

	r := &Rule{}
	for bi, bf := range rf.Blocks {
		block, err := r.parseBlock(bi, bf)
		if err != nil {
			return nil, err
		}
		r.Blocks = append(r.Blocks, block)
	}

	return r, nil
}

func (r *Rule) parseBlock(bi int, bf blockFile) (BlockSchema, error) {
	block := BlockSchema{Title: bf.Title}
	idx := 0

	for ei := range bf.Content {
		fields, ok := mappingFields(&bf.Content[ei])
		if !ok {
			return BlockSchema{}, NewSchemaError(bi, ei, "entry must be a column or a group declaration", nil)
		}

		if _, ok := fields["column"]; ok {
			col, err := r.parseColumn(bi, ei, fields)
			if err != nil {
				return BlockSchema{}, err
			}
			block.Columns = append(block.Columns, col)
			idx++
			continue
		}

		groupNode, ok := fields["group"]
		if !ok {
			return BlockSchema{}, NewSchemaError(bi, ei, "entry must be a column or a group declaration", nil)
		}
		members, ok := fields["columns"]
		if !ok {
			return BlockSchema{}, NewSchemaError(bi, ei, "group lacks a columns list", nil)
		}
		if members.Kind != yaml.SequenceNode {
			return BlockSchema{}, NewSchemaError(bi, ei, "group columns must be a sequence", nil)
		}

		r.Groups = append(r.Groups, Group{Title: scalarString(groupNode)})
		gi := len(r.Groups) - 1

		for _, m := range members.Content {
			mf, ok := mappingFields(m)
			if !ok {
				return BlockSchema{}, NewSchemaError(bi, ei, "group member must be a column declaration", nil)
			}
			if _, ok := mf["column"]; !ok {
				return BlockSchema{}, NewSchemaError(bi, ei, "group member lacks a column key", nil)
			}
			col, err := r.parseColumn(bi, ei, mf)
			if err != nil {
				return BlockSchema{}, err
			}
			col.Group = gi
			block.Columns = append(block.Columns, col)
		}

		from := idx
		idx += len(members.Content)
		if idx > from {
			block.MergeInfo = append(block.MergeInfo, MergeInfo{
				Title: r.Groups[gi].Title,
				From:  from,
				To:    idx - 1,
			})
		}
	}

	if n := len(block.Columns); n > 0 {
		block.Columns[n-1].IsLast = true
	}

	return block, nil
}

func (r *Rule) parseColumn(bi, ei int, fields map[string]*yaml.Node) (ColumnSchema, error) {
	col := ColumnSchema{
		Title: scalarString(fields["column"]),
		Group: NoGroup,
	}

	if n, ok := fields["isNum"]; ok {
		var b bool
		if n.Kind == yaml.ScalarNode && n.Decode(&b) == nil {
			col.AutoIncrement = b
		}
	}

	if n, ok := fields["md"]; ok {
		key, err := ParseKey(scalarString(n))
		if err != nil {
			// the column stays in the layout but never receives content
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("block %d, entry %d: column %q: %v, column is never filled", bi, ei, col.Title, err))
		}
		col.Key = key
	}

	if n, ok := fields["customPrefix"]; ok && !isNull(n) {
		if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
			return ColumnSchema{}, NewSchemaError(bi, ei, "customPrefix must be a string", nil)
		}
		if utf8.RuneCountInString(n.Value) != 1 {
			return ColumnSchema{}, NewSchemaError(bi, ei,
				fmt.Sprintf("customPrefix must be exactly one character, got %q", n.Value), nil)
		}
		col.CustomPrefix, _ = utf8.DecodeRuneInString(n.Value)
	}

	return col, nil
}

// mappingFields indexes the keys of a YAML mapping node.
func mappingFields(n *yaml.Node) (map[string]*yaml.Node, bool) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, false
	}
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}
	return fields, true
}

func scalarString(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode || isNull(n) {
		return ""
	}
	return n.Value
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
