package parser

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/mapping"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/models"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/prefilter"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/rule"
)

const twoHeadingRule = `
blocks:
  - title: Cases
    content:
      - column: No
        isNum: true
      - column: Item
        md: Heading2
      - column: Detail
        md: Heading3
`

const twoBlockRule = `
blocks:
  - title: First
    content:
      - column: No
        isNum: true
      - column: Item
        md: Heading2
  - title: Second
    content:
      - column: No
        isNum: true
      - column: Item
        md: Heading2
      - column: Note
        md: List
`

const customPrefixRule = `
blocks:
  - title: Steps
    content:
      - column: No
        isNum: true
      - column: Case
        md: Heading2
      - column: Action
        customPrefix: "+"
      - column: Expected
        customPrefix: "$"
  - title: Extra
    content:
      - column: No
        isNum: true
      - column: Action
        customPrefix: "+"
      - column: Expected
        customPrefix: "$"
`

func mustRule(t *testing.T, src string) *rule.Rule {
	t.Helper()
	r, err := rule.Parse([]byte(src))
	require.NoError(t, err)
	return r
}

func parse(t *testing.T, ruleSrc, input string) *models.Data {
	t.Helper()
	data, err := Parse(input, mustRule(t, ruleSrc), nil, nil)
	require.NoError(t, err)
	return data
}

func rows(block models.Block) [][]string {
	var out [][]string
	for _, r := range block.Rows {
		out = append(out, r.Columns)
	}
	return out
}

func TestParse_HeadingRows(t *testing.T) {
	data := parse(t, twoHeadingRule, "# S\n## A\n### A1\n## B\n")

	require.Len(t, data.Sheets, 1)
	sheet := data.Sheets[0]
	assert.Equal(t, "S", sheet.SheetName())
	require.Len(t, sheet.Blocks, 1)
	assert.Equal(t, "Cases", sheet.Blocks[0].Title)
	assert.Equal(t, [][]string{
		{"1", "A", "A1"},
		{"2", "B", ""},
	}, rows(sheet.Blocks[0]))
}

func TestParse_DividerResetsCounter(t *testing.T) {
	data := parse(t, twoBlockRule, "# S\n## a\n## b\n\n---\n\n## c\n- note\n")

	blocks := data.Sheets[0].Blocks
	require.Len(t, blocks, 2)
	assert.Equal(t, "First", blocks[0].Title)
	assert.Equal(t, [][]string{{"1", "a"}, {"2", "b"}}, rows(blocks[0]))
	assert.Equal(t, "Second", blocks[1].Title)
	assert.Equal(t, [][]string{{"1", "c", "note"}}, rows(blocks[1]))
}

func TestParse_MultipleSheetsReplaySchema(t *testing.T) {
	input := "# One\n## a\n\n---\n\n## b\n- x\n\n# Two\n## c\n## d\n\n---\n\n## e\n"
	data := parse(t, twoBlockRule, input)

	require.Len(t, data.Sheets, 2)

	one := data.Sheets[0]
	assert.Equal(t, "One", one.SheetName())
	require.Len(t, one.Blocks, 2)
	assert.Equal(t, [][]string{{"1", "a"}}, rows(one.Blocks[0]))
	assert.Equal(t, [][]string{{"1", "b", "x"}}, rows(one.Blocks[1]))

	two := data.Sheets[1]
	assert.Equal(t, "Two", two.SheetName())
	require.Len(t, two.Blocks, 2)
	assert.Equal(t, "First", two.Blocks[0].Title)
	assert.Equal(t, [][]string{{"1", "c"}, {"2", "d"}}, rows(two.Blocks[0]))
	assert.Equal(t, "Second", two.Blocks[1].Title)
	assert.Equal(t, [][]string{{"1", "e", ""}}, rows(two.Blocks[1]))
}

func TestParse_ListContinuationKeepsRow(t *testing.T) {
	input := "# S\n---\n## a\n- one\n* two\n+ three\n## b\n- four\n"
	data := parse(t, twoBlockRule, input)

	second := data.Sheets[0].Blocks[1]
	assert.Equal(t, [][]string{
		{"1", "a", "one\ntwo\nthree"},
		{"2", "b", "four"},
	}, rows(second))
}

func TestParse_CustomPrefixRows(t *testing.T) {
	input := "# S\n## login\n+ open page\n+ submit\n$ welcome shown\n+ logout\n$ signed out\n"
	data := parse(t, customPrefixRule, input)

	assert.Equal(t, [][]string{
		{"1", "login", "open page\nsubmit", "welcome shown"},
		{"2", "", "logout", "signed out"},
	}, rows(data.Sheets[0].Blocks[0]))
}

func TestParse_CustomPrefixWithoutSpaceIsListContent(t *testing.T) {
	input := "# S\n---\n- a\n+no space\n"
	data := parse(t, twoBlockRule, input)

	second := data.Sheets[0].Blocks[1]
	assert.Equal(t, [][]string{{"1", "", "a\n+no space"}}, rows(second))
}

func TestParse_BlockStartSuppressesCustomPrefixRow(t *testing.T) {
	const reversed = `
blocks:
  - title: Reversed
    content:
      - column: No
        isNum: true
      - column: Action
        customPrefix: "+"
      - column: Case
        md: Heading2
`
	// The first custom-prefixed item of a block never starts a row, even
	// though its column precedes the current one. Later ones do.
	data := parse(t, reversed, "# S\n## case\n+ act\n## next\n+ again\n")

	assert.Equal(t, [][]string{
		{"1", "act", "case"},
		{"2", "", "next"},
		{"3", "again", ""},
	}, rows(data.Sheets[0].Blocks[0]))
}

func TestParse_UnmappedHeadingLeavesColumn(t *testing.T) {
	data := parse(t, twoHeadingRule, "# S\n## A\n#### deep\n")
	assert.Equal(t, [][]string{{"1", "A\ndeep", ""}}, rows(data.Sheets[0].Blocks[0]))
}

func TestParse_ExtraBlocksDropped(t *testing.T) {
	data := parse(t, twoHeadingRule, "# S\n## A\n\n---\n\n## B\n")

	blocks := data.Sheets[0].Blocks
	require.Len(t, blocks, 1)
	assert.Equal(t, [][]string{{"1", "A", ""}}, rows(blocks[0]))
}

func TestParse_EscapedAsterisks(t *testing.T) {
	data := parse(t, twoBlockRule, "# S *1*\n## a * b ** c\n")

	sheet := data.Sheets[0]
	assert.Equal(t, "S *1*", sheet.SheetName())
	assert.Equal(t, [][]string{{"1", "a * b ** c"}}, rows(sheet.Blocks[0]))
}

func TestParse_LeadingBlankLines(t *testing.T) {
	data := parse(t, twoHeadingRule, "\n\n  \n# S\n## A\n")
	assert.Equal(t, "S", data.Sheets[0].SheetName())
}

func TestParse_MissingSheetName(t *testing.T) {
	for _, input := range []string{"## A\n", "", "text\n# S\n", "#S\n"} {
		_, err := Parse(input, mustRule(t, twoHeadingRule), nil, nil)
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, ErrInput))
	}
}

func TestParse_RowWidthFixedBySchema(t *testing.T) {
	data := parse(t, customPrefixRule, "# S\n## a\n\n---\n\n+ x\n")
	for bi, block := range data.Sheets[0].Blocks {
		for _, row := range block.Rows {
			assert.Len(t, row.Columns, len(data.Rule.Blocks[bi].Columns))
		}
	}
}

// The number of rows equals the row-boundary triggers plus the trailing
// flush, and auto-increment values run 1..n.
func TestBuild_RowCountAndNumbering(t *testing.T) {
	r := mustRule(t, twoHeadingRule)
	m := mapping.Compile(r)

	h1, h2, h3 := HeadingTag(1), HeadingTag(2), HeadingTag(3)
	events := []Event{Start(h1), Text("S"), End(h1)}
	triggers := 0
	for i := 0; i < 5; i++ {
		if i > 0 {
			triggers++
		}
		events = append(events,
			Start(h2), Text("case"), End(h2),
			Start(h3), Text("detail"), End(h3),
		)
	}

	sheets := Build(events, m, nil)
	require.Len(t, sheets, 1)
	block := sheets[0].Blocks[0]
	require.Len(t, block.Rows, triggers+1)
	for i, row := range block.Rows {
		assert.Equal(t, []string{strconv.Itoa(i + 1), "case", "detail"}, row.Columns)
	}
}

func TestBuild_CustomPrefixMarkerRouting(t *testing.T) {
	r := mustRule(t, customPrefixRule)
	m := mapping.Compile(r)
	h1 := HeadingTag(1)

	events := []Event{
		Start(h1), Text("S"), End(h1),
		Start(ListTag()),
		Text(prefilter.Marker('$') + " result"),
		Text("more"),
		Text(prefilter.Marker('+') + " action"),
		End(ListTag()),
	}

	sheets := Build(events, m, nil)
	assert.Equal(t, [][]string{
		{"1", "", "", "result\nmore"},
		{"2", "", "action", ""},
	}, rows(sheets[0].Blocks[0]))
}

func TestConcat(t *testing.T) {
	assert.Equal(t, "input", concat("", "input"))
	assert.Equal(t, "target\ninput", concat("target", "input"))
}

func TestParse_DecodedText(t *testing.T) {
	data := parse(t, twoBlockRule, "# S \\& T\n## a\\_b &amp; c\\#d\n- x &lt; y\n")

	sheet := data.Sheets[0]
	assert.Equal(t, "S & T", sheet.SheetName())
	assert.Equal(t, [][]string{{"1", "a_b & c#d\nx < y"}}, rows(sheet.Blocks[0]))
}

func TestParse_DeepHeadingsShareCell(t *testing.T) {
	const deep = `
blocks:
  - title: Deep
    content:
      - column: No
        isNum: true
      - column: Level 6
        md: Heading6
      - column: Level 7
        md: Heading7
`
	data := parse(t, deep, "# S\n###### a\n####### b\n####### c\n")
	assert.Equal(t, [][]string{{"1", "a", "b\nc"}}, rows(data.Sheets[0].Blocks[0]))

	data = parse(t, deep, "# S\n###### a\n####### b\n###### c\n####### d\n")
	assert.Equal(t, [][]string{
		{"1", "a", "b"},
		{"2", "c", "d"},
	}, rows(data.Sheets[0].Blocks[0]))
}

func TestParse_FirstColumnFromDocument(t *testing.T) {
	const noCounter = `
blocks:
  - title: Plain
    content:
      - column: Item
        md: Heading2
      - column: Detail
        md: Heading3
`
	data := parse(t, noCounter, "# S\n## A\n### A1\n## B\n")
	assert.Equal(t, [][]string{
		{"A", "A1"},
		{"B", ""},
	}, rows(data.Sheets[0].Blocks[0]))
}

func TestParse_SetextSheetNameSpansLines(t *testing.T) {
	data := parse(t, twoBlockRule, "# One\n## a\n\nTwo\nlines\n===\n## b\n")

	require.Len(t, data.Sheets, 2)
	assert.Equal(t, "One", data.Sheets[0].SheetName())
	assert.Equal(t, "Two\nlines", data.Sheets[1].SheetName())
	assert.Equal(t, [][]string{{"1", "b"}}, rows(data.Sheets[1].Blocks[0]))
}

func TestParse_UnknownMdColumnStaysEmpty(t *testing.T) {
	const unknown = `
blocks:
  - title: T
    content:
      - column: No
        isNum: true
      - column: Item
        md: Heading2
      - column: Para
        md: Paragraph
`
	data := parse(t, unknown, "# S\n## a\ntext\n")

	require.Len(t, data.Rule.Warnings, 1)
	assert.Equal(t, [][]string{{"1", "a\ntext", ""}}, rows(data.Sheets[0].Blocks[0]))
}
