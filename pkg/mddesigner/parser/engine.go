package parser

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/mapping"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/models"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/prefilter"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/rule"
)

// noIndex is the previous column index right after a row was started.
// It lies below every column, so a document-fed column 0 does not open
// an empty leading row, unlike a reset to 0.
const noIndex = -1

// Parse converts a raw document into the table model. The document must
// start with a level-1 heading naming the first sheet. A nil mapping is
// compiled from r; a nil logger discards output.
func Parse(input string, r *rule.Rule, m *mapping.Mapping, logger *slog.Logger) (*models.Data, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if m == nil {
		m = mapping.Compile(r)
	}

	for _, w := range r.Warnings {
		logger.Warn("rule", "warning", w)
	}

	logger.Info("escape input")
	escaped := prefilter.Escape(input)

	doc := strings.TrimLeft(escaped, " \t\r\n")
	if !strings.HasPrefix(doc, "# ") {
		return nil, NewInputError("input must start with '# ' (sheet name)")
	}

	logger.Info("parsing input with parsed rules")
	doc = prefilter.RewritePrefixes(doc, r.CustomPrefixes())
	events := Events([]byte(doc))
	sheets := Build(events, m, logger)

	logger.Info("parsed input", "sheets", len(sheets))
	return &models.Data{
		Sheets:  sheets,
		Rule:    r,
		Mapping: m,
	}, nil
}

// Build folds an event stream into sheets using the compiled mapping.
func Build(events []Event, m *mapping.Mapping, logger *slog.Logger) []models.Sheet {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := newBuilder(m, logger)
	for _, ev := range events {
		b.handle(ev)
	}
	b.finish()
	return b.sheets
}

// builder carries the whole state of one conversion.
type builder struct {
	m      *mapping.Mapping
	logger *slog.Logger

	sheetCount int
	block      int
	column     int
	rowCounter int
	// prevIndex is the column index of the last closed mapped element.
	prevIndex   int
	prevWasList bool

	sheetNamePending bool
	sheetNameStarted bool
	// blockStart suppresses the custom-prefix row trigger until the first
	// custom-prefixed item of a freshly started block.
	blockStart bool
	overflow   bool

	row    models.Row
	cur    models.Block
	sheet  models.Sheet
	sheets []models.Sheet
}

func newBuilder(m *mapping.Mapping, logger *slog.Logger) *builder {
	b := &builder{m: m, logger: logger}
	b.resetSheet()
	return b
}

func (b *builder) handle(ev Event) {
	b.logger.Debug("event", "event", ev.String())
	switch ev.Kind {
	case EventStart:
		b.start(ev.Tag)
	case EventText:
		b.text(ev.Text)
	case EventEnd:
		b.end(ev.Tag)
	case EventDivider:
		b.divider()
	}
}

func (b *builder) start(tag Tag) {
	if tag.IsSheetName() {
		b.sheetNamePending = true
		return
	}

	blk, ok := b.m.Block(b.block)
	if !ok {
		return
	}

	key := tag.Key()
	idx, found := blk.Index(key)
	switch {
	case found && idx <= b.prevIndex:
		// consecutive lists stay in the current row
		if tag.Kind != TagList || !b.prevWasList {
			b.startRow()
		}
	case !found && blk.IsLast(key):
		b.startRow()
	}

	if found {
		b.column = idx
	}
}

func (b *builder) text(s string) {
	if b.sheetNamePending {
		b.sheetName(prefilter.Unescape(s))
		return
	}

	if prefix, content, ok := prefilter.DecodeMarker(s); ok {
		b.customPrefixed(prefix, content)
		return
	}

	b.push(b.column, s)
}

func (b *builder) sheetName(name string) {
	if b.sheetNameStarted {
		// a setext heading spanning lines continues the same name
		joined := concat(b.sheet.SheetName(), name)
		b.sheet.Name = &joined
		return
	}
	b.sheetNameStarted = true

	b.sheetCount++
	if b.sheetCount > 1 {
		b.logger.Debug("start a new sheet", "sheet", b.sheetCount)
		b.finishBlock()
		b.sheets = append(b.sheets, b.sheet)
		b.resetSheet()
	}
	b.sheet.Name = &name
	b.logger.Debug("sheet name pushed", "name", name)
}

func (b *builder) customPrefixed(prefix rune, content string) {
	defer func() { b.blockStart = false }()

	blk, ok := b.m.Block(b.block)
	if !ok {
		return
	}
	idx, found := blk.Index(rule.CustomPrefix(prefix))
	if !found {
		b.logger.Warn("custom prefix is not mapped in block, content dropped",
			"prefix", string(prefix), "block", b.block)
		return
	}

	if idx < b.column && !b.blockStart {
		b.startRow()
	}
	b.push(idx, content)
	b.column = idx
}

func (b *builder) end(tag Tag) {
	b.sheetNamePending = false
	b.sheetNameStarted = false

	if blk, ok := b.m.Block(b.block); ok {
		if idx, found := blk.Index(tag.Key()); found {
			b.prevIndex = idx
		}
	}
	b.prevWasList = tag.Kind == TagList
}

func (b *builder) divider() {
	b.logger.Debug("start a new block", "block", b.block+1)
	b.finishBlock()

	b.block++
	b.column = 0
	b.rowCounter = 1
	b.prevIndex = noIndex
	b.row = b.newRow()
	b.cur = models.Block{}
	b.blockStart = true
}

func (b *builder) finish() {
	b.finishBlock()
	b.sheets = append(b.sheets, b.sheet)
}

// startRow closes the pending row and opens a fresh one.
func (b *builder) startRow() {
	b.logger.Debug("start a new row", "block", b.block, "row", b.rowCounter+1)
	b.stamp()
	b.cur.Rows = append(b.cur.Rows, b.row)
	b.row = b.newRow()
	b.rowCounter++
	b.prevIndex = noIndex
}

// finishBlock pushes the pending row and the current block into the sheet.
// Blocks beyond the schema are dropped.
func (b *builder) finishBlock() {
	blk, ok := b.m.Block(b.block)
	if !ok {
		if !b.overflow {
			b.logger.Warn("document has more blocks than the schema, extra blocks dropped",
				"schema_blocks", b.m.Len())
			b.overflow = true
		}
		return
	}
	b.stamp()
	b.cur.Title = blk.Title()
	b.cur.Rows = append(b.cur.Rows, b.row)
	b.sheet.Blocks = append(b.sheet.Blocks, b.cur)
}

func (b *builder) resetSheet() {
	b.block = 0
	b.column = 0
	b.rowCounter = 1
	b.prevIndex = noIndex
	b.prevWasList = false
	b.sheetNamePending = false
	b.sheetNameStarted = false
	b.blockStart = true
	b.sheet = models.Sheet{}
	b.cur = models.Block{}
	b.row = b.newRow()
}

// stamp writes the row counter into the auto-increment column.
func (b *builder) stamp() {
	blk, ok := b.m.Block(b.block)
	if !ok {
		return
	}
	if idx, ok := blk.AutoIncrementIndex(); ok && idx < len(b.row.Columns) {
		b.row.Columns[idx] = strconv.Itoa(b.rowCounter)
	}
}

func (b *builder) push(col int, s string) {
	if col < 0 || col >= len(b.row.Columns) {
		return
	}
	b.row.Columns[col] = concat(b.row.Columns[col], prefilter.Unescape(s))
	b.logger.Debug("cell pushed",
		"sheet", b.sheetCount, "block", b.block, "row", b.rowCounter, "column", col)
}

func (b *builder) newRow() models.Row {
	blk, ok := b.m.Block(b.block)
	if !ok {
		return models.NewRow(0)
	}
	return models.NewRow(blk.Width())
}

// concat appends s to cell on a new line, or returns s for an empty cell.
func concat(cell, s string) string {
	if cell == "" {
		return s
	}
	return cell + "\n" + s
}
