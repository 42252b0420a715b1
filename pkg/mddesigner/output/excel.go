// Package output renders the table model into persisted artifacts.
package output

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/models"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/rule"
)

// blockGap is the number of rows from the last data row of a block to the
// title row of the next one.
const blockGap = 2

type styles struct {
	title  int
	header int
	data   int
}

// WriteExcel renders data and saves the workbook to path.
func WriteExcel(data *models.Data, path string) error {
	f, err := Render(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// Render lays every sheet of data out on a new workbook. Each block is
// rendered as a title row, a header (two rows when the schema declares
// groups) and one row per data row, with a blank row between blocks.
func Render(data *models.Data) (*excelize.File, error) {
	f := excelize.NewFile()

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	defaultSheet := f.GetSheetName(0)
	seen := make(map[string]struct{}, len(data.Sheets))
	for i, sheet := range data.Sheets {
		name := sheet.SheetName()
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		// sheet names are case-insensitive in a workbook
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			f.Close()
			return nil, fmt.Errorf("duplicate sheet name %q", name)
		}
		seen[key] = struct{}{}

		if i == 0 {
			err = f.SetSheetName(defaultSheet, name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}

		if err := renderSheet(f, name, sheet, data.Rule, st); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
	}

	return f, nil
}

func renderSheet(f *excelize.File, name string, sheet models.Sheet, r *rule.Rule, st styles) error {
	y := 0
	for idx, block := range sheet.Blocks {
		if err := writeCell(f, name, y, 0, block.Title, st.title); err != nil {
			return err
		}
		y++

		if r == nil || idx >= len(r.Blocks) {
			continue
		}
		bs := r.Blocks[idx]

		if err := renderHeader(f, name, y, bs, st); err != nil {
			return err
		}
		if len(bs.MergeInfo) > 0 {
			y++
		}

		body := y + 1
		last := 0
		for dy, row := range block.Rows {
			for x, value := range row.Columns {
				if err := writeCell(f, name, body+dy, x, value, st.data); err != nil {
					return err
				}
			}
			last = dy
		}
		y += last + 1 + blockGap
	}
	return nil
}

// renderHeader writes group headers merged horizontally on row y with
// their member titles below, and every other column title merged
// vertically over both rows. Without groups the header is a single row.
func renderHeader(f *excelize.File, name string, y int, bs rule.BlockSchema, st styles) error {
	for _, mi := range bs.MergeInfo {
		rng := models.CellRange{R1: y, C1: mi.From, R2: y, C2: mi.To}
		if err := writeRange(f, name, rng, mi.Title, st.header); err != nil {
			return err
		}
	}

	grouped := len(bs.MergeInfo) > 0
	for x, col := range bs.Columns {
		var err error
		switch {
		case inGroup(bs.MergeInfo, x):
			err = writeCell(f, name, y+1, x, col.Title, st.header)
		case grouped:
			err = writeRange(f, name, models.CellRange{R1: y, C1: x, R2: y + 1, C2: x}, col.Title, st.header)
		default:
			err = writeCell(f, name, y, x, col.Title, st.header)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func inGroup(groups []rule.MergeInfo, col int) bool {
	for _, mi := range groups {
		if mi.Contains(col) {
			return true
		}
	}
	return false
}

func writeCell(f *excelize.File, sheet string, row, col int, value string, style int) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, cell, value); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

func writeRange(f *excelize.File, sheet string, rng models.CellRange, value string, style int) error {
	if rng.IsSingleCell() {
		return writeCell(f, sheet, rng.R1, rng.C1, value, style)
	}
	start, err := cellName(rng.R1, rng.C1)
	if err != nil {
		return err
	}
	end, err := cellName(rng.R2, rng.C2)
	if err != nil {
		return err
	}
	if err := f.MergeCell(sheet, start, end); err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, start, value); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

// cellName converts 0-based coordinates to an A1 reference.
func cellName(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col+1, row+1)
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return styles{}, fmt.Errorf("title style: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Border: border,
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"00FFFF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return styles{}, fmt.Errorf("header style: %w", err)
	}

	data, err := f.NewStyle(&excelize.Style{
		Border: border,
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "top",
			WrapText:   true,
		},
	})
	if err != nil {
		return styles{}, fmt.Errorf("data style: %w", err)
	}

	return styles{title: title, header: header, data: data}, nil
}
