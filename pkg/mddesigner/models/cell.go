package models

// Row is a fixed-width sequence of cell values.
type Row struct {
	// Columns holds one string per schema column.
	Columns []string `json:"columns"`
}

// NewRow returns a row of width empty cells.
func NewRow(width int) Row {
	return Row{Columns: make([]string, width)}
}
