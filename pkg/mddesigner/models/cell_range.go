package models

// CellRange represents 0-based cell coordinate bounds on a worksheet.
type CellRange struct {
	// R1 is the start row.
	R1 int
	// C1 is the start column.
	C1 int
	// R2 is the end row (inclusive).
	R2 int
	// C2 is the end column (inclusive).
	C2 int
}

// IsSingleCell reports whether the range covers exactly one cell.
func (r CellRange) IsSingleCell() bool {
	return r.R1 == r.R2 && r.C1 == r.C2
}
