package models

// Sheet is one top-level named section of the document.
type Sheet struct {
	// Name is the sheet name taken from the level-1 heading (nil if unnamed).
	Name *string `json:"sheet_name,omitempty"`
	// Blocks contains the blocks of the sheet in schema order.
	Blocks []Block `json:"blocks"`
}

// SheetName returns the sheet name or an empty string.
func (s Sheet) SheetName() string {
	if s.Name == nil {
		return ""
	}
	return *s.Name
}

// Block is one schema block filled with rows.
type Block struct {
	// Title is the block title from the schema.
	Title string `json:"title"`
	// Rows contains the rows of the block.
	Rows []Row `json:"rows"`
}
