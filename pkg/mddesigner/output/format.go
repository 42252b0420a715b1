package output

import (
	"errors"
	"fmt"
	"strings"
)

// Format is an output artifact format.
type Format string

const (
	// FormatExcel writes an .xlsx workbook.
	FormatExcel Format = "xlsx"
	// FormatJSON writes the table model as JSON.
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatExcel, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be xlsx or json)", s)
	}
}

// Ext returns the file extension of the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// FileName normalizes an output file name: the format's extension is
// stripped if present and appended again. An empty name is an error.
func FileName(name string, f Format) (string, error) {
	name = strings.TrimSpace(name)
	base := strings.TrimSuffix(name, f.Ext())
	if base == "" {
		return "", errors.New("output filename is empty")
	}
	return base + f.Ext(), nil
}
