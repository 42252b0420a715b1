// Package mddesigner converts structured Markdown test-design documents
// into spreadsheets, driven by a YAML schema.
package mddesigner

import (
	"log/slog"

	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/output"
)

// Options configures conversion and export behavior.
type Options struct {
	// Format specifies the output artifact format (xlsx, json).
	Format output.Format
	// Pretty indents JSON output.
	Pretty bool
	// Logger receives progress and debug entries. If nil, logs are discarded.
	Logger *slog.Logger
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		Format: output.FormatExcel,
	}
}

// logger returns the configured logger or a discarding one.
func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// format returns the configured format, defaulting to xlsx.
func (o Options) format() output.Format {
	if o.Format == "" {
		return output.FormatExcel
	}
	return o.Format
}
