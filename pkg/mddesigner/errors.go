package mddesigner

import (
	"fmt"

	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/parser"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/rule"
)

// SchemaError reports a malformed schema.
type SchemaError = rule.SchemaError

// InputError reports a document that cannot be converted.
type InputError = parser.InputError

var (
	// ErrSchema matches every SchemaError.
	ErrSchema = rule.ErrSchema
	// ErrInput matches every InputError.
	ErrInput = parser.ErrInput
)

// ExportError represents an error while writing an artifact.
type ExportError struct {
	Path      string
	Component string // "xlsx", "json"
	Err       error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error for %q (%s): %v", e.Path, e.Component, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError.
func NewExportError(path, component string, err error) *ExportError {
	return &ExportError{
		Path:      path,
		Component: component,
		Err:       err,
	}
}
