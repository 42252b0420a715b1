package rule

import (
	"errors"
	"fmt"
)

// ErrSchema is matched by every SchemaError through errors.Is.
var ErrSchema = errors.New("invalid schema")

// SchemaError reports a malformed schema document.
type SchemaError struct {
	Block  int // 0-based index into blocks, -1 when not block-specific
	Entry  int // 0-based index into the block's content, -1 when not entry-specific
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	loc := ""
	switch {
	case e.Block >= 0 && e.Entry >= 0:
		loc = fmt.Sprintf(" (block %d, entry %d)", e.Block, e.Entry)
	case e.Block >= 0:
		loc = fmt.Sprintf(" (block %d)", e.Block)
	}
	if e.Err != nil {
		return fmt.Sprintf("schema error%s: %s: %v", loc, e.Reason, e.Err)
	}
	return fmt.Sprintf("schema error%s: %s", loc, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is makes every SchemaError match ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(block, entry int, reason string, err error) *SchemaError {
	return &SchemaError{
		Block:  block,
		Entry:  entry,
		Reason: reason,
		Err:    err,
	}
}
