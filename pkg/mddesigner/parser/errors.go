package parser

import (
	"errors"
	"fmt"
)

// ErrInput is matched by every InputError through errors.Is.
var ErrInput = errors.New("invalid input document")

// InputError reports a document that cannot be converted.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: %s", e.Reason)
}

// Is makes every InputError match ErrInput.
func (e *InputError) Is(target error) bool {
	return target == ErrInput
}

// NewInputError creates a new InputError.
func NewInputError(reason string) *InputError {
	return &InputError{Reason: reason}
}
