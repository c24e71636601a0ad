package parse

import (
	"errors"
	"fmt"
)

// ErrMalformed indicates tool output that is not valid JSON.
var ErrMalformed = errors.New("malformed tool output")

// MalformedError carries a snippet of the unparseable output.
type MalformedError struct {
	Snippet string
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed tool output: %q", e.Snippet)
}

// Unwrap returns ErrMalformed so callers can match with errors.Is.
func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}
