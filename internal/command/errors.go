package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCandidates indicates a specification listed no executable candidates.
var ErrNoCandidates = errors.New("no executable candidates configured")

// NotFoundError indicates none of the candidates resolved on PATH.
type NotFoundError struct {
	Candidates []string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("executable not found, tried: %s", strings.Join(e.Candidates, ", "))
}
