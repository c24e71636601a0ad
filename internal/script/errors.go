package script

import "errors"

var (
	// ErrStateClosed indicates use of a spec whose interpreter has
	// been closed.
	ErrStateClosed = errors.New("script state closed")

	// ErrNoTable indicates a script that did not return a spec table.
	ErrNoTable = errors.New("script did not return a table")

	// ErrInvalidScript indicates a spec table missing a required
	// field.
	ErrInvalidScript = errors.New("invalid script")
)
