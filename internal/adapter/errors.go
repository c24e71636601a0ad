package adapter

import "errors"

var (
	// ErrInvalidSpec indicates a definition missing a required field.
	ErrInvalidSpec = errors.New("invalid adapter spec")

	// ErrNoPublisher indicates an adapter constructed without a
	// destination for its records.
	ErrNoPublisher = errors.New("no publisher configured")

	// ErrDuplicateAdapter indicates a registration under a name that
	// is already taken.
	ErrDuplicateAdapter = errors.New("adapter already registered")

	// ErrUnknownAdapter indicates a lookup for a name that was never
	// registered.
	ErrUnknownAdapter = errors.New("unknown adapter")
)
