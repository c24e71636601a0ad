package config

import "fmt"

// InvalidSeverityError rejects a minimum severity outside the defined range.
type InvalidSeverityError struct {
	Value any
}

// Error implements the error interface.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid minimum severity %v: expected error, warning, information, or hint", e.Value)
}

// InvalidValueError rejects a configuration override of the wrong type or range.
type InvalidValueError struct {
	Key    string
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s (%v): %s", e.Key, e.Value, e.Reason)
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
