// Package errors provides custom error types for the stocktake system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the stocktake system
var (
	// ErrMissingColumn indicates that a required column is absent from a snapshot
	ErrMissingColumn = errors.New("missing required column")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file format the loader cannot read
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// SchemaError is the single fatal condition of the cleaning pipeline: one or
// more of the required columns (sku, quantity, location) is absent from a
// snapshot after column-name harmonization. It carries the missing column
// names and the full discovered column set for diagnosis.
type SchemaError struct {
	Snapshot string
	Missing  []string
	Found    []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: Missing required columns: [%s]. Found=[%s]",
		e.Snapshot, strings.Join(e.Missing, " "), strings.Join(e.Found, " "))
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrMissingColumn
}

// NewSchemaError creates a new SchemaError
func NewSchemaError(snapshot string, missing, found []string) *SchemaError {
	return &SchemaError{Snapshot: snapshot, Missing: missing, Found: found}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "xlsx", "json", "yaml"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsSchemaError checks if an error indicates a missing required column
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrMissingColumn)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
