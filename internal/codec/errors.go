package codec

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned (wrapped) for any document that fails validation.
var ErrInvalidFormat = errors.New("invalid file format")

var (
	errEmptyInput        = errors.New("file is empty")
	errUnterminatedQuote = errors.New("unterminated quoted field")
)

// ParseError reports a tabular decode failure with its 1-based line number.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // element path, e.g. "[2].text"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
