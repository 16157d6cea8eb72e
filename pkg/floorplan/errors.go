package floorplan

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a well-formed SVG document.
var ErrInvalidFormat = errors.New("invalid svg format")

// ErrInvalidPattern indicates the configured label pattern does not compile.
var ErrInvalidPattern = errors.New("invalid label pattern")

// ExtractionError represents an error during extraction.
type ExtractionError struct {
	Document  string
	Component string // "svg", "pattern", "cache"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in %q (%s): %v", e.Document, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(document, component string, err error) *ExtractionError {
	return &ExtractionError{
		Document:  document,
		Component: component,
		Err:       err,
	}
}
