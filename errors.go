package planpdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for document construction and serialisation failures.
// Layout capacity problems are never reported as errors; they are logged.
var (
	ErrInvalidParagraph = errors.New("planpdf: invalid paragraph")
	ErrFont             = errors.New("planpdf: font could not be loaded")
	ErrLogo             = errors.New("planpdf: logo could not be loaded")
	ErrSurface          = errors.New("planpdf: drawing surface failed")
)

// Error represents an error that occurred during a specific document operation.
// It wraps an underlying error and includes the operation name for context.
type Error struct {
	Op  string // operation name, e.g. "New", "ToBytes"
	Err error  // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("planpdf.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("planpdf.%s: unknown error", e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates a new Error wrapping the given error with operation context.
func newError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}
