package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quantmind-br/snipdocs-go/internal/version"
)

// Sentinel errors
var (
	// ErrNoKey indicates a start marker was found but no key followed it
	ErrNoKey = errors.New("no key could be derived")

	// ErrKeySymbols indicates a key starting or ending with a non-alphanumeric symbol
	ErrKeySymbols = errors.New("key should not start or end with symbols")

	// ErrInvalidVersion indicates a version token that is neither an exact
	// version nor an interval
	ErrInvalidVersion = version.ErrInvalid

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrCancelled indicates a traversal stopped because its context was cancelled
	ErrCancelled = errors.New("extraction cancelled")
)

// MarkerError is a hard failure raised by a malformed start marker. It aborts
// the file being scanned.
type MarkerError struct {
	File string
	Line int
	Err  error
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("malformed marker in %s line %d: %v", e.File, e.Line, e.Err)
}

func (e *MarkerError) Unwrap() error {
	return e.Err
}

// NewMarkerError creates a new MarkerError
func NewMarkerError(file string, line int, err error) *MarkerError {
	return &MarkerError{
		File: file,
		Line: line,
		Err:  err,
	}
}

// ReadError wraps an I/O failure that aborted a traversal
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewReadError creates a new ReadError
func NewReadError(path string, err error) *ReadError {
	return &ReadError{
		Path: path,
		Err:  err,
	}
}

// GroupingError is the single aggregate failure carrying every grouping conflict
type GroupingError struct {
	Errors []string
}

func (e *GroupingError) Error() string {
	var b strings.Builder
	b.WriteString("errors occurred grouping snippets:")
	for _, msg := range e.Errors {
		b.WriteString("\n")
		b.WriteString(msg)
	}
	return b.String()
}

// CancelledError marks a traversal that stopped on context cancellation. It
// matches both ErrCancelled and the underlying context error.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("%v: %v", ErrCancelled, e.Err)
}

func (e *CancelledError) Unwrap() []error {
	return []error{ErrCancelled, e.Err}
}

// IsCancelled checks if an error reports a cancelled traversal
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ValidationError is a configuration value that cannot be used
type ValidationError struct {
	Field   string
	Message string
	// Err is the parse failure behind Message, if any
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
