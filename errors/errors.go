package errors

import (
	"errors"
	"fmt"
)

// Common error types for categorization and handling

var (
	// ErrInvalidInput indicates invalid user input
	ErrInvalidInput = errors.New("invalid input")

	// ErrDocumentStore indicates a document store operation failed
	ErrDocumentStore = errors.New("document store operation failed")

	// ErrRetrievalSource indicates a retrieval source could not be read
	ErrRetrievalSource = errors.New("retrieval source unavailable")

	// ErrBackendUnavailable indicates a generation backend is unreachable or unhealthy
	ErrBackendUnavailable = errors.New("generation backend unavailable")

	// ErrEmptyCompletion indicates a backend returned success with no content
	ErrEmptyCompletion = errors.New("backend returned empty completion")
)

// WrapError wraps an error with context message and stack
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsBackendUnavailable checks if error is a backend unavailable error
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

// IsEmptyCompletion checks if error is an empty completion error
func IsEmptyCompletion(err error) bool {
	return errors.Is(err, ErrEmptyCompletion)
}
