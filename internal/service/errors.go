package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrNotFound marks an empty result where at least one item is required
	ErrNotFound = errors.New("resource not found")

	// ErrUnprocessable marks any failure while writing, searching or picking
	// a quiz question
	ErrUnprocessable = errors.New("unprocessable")
)

func unprocessable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnprocessable, op, err)
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
