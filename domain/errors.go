package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a document or folder does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when a create or update payload is malformed.
	ErrValidation = errors.New("invalid document data")

	// ErrConflict is returned when a filename or folder path is already taken.
	ErrConflict = errors.New("already exists")

	// ErrUnknownFolder is returned when a document names a folder that is not registered.
	ErrUnknownFolder = fmt.Errorf("%w: unknown folder", ErrValidation)

	// ErrTransport is returned by the document API when the network or
	// bridge call itself failed.
	ErrTransport = errors.New("transport failure")

	// ErrNotSupported is returned for desktop-only operations on the networked API.
	ErrNotSupported = errors.New("operation not supported")
)

// FieldError describes one rejected field of a payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field. It matches ErrValidation
// with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
