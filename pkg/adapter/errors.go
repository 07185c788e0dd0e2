package adapter

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when an operation runs before Connect succeeded.
var ErrNotConnected = errors.New("database connection not established")

// ErrIntegrityViolation marks a write rejected by a store constraint.
// Match it with errors.Is; the concrete error is an *IntegrityError.
var ErrIntegrityViolation = errors.New("integrity violation")

// IntegrityError reports a constraint violation on a specific table.
type IntegrityError struct {
	Table string
	Err   error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation on %s: %v", e.Table, e.Err)
}

// Unwrap returns the driver error.
func (e *IntegrityError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrIntegrityViolation) match.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrityViolation
}

// ConnectionError reports that the store could not be reached.
type ConnectionError struct {
	Type string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to %s store: %v", e.Type, e.Err)
}

// Unwrap returns the driver error.
func (e *ConnectionError) Unwrap() error { return e.Err }

// UnknownAdapterError is returned when an unknown adapter type is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %v\nHint: Check target.type in booksales.yaml", e.Type, e.Available)
}
