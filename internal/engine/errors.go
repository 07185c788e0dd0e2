package engine

import (
	"errors"

	"github.com/leapstack-labs/booksales/pkg/adapter"
)

// ErrIntegrityViolation matches any store constraint rejection.
var ErrIntegrityViolation = adapter.ErrIntegrityViolation

// IntegrityError is a constraint rejection on a named table.
type IntegrityError = adapter.IntegrityError

// ClassifyError wraps err in an *IntegrityError when the adapter recognises it
// as a constraint violation. Other errors, and errors already classified, are
// returned unchanged.
func (e *Engine) ClassifyError(table string, err error) error {
	if err == nil || errors.Is(err, ErrIntegrityViolation) {
		return err
	}
	if e.db.IsConstraintViolation(err) {
		return &IntegrityError{Table: table, Err: err}
	}
	return err
}
