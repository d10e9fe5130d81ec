// Package pgerr classifies PostgreSQL driver errors that callers react to.
package pgerr

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	UniqueViolation      pq.ErrorCode = "23505"
	SerializationFailure pq.ErrorCode = "40001"
	DeadlockDetected     pq.ErrorCode = "40P01"
)

// ErrConflict marks a write that lost to a concurrent transaction and may be retried.
var ErrConflict = errors.New("concurrent write conflict")

// Code returns the SQLSTATE of err, or "" when err did not come from the server.
func Code(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// Wrap annotates err with op. Serialization failures and deadlocks also match ErrConflict.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	switch code := Code(err); code {
	case SerializationFailure, DeadlockDetected:
		return fmt.Errorf("%s: %w (%s): %w", op, ErrConflict, code.Name(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
