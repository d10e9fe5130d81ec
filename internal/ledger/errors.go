package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransition   = errors.New("invalid transaction status transition")
)

// PersistenceError reports a datastore failure while reading or writing ledger
// state. The calculator never retries; the caller owns the transaction scope.
type PersistenceError struct {
	Op        string
	AccountID int64
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger: %s for account %d: %v", e.Op, e.AccountID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError describes why a set of entries cannot be posted.
type ValidationError struct {
	Line   int // 1-based, 0 when the problem concerns the whole transaction
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Line == 0 {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("invalid transaction line %d: %s", e.Line, e.Reason)
}

// TransitionError wraps ErrInvalidTransition with the offending states.
func TransitionError(from, to TransactionStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
