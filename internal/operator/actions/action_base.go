package actions

import (
	"context"
	"fmt"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage"
)

// IAction is a unit of write work. Perform runs inside a single write
// transaction; returning an error rolls back everything it did.
type IAction interface {
	ActionName() string
	Perform(ctx context.Context, writer *storage.Writer) error
}

// lockAccounts locks ids in ascending order and returns the ones that do not exist.
func lockAccounts(ctx context.Context, writer *storage.Writer, ids []int64) (map[int64]struct{}, error) {
	ids = ledger.SortedUnique(ids)
	found, err := writer.Accounts.LockForUpdate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lock accounts: %w", err)
	}

	missing := make(map[int64]struct{})
	for _, id := range ids {
		missing[id] = struct{}{}
	}
	for _, id := range found {
		delete(missing, id)
	}
	return missing, nil
}

// transition moves a transaction to status `to` and recomputes the balances of
// every account it touches.
func transition(ctx context.Context, writer *storage.Writer, id int64, to ledger.TransactionStatus) ([]ledger.Result, error) {
	txn, err := writer.Transactions.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !txn.Status.CanTransitionTo(to) {
		return nil, ledger.TransitionError(txn.Status, to)
	}

	accountIDs := txn.AccountIDs()
	if _, err := lockAccounts(ctx, writer, accountIDs); err != nil {
		return nil, err
	}

	if err := writer.Transactions.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}

	return writer.Calculator().Recompute(ctx, accountIDs)
}
