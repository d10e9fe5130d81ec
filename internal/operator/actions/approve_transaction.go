package actions

import (
	"context"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage"
)

// ApproveTransaction completes a pending transaction so its lines start counting.
type ApproveTransaction struct {
	ID int64

	Balances []ledger.Result
}

func (a *ApproveTransaction) ActionName() string { return "ApproveTransaction" }

func (a *ApproveTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	balances, err := transition(ctx, writer, a.ID, ledger.StatusCompleted)
	if err != nil {
		return err
	}
	a.Balances = balances
	return nil
}
