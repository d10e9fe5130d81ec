package actions

import (
	"context"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage"
)

// CancelTransaction cancels a pending or completed transaction. Its lines stay
// in place but no longer count towards any balance.
type CancelTransaction struct {
	ID int64

	Balances []ledger.Result
}

func (c *CancelTransaction) ActionName() string { return "CancelTransaction" }

func (c *CancelTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	balances, err := transition(ctx, writer, c.ID, ledger.StatusCancelled)
	if err != nil {
		return err
	}
	c.Balances = balances
	return nil
}
