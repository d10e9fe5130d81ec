package actions

import (
	"context"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage"
)

// RecomputeBalances rebuilds stored balances from completed lines. Missing
// accounts follow the calculator's policy. An empty AccountIDs recomputes the
// whole chart.
type RecomputeBalances struct {
	AccountIDs []int64

	Results []ledger.Result
}

func (r *RecomputeBalances) ActionName() string { return "RecomputeBalances" }

func (r *RecomputeBalances) Perform(ctx context.Context, writer *storage.Writer) error {
	ids := r.AccountIDs
	if len(ids) == 0 {
		all, err := writer.Accounts.All(ctx)
		if err != nil {
			return err
		}
		for _, acc := range all {
			ids = append(ids, acc.ID)
		}
	}

	if _, err := lockAccounts(ctx, writer, ids); err != nil {
		return err
	}

	results, err := writer.Calculator().Recompute(ctx, ids)
	if err != nil {
		return err
	}
	r.Results = results
	return nil
}
