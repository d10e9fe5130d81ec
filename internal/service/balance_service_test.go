package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/operator"
	"github.com/carson-networks/movicar-ledger/internal/storage"
	"github.com/carson-networks/movicar-ledger/internal/storage/memory"
)

// newLedger wires the services to an in-memory store through a real operator.
func newLedger(t *testing.T) *Service {
	t.Helper()
	store := storage.NewMemoryStorage(memory.New())
	op := operator.NewOperatorDelegator(store, 1, 10, nil)
	op.Start()
	t.Cleanup(op.Stop)
	return NewService(store.Reader, op)
}

func TestTrialBalance(t *testing.T) {
	svc := newLedger(t)
	ctx := context.Background()

	cash, err := svc.Account.CreateAccount(ctx, NewAccount{Code: "1000", Name: "Cash", AccountType: ledger.AccountTypeAsset})
	require.NoError(t, err)
	fuel, err := svc.Account.CreateAccount(ctx, NewAccount{Code: "6100", Name: "Fuel", AccountType: ledger.AccountTypeExpense})
	require.NoError(t, err)
	rental, err := svc.Account.CreateAccount(ctx, NewAccount{Code: "4000", Name: "Rental income", AccountType: ledger.AccountTypeIncome})
	require.NoError(t, err)

	_, err = svc.Transaction.PostTransaction(ctx, NewTransaction{
		Status:  ledger.StatusCompleted,
		Entries: []ledger.Entry{ledger.Debit(cash, decimal.NewFromInt(900)), ledger.Credit(rental, decimal.NewFromInt(900))},
	})
	require.NoError(t, err)
	_, err = svc.Transaction.PostTransaction(ctx, NewTransaction{
		Status:  ledger.StatusCompleted,
		Entries: []ledger.Entry{ledger.Debit(fuel, decimal.NewFromInt(60)), ledger.Credit(cash, decimal.NewFromInt(60))},
	})
	require.NoError(t, err)

	report, err := svc.Balance.TrialBalance(ctx)
	require.NoError(t, err)

	assert.Len(t, report.Accounts, 3)
	assert.Equal(t, "1000", report.Accounts[0].Code)
	assert.True(t, report.DebitNormalTotal.Equal(decimal.NewFromInt(900)), "got %s", report.DebitNormalTotal)
	assert.True(t, report.CreditNormalTotal.Equal(decimal.NewFromInt(900)))
	assert.True(t, report.Balanced())
}

func TestRecompute_WholeChart(t *testing.T) {
	svc := newLedger(t)
	ctx := context.Background()

	_, err := svc.Account.CreateAccount(ctx, NewAccount{Code: "1000", AccountType: ledger.AccountTypeAsset})
	require.NoError(t, err)
	_, err = svc.Account.CreateAccount(ctx, NewAccount{Code: "2000", AccountType: ledger.AccountTypeLiability})
	require.NoError(t, err)

	results, err := svc.Balance.Recompute(ctx, nil)

	require.NoError(t, err)
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Found)
		assert.True(t, r.Balance.IsZero())
	}
}

func TestTrialBalance_Empty(t *testing.T) {
	svc := newLedger(t)

	report, err := svc.Balance.TrialBalance(context.Background())

	require.NoError(t, err)
	assert.Empty(t, report.Accounts)
	assert.True(t, report.Balanced())
}
