package actions_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/operator/actions"
	"github.com/carson-networks/movicar-ledger/internal/storage"
	"github.com/carson-networks/movicar-ledger/internal/storage/account"
	"github.com/carson-networks/movicar-ledger/internal/storage/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// run performs action in its own unit of work the way the operator does.
func run(t *testing.T, s *storage.Storage, action actions.IAction) error {
	t.Helper()
	writer, err := s.Write(context.Background())
	require.NoError(t, err)
	if err := action.Perform(context.Background(), writer); err != nil {
		require.NoError(t, writer.Rollback())
		return err
	}
	return writer.Commit()
}

func newAccount(t *testing.T, s *storage.Storage, code string, accountType ledger.AccountType) int64 {
	t.Helper()
	create := &actions.CreateAccount{Code: code, Name: code, AccountType: accountType}
	require.NoError(t, run(t, s, create))
	return create.ID
}

func balance(t *testing.T, s *storage.Storage, id int64) decimal.Decimal {
	t.Helper()
	acc, err := s.Reader.Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func TestCreateAccount(t *testing.T) {
	s := storage.NewMemoryStorage(memory.New())

	id := newAccount(t, s, "1000", ledger.AccountTypeAsset)
	acc, err := s.Reader.Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "1000", acc.Code)
	assert.True(t, acc.Balance.IsZero())

	err = run(t, s, &actions.CreateAccount{Code: "1000", AccountType: ledger.AccountTypeAsset})
	assert.ErrorIs(t, err, account.ErrDuplicateCode)

	var verr *ledger.ValidationError
	err = run(t, s, &actions.CreateAccount{Code: "2000", AccountType: "revenue"})
	assert.ErrorAs(t, err, &verr)
	err = run(t, s, &actions.CreateAccount{Code: " ", AccountType: ledger.AccountTypeAsset})
	assert.ErrorAs(t, err, &verr)
}

func TestPostTransaction_CompletedRecomputes(t *testing.T) {
	s := storage.NewMemoryStorage(memory.New())
	cash := newAccount(t, s, "1000", ledger.AccountTypeAsset)
	rental := newAccount(t, s, "4000", ledger.AccountTypeIncome)

	post := &actions.PostTransaction{
		Description: "rental RNT-1",
		Reference:   "RNT-1",
		Status:      ledger.StatusCompleted,
		Entries:     []ledger.Entry{ledger.Debit(cash, dec("250")), ledger.Credit(rental, dec("250"))},
	}
	require.NoError(t, run(t, s, post))

	assert.NotZero(t, post.ID)
	assert.Len(t, post.Balances, 2)
	assert.True(t, balance(t, s, cash).Equal(dec("250")))
	assert.True(t, balance(t, s, rental).Equal(dec("250")))
}

func TestPostTransaction_PendingDoesNotCount(t *testing.T) {
	s := storage.NewMemoryStorage(memory.New())
	cash := newAccount(t, s, "1000", ledger.AccountTypeAsset)
	rental := newAccount(t, s, "4000", ledger.AccountTypeIncome)

	post := &actions.PostTransaction{
		Entries: []ledger.Entry{ledger.Debit(cash, dec("90")), ledger.Credit(rental, dec("90"))},
	}
	require.NoError(t, run(t, s, post))

	txn, err := s.Reader.Transactions.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, txn.Status)
	assert.Len(t, txn.Lines, 2)
	assert.Empty(t, post.Balances)
	assert.True(t, balance(t, s, cash).IsZero())
}

func TestPostTransaction_Rejected(t *testing.T) {
	s := storage.NewMemoryStorage(memory.New())
	cash := newAccount(t, s, "1000", ledger.AccountTypeAsset)

	tests := []struct {
		name string
		post *actions.PostTransaction
		line int
	}{
		{
			name: "unknown account",
			post: &actions.PostTransaction{
				Entries: []ledger.Entry{ledger.Debit(cash, dec("5")), ledger.Credit(99, dec("5"))},
			},
			line: 2,
		},
		{
			name: "unbalanced",
			post: &actions.PostTransaction{
				Entries: []ledger.Entry{ledger.Debit(cash, dec("5")), ledger.Credit(cash, dec("4"))},
			},
		},
		{
			name: "posted as cancelled",
			post: &actions.PostTransaction{
				Status:  ledger.StatusCancelled,
				Entries: []ledger.Entry{ledger.Debit(cash, dec("5")), ledger.Credit(cash, dec("5"))},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t, s, tt.post)
			var verr *ledger.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.line, verr.Line)
		})
	}

	list, err := s.Reader.Transactions.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, list.Transactions)
}

// The rental asset account ends at 1000 and stays there once an unrelated
// 5000 debit is cancelled.
func TestWorkflow_RentalAssetScenario(t *testing.T) {
	s := storage.NewMemoryStorage(memory.New())
	asset := newAccount(t, s, "1400", ledger.AccountTypeAsset)
	income := newAccount(t, s, "4000", ledger.AccountTypeIncome)
	expense := newAccount(t, s, "6000", ledger.AccountTypeExpense)

	require.NoError(t, run(t, s, &actions.PostTransaction{
		Status:  ledger.StatusCompleted,
		Entries: []ledger.Entry{ledger.Debit(asset, dec("1200")), ledger.Credit(income, dec("1200"))},
	}))
	require.NoError(t, run(t, s, &actions.PostTransaction{
		Status:  ledger.StatusCompleted,
		Entries: []ledger.Entry{ledger.Debit(expense, dec("200")), ledger.Credit(asset, dec("200"))},
	}))
	assert.True(t, balance(t, s, asset).Equal(dec("1000")))

	pending := &actions.PostTransaction{
		Entries: []ledger.Entry{ledger.Debit(asset, dec("5000")), ledger.Credit(income, dec("5000"))},
	}
	require.NoError(t, run(t, s, pending))

	cancel := &actions.CancelTransaction{ID: pending.ID}
	require.NoError(t, run(t, s, cancel))
	assert.Len(t, cancel.Balances, 2)
	assert.True(t, balance(t, s, asset).Equal(dec("1000")))
	assert.True(t, balance(t, s, income).Equal(dec("1200")))
	assert.True(t, balance(t, s, expense).Equal(dec("200")))
}

func TestApproveTransaction(t *testing.T) {
	s := storage.NewMemoryStorage(memory.New())
	cash := newAccount(t, s, "1000", ledger.AccountTypeAsset)
	deposits := newAccount(t, s, "2100", ledger.AccountTypeLiability)

	post := &actions.PostTransaction{
		Entries: []ledger.Entry{ledger.Debit(cash, dec("300")), ledger.Credit(deposits, dec("300"))},
	}
	require.NoError(t, run(t, s, post))

	approve := &actions.ApproveTransaction{ID: post.ID}
	require.NoError(t, run(t, s, approve))
	assert.True(t, balance(t, s, cash).Equal(dec("300")))
	assert.True(t, balance(t, s, deposits).Equal(dec("300")))

	txn, err := s.Reader.Transactions.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCompleted, txn.Status)

	err = run(t, s, &actions.ApproveTransaction{ID: post.ID})
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)

	require.NoError(t, run(t, s, &actions.CancelTransaction{ID: post.ID}))
	assert.True(t, balance(t, s, cash).IsZero())

	err = run(t, s, &actions.ApproveTransaction{ID: post.ID})
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)
	err = run(t, s, &actions.CancelTransaction{ID: post.ID})
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)
}

func TestTransition_UnknownTransaction(t *testing.T) {
	s := storage.NewMemoryStorage(memory.New())

	assert.ErrorIs(t, run(t, s, &actions.ApproveTransaction{ID: 7}), ledger.ErrTransactionNotFound)
	assert.ErrorIs(t, run(t, s, &actions.CancelTransaction{ID: 7}), ledger.ErrTransactionNotFound)
}

func TestRecomputeBalances(t *testing.T) {
	s := storage.NewMemoryStorage(memory.New())
	cash := newAccount(t, s, "1000", ledger.AccountTypeAsset)
	rental := newAccount(t, s, "4000", ledger.AccountTypeIncome)
	require.NoError(t, run(t, s, &actions.PostTransaction{
		Status:  ledger.StatusCompleted,
		Entries: []ledger.Entry{ledger.Debit(cash, dec("40")), ledger.Credit(rental, dec("40"))},
	}))

	recompute := &actions.RecomputeBalances{AccountIDs: []int64{rental, 99, rental}}
	require.NoError(t, run(t, s, recompute))
	require.Len(t, recompute.Results, 2)
	assert.Equal(t, rental, recompute.Results[0].AccountID)
	assert.True(t, recompute.Results[0].Balance.Equal(dec("40")))
	assert.False(t, recompute.Results[1].Found)

	all := &actions.RecomputeBalances{}
	require.NoError(t, run(t, s, all))
	assert.Len(t, all.Results, 2)
}

func TestRecomputeBalances_Strict(t *testing.T) {
	s := storage.NewMemoryStorage(memory.New()).WithCalculatorOptions(ledger.WithStrictAccounts(true))

	err := run(t, s, &actions.RecomputeBalances{AccountIDs: []int64{99}})
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestPostTransaction_RejectsAmountsFinerThanStorageScale(t *testing.T) {
	s := storage.NewMemoryStorage(memory.New())
	cash := newAccount(t, s, "1000", ledger.AccountTypeAsset)
	fuel := newAccount(t, s, "6100", ledger.AccountTypeExpense)
	rental := newAccount(t, s, "4000", ledger.AccountTypeIncome)

	err := run(t, s, &actions.PostTransaction{
		Status: ledger.StatusCompleted,
		Entries: []ledger.Entry{
			ledger.Debit(cash, dec("0.005")),
			ledger.Debit(fuel, dec("0.005")),
			ledger.Credit(rental, dec("0.01")),
		},
	})

	var verr *ledger.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Line)
	assert.True(t, balance(t, s, cash).IsZero())
	assert.True(t, balance(t, s, rental).IsZero())
}
