package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/operator/actions"
	"github.com/carson-networks/movicar-ledger/internal/storage/account"
	"github.com/carson-networks/movicar-ledger/internal/storage/transaction"
)

type mockOperator struct {
	mock.Mock
}

func (m *mockOperator) Process(ctx context.Context, action actions.IAction) error {
	return m.Called(ctx, action).Error(0)
}

type mockAccountReader struct {
	mock.Mock
}

func (m *mockAccountReader) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*account.Account)
	return acc, args.Error(1)
}

func (m *mockAccountReader) List(ctx context.Context, filter *account.AccountFilter) (*account.AccountListResult, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*account.AccountListResult)
	return res, args.Error(1)
}

func (m *mockAccountReader) All(ctx context.Context) ([]*account.Account, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]*account.Account)
	return rows, args.Error(1)
}

func (m *mockAccountReader) AccountType(ctx context.Context, id int64) (ledger.AccountType, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ledger.AccountType), args.Error(1)
}

type mockTransactionReader struct {
	mock.Mock
}

func (m *mockTransactionReader) FindByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*transaction.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionReader) List(ctx context.Context, filter *transaction.TransactionFilter) (*transaction.TransactionListResult, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*transaction.TransactionListResult)
	return res, args.Error(1)
}

func (m *mockTransactionReader) CompletedTotals(ctx context.Context, accountID int64) (ledger.Totals, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(ledger.Totals), args.Error(1)
}
