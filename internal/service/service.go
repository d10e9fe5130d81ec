package service

import (
	"github.com/carson-networks/movicar-ledger/internal/operator"
	"github.com/carson-networks/movicar-ledger/internal/storage"
)

// Service holds all business logic services. Reads go straight to storage;
// every write is an operator action.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
	Balance     *BalanceService
}

// NewService creates a new Service with the given storage reader and operator.
func NewService(reader *storage.Reader, op operator.IOperator) *Service {
	return &Service{
		Transaction: NewTransactionService(reader.Transactions, op),
		Account:     NewAccountService(reader.Accounts, op),
		Balance:     NewBalanceService(reader.Accounts, op),
	}
}
