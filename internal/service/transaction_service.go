package service

import (
	"context"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/operator"
	"github.com/carson-networks/movicar-ledger/internal/operator/actions"
	"github.com/carson-networks/movicar-ledger/internal/storage/transaction"
)

const defaultLimit = 20

// TransactionService handles transaction business logic.
type TransactionService struct {
	transactions transaction.ITransactionReader
	operator     operator.IOperator
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactions transaction.ITransactionReader, op operator.IOperator) *TransactionService {
	return &TransactionService{transactions: transactions, operator: op}
}

// PostTransaction validates and inserts a transaction with its lines.
func (s *TransactionService) PostTransaction(ctx context.Context, tx NewTransaction) (*PostedTransaction, error) {
	action := &actions.PostTransaction{
		Description:     tx.Description,
		Reference:       tx.Reference,
		Status:          tx.Status,
		TransactionDate: tx.TransactionDate,
		Entries:         tx.Entries,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return &PostedTransaction{ID: action.ID, Balances: action.Balances}, nil
}

// ApproveTransaction completes a pending transaction and returns the recomputed balances.
func (s *TransactionService) ApproveTransaction(ctx context.Context, id int64) ([]ledger.Result, error) {
	action := &actions.ApproveTransaction{ID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Balances, nil
}

// CancelTransaction cancels a pending or completed transaction and returns the recomputed balances.
func (s *TransactionService) CancelTransaction(ctx context.Context, id int64) ([]ledger.Result, error) {
	action := &actions.CancelTransaction{ID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Balances, nil
}

// GetTransaction retrieves a transaction with its lines.
func (s *TransactionService) GetTransaction(ctx context.Context, id int64) (*Transaction, error) {
	row, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tx := transactionFromStorage(row)
	return &tx, nil
}

// ListTransactions returns a page of transactions, newest first, using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, query TransactionQuery) ([]Transaction, *TransactionCursor, error) {
	filter := &transaction.TransactionFilter{
		Status:    query.Status,
		AccountID: query.AccountID,
		Limit:     defaultLimit,
	}
	if query.Cursor != nil {
		filter.Limit = query.Cursor.Limit
		filter.Offset = query.Cursor.Position
		maxCreationTime := query.Cursor.MaxCreationTime
		filter.MaxCreationTime = &maxCreationTime
	}

	result, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	if len(result.Transactions) == 0 {
		return nil, nil, nil
	}

	transactions := make([]Transaction, len(result.Transactions))
	for i, row := range result.Transactions {
		transactions[i] = transactionFromStorage(row)
	}

	var nextCursor *TransactionCursor
	if result.NextCursor != nil {
		nextCursor = &TransactionCursor{
			Position:        result.NextCursor.Position,
			Limit:           result.NextCursor.Limit,
			MaxCreationTime: result.NextCursor.MaxCreationTime,
		}
	}
	return transactions, nextCursor, nil
}
