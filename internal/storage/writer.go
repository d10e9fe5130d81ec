package storage

import (
	"context"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage/account"
	"github.com/carson-networks/movicar-ledger/internal/storage/transaction"
)

// Committer ends a write transaction.
type Committer interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer groups the table writers bound to a single database transaction.
type Writer struct {
	tx           Committer
	calcOpts     []ledger.Option
	Accounts     account.IAccountWriter
	Transactions transaction.ITransactionWriter
}

func NewWriter(tx Committer, accounts account.IAccountWriter, transactions transaction.ITransactionWriter) *Writer {
	return &Writer{
		tx:           tx,
		Accounts:     accounts,
		Transactions: transactions,
	}
}

// Calculator returns a balance calculator reading and writing through this transaction.
func (w *Writer) Calculator() *ledger.Calculator {
	return ledger.NewCalculator(w.Accounts, w.Transactions, w.calcOpts...)
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
