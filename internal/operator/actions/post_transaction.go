package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage"
	"github.com/carson-networks/movicar-ledger/internal/storage/transaction"
)

// PostTransaction inserts a balanced transaction with its lines. A completed
// transaction recomputes the balances of its accounts in the same unit of work.
type PostTransaction struct {
	Description     string
	Reference       string
	Status          ledger.TransactionStatus
	TransactionDate time.Time
	Entries         []ledger.Entry

	// Set once the transaction is inserted.
	ID       int64
	Balances []ledger.Result
}

func (p *PostTransaction) ActionName() string { return "PostTransaction" }

func (p *PostTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	status := p.Status
	if status == "" {
		status = ledger.StatusPending
	}
	if status != ledger.StatusPending && status != ledger.StatusCompleted {
		return &ledger.ValidationError{Reason: fmt.Sprintf("cannot post a %s transaction", status)}
	}
	if err := ledger.ValidateEntries(p.Entries); err != nil {
		return err
	}

	accountIDs := ledger.AccountIDs(p.Entries)
	missing, err := lockAccounts(ctx, writer, accountIDs)
	if err != nil {
		return err
	}
	for i, e := range p.Entries {
		if _, ok := missing[e.AccountID]; ok {
			return &ledger.ValidationError{Line: i + 1, Reason: fmt.Sprintf("account %d does not exist", e.AccountID)}
		}
	}

	id, err := writer.Transactions.Insert(ctx, &transaction.TransactionCreate{
		Description:     p.Description,
		Reference:       p.Reference,
		Status:          status,
		TransactionDate: p.TransactionDate,
		Entries:         p.Entries,
	})
	if err != nil {
		return err
	}
	p.ID = id

	if status != ledger.StatusCompleted {
		return nil
	}
	p.Balances, err = writer.Calculator().Recompute(ctx, accountIDs)
	return err
}
