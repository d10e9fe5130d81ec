package transaction

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
)

// Transaction represents a transaction record. Lines are only loaded by FindByID.
type Transaction struct {
	ID              int64
	Description     string
	Reference       string
	Status          ledger.TransactionStatus
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Lines           []*Line
}

// AccountIDs returns the distinct accounts touched by the transaction's lines in lock order.
func (t *Transaction) AccountIDs() []int64 {
	ids := make([]int64, len(t.Lines))
	for i, l := range t.Lines {
		ids[i] = l.AccountID
	}
	return ledger.SortedUnique(ids)
}

// Line is a stored transaction line. Lines are immutable once inserted.
type Line struct {
	ID            int64
	TransactionID int64
	AccountID     int64
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Memo          string
}

// TransactionCreate is the input for creating a transaction with its lines.
type TransactionCreate struct {
	Description     string
	Reference       string
	Status          ledger.TransactionStatus
	TransactionDate time.Time // defaults to now if zero
	Entries         []ledger.Entry
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	Status          omit.Val[ledger.TransactionStatus]
	AccountID       omit.Val[int64]
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionListResult contains a page of transactions and an optional next cursor.
type TransactionListResult struct {
	Transactions []*Transaction
	NextCursor   *TransactionCursor
}

// ITransactionReader defines read access to transactions and their lines.
type ITransactionReader interface {
	FindByID(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, filter *TransactionFilter) (*TransactionListResult, error)
	CompletedTotals(ctx context.Context, accountID int64) (ledger.Totals, error)
}

// ITransactionWriter defines transaction operations available inside a write
// transaction. It satisfies ledger.LineStore.
type ITransactionWriter interface {
	ITransactionReader
	Insert(ctx context.Context, create *TransactionCreate) (int64, error)
	// FindByIDForUpdate loads the transaction with its lines and locks its row.
	FindByIDForUpdate(ctx context.Context, id int64) (*Transaction, error)
	UpdateStatus(ctx context.Context, id int64, status ledger.TransactionStatus) error
}

const defaultListLimit = 20

// Bounds returns the effective limit and offset of filter.
func Bounds(filter *TransactionFilter) (limit, offset int) {
	limit = defaultListLimit
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
	}
	return limit, offset
}

// Page splits rows fetched with limit+1 into a page and the next cursor. The
// cursor pins maxCreationTime to the first page so later inserts do not shift offsets.
func Page(rows []*Transaction, limit, offset int, maxCreationTime *time.Time) *TransactionListResult {
	if len(rows) == 0 {
		return &TransactionListResult{}
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		cursorMaxCreationTime := rows[0].CreatedAt
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}

		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}
	return &TransactionListResult{Transactions: rows, NextCursor: nextCursor}
}
