package transaction

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
)

const (
	transactionsTable = "transactions"
	linesTable        = "transaction_lines"
)

var (
	transactionColumns = []any{"id", "description", "reference", "status", "transaction_date", "created_at", "updated_at"}
	lineColumns        = []any{"id", "transaction_id", "account_id", "debit", "credit", "memo"}
)

type transactionRow struct {
	ID              int64     `db:"id"`
	Description     string    `db:"description"`
	Reference       string    `db:"reference"`
	Status          string    `db:"status"`
	TransactionDate time.Time `db:"transaction_date"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type lineRow struct {
	ID            int64           `db:"id"`
	TransactionID int64           `db:"transaction_id"`
	AccountID     int64           `db:"account_id"`
	Debit         decimal.Decimal `db:"debit"`
	Credit        decimal.Decimal `db:"credit"`
	Memo          string          `db:"memo"`
}

type totalsRow struct {
	TotalDebit  decimal.Decimal `db:"total_debit"`
	TotalCredit decimal.Decimal `db:"total_credit"`
}

func rowToTransaction(row transactionRow) *Transaction {
	return &Transaction{
		ID:              row.ID,
		Description:     row.Description,
		Reference:       row.Reference,
		Status:          ledger.TransactionStatus(row.Status),
		TransactionDate: row.TransactionDate,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func rowToLine(row lineRow) *Line {
	return &Line{
		ID:            row.ID,
		TransactionID: row.TransactionID,
		AccountID:     row.AccountID,
		Debit:         row.Debit,
		Credit:        row.Credit,
		Memo:          row.Memo,
	}
}

var _ ITransactionReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id int64) (*Transaction, error) {
	return r.find(ctx, id)
}

func (r *Reader) find(ctx context.Context, id int64, extra ...bob.Mod[*dialect.SelectQuery]) (*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(transactionsTable),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	queryMods = append(queryMods, extra...)

	row, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	tx := rowToTransaction(row)
	tx.Lines, err = r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *Reader) lines(ctx context.Context, transactionID int64) ([]*Line, error) {
	q := psql.Select(
		sm.Columns(lineColumns...),
		sm.From(linesTable),
		sm.Where(psql.Quote("transaction_id").EQ(psql.Arg(transactionID))),
		sm.OrderBy("id").Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[lineRow]())
	if err != nil {
		return nil, err
	}
	lines := make([]*Line, len(rows))
	for i, row := range rows {
		lines[i] = rowToLine(row)
	}
	return lines, nil
}

// List returns transactions matching the filter, newest first.
func (r *Reader) List(ctx context.Context, filter *TransactionFilter) (*TransactionListResult, error) {
	limit, offset := Bounds(filter)

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(transactionsTable).As("t"),
	}

	var maxCreationTime *time.Time
	if filter != nil {
		if status, ok := filter.Status.Get(); ok {
			queryMods = append(queryMods, sm.Where(psql.Quote("t", "status").EQ(psql.Arg(string(status)))))
		}
		if accountID, ok := filter.AccountID.Get(); ok {
			queryMods = append(queryMods, sm.Where(psql.Raw(
				"EXISTS (SELECT 1 FROM transaction_lines l WHERE l.transaction_id = t.id AND l.account_id = ?)",
				accountID,
			)))
		}
		if filter.MaxCreationTime != nil {
			maxCreationTime = filter.MaxCreationTime
			queryMods = append(queryMods, sm.Where(psql.Quote("t", "created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
		}
	}

	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("t", "created_at")).Desc(),
		sm.OrderBy(psql.Quote("t", "id")).Desc(),
		sm.Limit(limit+1),
		sm.Offset(offset),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[transactionRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*Transaction, len(rows))
	for i, row := range rows {
		result[i] = rowToTransaction(row)
	}
	return Page(result, limit, offset, maxCreationTime), nil
}

// CompletedTotals sums the debit and credit columns of accountID's lines whose
// transaction is completed. COALESCE keeps an empty ledger at zero instead of NULL.
func (r *Reader) CompletedTotals(ctx context.Context, accountID int64) (ledger.Totals, error) {
	q := psql.Select(
		sm.Columns(
			"COALESCE(SUM(l.debit), 0) AS total_debit",
			"COALESCE(SUM(l.credit), 0) AS total_credit",
		),
		sm.From(linesTable).As("l"),
		sm.InnerJoin(transactionsTable).As("t").On(
			psql.Quote("t", "id").EQ(psql.Quote("l", "transaction_id")),
		),
		sm.Where(psql.Quote("l", "account_id").EQ(psql.Arg(accountID))),
		sm.Where(psql.Quote("t", "status").EQ(psql.Arg(string(ledger.StatusCompleted)))),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[totalsRow]())
	if err != nil {
		return ledger.Totals{}, err
	}
	return ledger.Totals{Debit: row.TotalDebit, Credit: row.TotalCredit}, nil
}
