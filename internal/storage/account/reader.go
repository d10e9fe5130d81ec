package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
)

const tableName = "accounts"

var columns = []any{"id", "code", "name", "account_type", "balance", "created_at"}

type accountRow struct {
	ID          int64           `db:"id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	AccountType string          `db:"account_type"`
	Balance     decimal.Decimal `db:"balance"`
	CreatedAt   time.Time       `db:"created_at"`
}

func rowToAccount(row accountRow) *Account {
	return &Account{
		ID:          row.ID,
		Code:        row.Code,
		Name:        row.Name,
		AccountType: ledger.AccountType(row.AccountType),
		Balance:     row.Balance,
		CreatedAt:   row.CreatedAt,
	}
}

var _ IAccountReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) List(ctx context.Context, filter *AccountFilter) (*AccountListResult, error) {
	limit, offset := Bounds(filter)

	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.OrderBy("code").Asc(),
		sm.OrderBy("id").Asc(),
		sm.Limit(limit+1),
		sm.Offset(offset),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*Account, len(rows))
	for i, row := range rows {
		result[i] = rowToAccount(row)
	}
	return Page(result, limit, offset), nil
}

func (r *Reader) All(ctx context.Context) ([]*Account, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.OrderBy("code").Asc(),
		sm.OrderBy("id").Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[accountRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*Account, len(rows))
	for i, row := range rows {
		result[i] = rowToAccount(row)
	}
	return result, nil
}

func (r *Reader) FindByID(ctx context.Context, id int64) (*Account, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[accountRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToAccount(row), nil
}

// AccountType looks up only the type column of an account.
func (r *Reader) AccountType(ctx context.Context, id int64) (ledger.AccountType, error) {
	q := psql.Select(
		sm.Columns("account_type"),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	accountType, err := bob.One(ctx, r.exec, q, scan.SingleColumnMapper[string])
	if errors.Is(err, sql.ErrNoRows) {
		return "", ledger.ErrAccountNotFound
	}
	if err != nil {
		return "", err
	}
	return ledger.AccountType(accountType), nil
}
