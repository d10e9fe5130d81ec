package account

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage/pgerr"
)

var _ IAccountWriter = (*Writer)(nil)

type Writer struct {
	Reader
}

// NewWriter binds account writes to tx.
func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		Reader: Reader{
			exec: tx,
		},
	}
}

func (w *Writer) Insert(ctx context.Context, create *AccountCreate) (int64, error) {
	q := psql.Insert(
		im.Into(tableName, "code", "name", "account_type", "balance"),
		im.Values(
			psql.Arg(create.Code),
			psql.Arg(create.Name),
			psql.Arg(string(create.AccountType)),
			psql.Arg(decimal.Zero),
		),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, w.exec, q, scan.SingleColumnMapper[int64])
	if err != nil {
		if pgerr.Code(err) == pgerr.UniqueViolation {
			return 0, ErrDuplicateCode
		}
		return 0, pgerr.Wrap("insert account", err)
	}
	return id, nil
}

func (w *Writer) LockForUpdate(ctx context.Context, ids []int64) ([]int64, error) {
	ids = ledger.SortedUnique(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]bob.Expression, len(ids))
	for i, id := range ids {
		args[i] = psql.Arg(id)
	}
	q := psql.Select(
		sm.Columns("id"),
		sm.From(tableName),
		sm.Where(psql.Quote("id").In(args...)),
		sm.OrderBy("id").Asc(),
		sm.ForUpdate(),
	)
	found, err := bob.All(ctx, w.exec, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return nil, pgerr.Wrap("lock accounts", err)
	}
	return found, nil
}

func (w *Writer) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("balance").ToArg(balance),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	if _, err := bob.Exec(ctx, w.exec, q); err != nil {
		return pgerr.Wrap("update balance", err)
	}
	return nil
}
