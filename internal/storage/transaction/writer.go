package transaction

import (
	"context"
	"time"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage/pgerr"
)

var _ ITransactionWriter = (*Writer)(nil)

type Writer struct {
	Reader
}

// NewWriter binds transaction writes to tx.
func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		Reader: Reader{
			exec: tx,
		},
	}
}

// Insert stores the transaction and all of its lines.
func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (int64, error) {
	transactionDate := create.TransactionDate
	if transactionDate.IsZero() {
		transactionDate = time.Now().UTC()
	}

	q := psql.Insert(
		im.Into(transactionsTable, "description", "reference", "status", "transaction_date"),
		im.Values(
			psql.Arg(create.Description),
			psql.Arg(create.Reference),
			psql.Arg(string(create.Status)),
			psql.Arg(transactionDate),
		),
		im.Returning("id"),
	)
	id, err := bob.One(ctx, w.exec, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, pgerr.Wrap("insert transaction", err)
	}

	if len(create.Entries) == 0 {
		return id, nil
	}

	lineMods := []bob.Mod[*dialect.InsertQuery]{
		im.Into(linesTable, "transaction_id", "account_id", "debit", "credit", "memo"),
	}
	for _, e := range create.Entries {
		debit, credit := e.Columns()
		lineMods = append(lineMods, im.Values(
			psql.Arg(id),
			psql.Arg(e.AccountID),
			psql.Arg(debit),
			psql.Arg(credit),
			psql.Arg(e.Memo),
		))
	}
	if _, err := bob.Exec(ctx, w.exec, psql.Insert(lineMods...)); err != nil {
		return 0, pgerr.Wrap("insert transaction lines", err)
	}
	return id, nil
}

func (w *Writer) FindByIDForUpdate(ctx context.Context, id int64) (*Transaction, error) {
	return w.find(ctx, id, sm.ForUpdate())
}

func (w *Writer) UpdateStatus(ctx context.Context, id int64, status ledger.TransactionStatus) error {
	q := psql.Update(
		um.Table(transactionsTable),
		um.SetCol("status").ToArg(string(status)),
		um.SetCol("updated_at").ToArg(time.Now().UTC()),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.Exec(ctx, w.exec, q)
	if err != nil {
		return pgerr.Wrap("update transaction status", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}
