package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage/transaction"
)

var _ transaction.ITransactionWriter = (*transactions)(nil)

type transactions struct {
	src source
}

func (t *transactions) FindByID(_ context.Context, id int64) (*transaction.Transaction, error) {
	st, release := t.src.acquire()
	defer release()

	tx, ok := st.transactions[id]
	if !ok {
		return nil, ledger.ErrTransactionNotFound
	}
	tx.Lines = nil
	for _, l := range st.lines {
		if l.TransactionID == id {
			tx.Lines = append(tx.Lines, &l)
		}
	}
	return &tx, nil
}

func (t *transactions) FindByIDForUpdate(ctx context.Context, id int64) (*transaction.Transaction, error) {
	return t.FindByID(ctx, id)
}

func (t *transactions) touches(st *state, transactionID, accountID int64) bool {
	for _, l := range st.lines {
		if l.TransactionID == transactionID && l.AccountID == accountID {
			return true
		}
	}
	return false
}

func (t *transactions) List(_ context.Context, filter *transaction.TransactionFilter) (*transaction.TransactionListResult, error) {
	limit, offset := transaction.Bounds(filter)

	st, release := t.src.acquire()
	defer release()

	var maxCreationTime *time.Time
	var matched []*transaction.Transaction
	for _, tx := range st.transactions {
		if filter != nil {
			if status, ok := filter.Status.Get(); ok && tx.Status != status {
				continue
			}
			if accountID, ok := filter.AccountID.Get(); ok && !t.touches(st, tx.ID, accountID) {
				continue
			}
			if filter.MaxCreationTime != nil {
				maxCreationTime = filter.MaxCreationTime
				if tx.CreatedAt.After(*filter.MaxCreationTime) {
					continue
				}
			}
		}
		tx.Lines = nil
		matched = append(matched, &tx)
	}

	slices.SortFunc(matched, func(x, y *transaction.Transaction) int {
		return cmp.Or(y.CreatedAt.Compare(x.CreatedAt), cmp.Compare(y.ID, x.ID))
	})

	if offset >= len(matched) {
		return &transaction.TransactionListResult{}, nil
	}
	end := min(offset+limit+1, len(matched))
	return transaction.Page(matched[offset:end], limit, offset, maxCreationTime), nil
}

func (t *transactions) CompletedTotals(_ context.Context, accountID int64) (ledger.Totals, error) {
	st, release := t.src.acquire()
	defer release()

	var totals ledger.Totals
	for _, l := range st.lines {
		if l.AccountID != accountID {
			continue
		}
		if st.transactions[l.TransactionID].Status != ledger.StatusCompleted {
			continue
		}
		totals.Debit = totals.Debit.Add(l.Debit)
		totals.Credit = totals.Credit.Add(l.Credit)
	}
	return totals, nil
}

func (t *transactions) Insert(_ context.Context, create *transaction.TransactionCreate) (int64, error) {
	st, release := t.src.acquire()
	defer release()

	now := time.Now().UTC()
	transactionDate := create.TransactionDate
	if transactionDate.IsZero() {
		transactionDate = now
	}

	st.nextTransactionID++
	id := st.nextTransactionID
	st.transactions[id] = transaction.Transaction{
		ID:              id,
		Description:     create.Description,
		Reference:       create.Reference,
		Status:          create.Status,
		TransactionDate: transactionDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, e := range create.Entries {
		debit, credit := e.Columns()
		st.nextLineID++
		st.lines = append(st.lines, transaction.Line{
			ID:            st.nextLineID,
			TransactionID: id,
			AccountID:     e.AccountID,
			Debit:         debit,
			Credit:        credit,
			Memo:          e.Memo,
		})
	}
	return id, nil
}

func (t *transactions) UpdateStatus(_ context.Context, id int64, status ledger.TransactionStatus) error {
	st, release := t.src.acquire()
	defer release()

	tx, ok := st.transactions[id]
	if !ok {
		return ledger.ErrTransactionNotFound
	}
	tx.Status = status
	tx.UpdatedAt = time.Now().UTC()
	st.transactions[id] = tx
	return nil
}
