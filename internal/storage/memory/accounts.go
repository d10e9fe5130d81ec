package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage/account"
)

var _ account.IAccountWriter = (*accounts)(nil)

type accounts struct {
	src source
}

func (a *accounts) FindByID(_ context.Context, id int64) (*account.Account, error) {
	st, release := a.src.acquire()
	defer release()

	acc, ok := st.accounts[id]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	return &acc, nil
}

func (a *accounts) sorted() []*account.Account {
	st, release := a.src.acquire()
	defer release()

	result := make([]*account.Account, 0, len(st.accounts))
	for _, acc := range st.accounts {
		result = append(result, &acc)
	}
	slices.SortFunc(result, func(x, y *account.Account) int {
		return cmp.Or(cmp.Compare(x.Code, y.Code), cmp.Compare(x.ID, y.ID))
	})
	return result
}

func (a *accounts) List(_ context.Context, filter *account.AccountFilter) (*account.AccountListResult, error) {
	limit, offset := account.Bounds(filter)
	all := a.sorted()

	if offset >= len(all) {
		return &account.AccountListResult{}, nil
	}
	end := min(offset+limit+1, len(all))
	return account.Page(all[offset:end], limit, offset), nil
}

func (a *accounts) All(_ context.Context) ([]*account.Account, error) {
	return a.sorted(), nil
}

func (a *accounts) AccountType(_ context.Context, id int64) (ledger.AccountType, error) {
	st, release := a.src.acquire()
	defer release()

	acc, ok := st.accounts[id]
	if !ok {
		return "", ledger.ErrAccountNotFound
	}
	return acc.AccountType, nil
}

func (a *accounts) Insert(_ context.Context, create *account.AccountCreate) (int64, error) {
	st, release := a.src.acquire()
	defer release()

	if _, exists := st.codes[create.Code]; exists {
		return 0, account.ErrDuplicateCode
	}

	st.nextAccountID++
	id := st.nextAccountID
	st.accounts[id] = account.Account{
		ID:          id,
		Code:        create.Code,
		Name:        create.Name,
		AccountType: create.AccountType,
		Balance:     decimal.Zero,
		CreatedAt:   time.Now().UTC(),
	}
	st.codes[create.Code] = id
	return id, nil
}

// LockForUpdate only reports which ids exist; the single writer lock already
// excludes concurrent writers.
func (a *accounts) LockForUpdate(_ context.Context, ids []int64) ([]int64, error) {
	st, release := a.src.acquire()
	defer release()

	var found []int64
	for _, id := range ledger.SortedUnique(ids) {
		if _, ok := st.accounts[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (a *accounts) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	st, release := a.src.acquire()
	defer release()

	acc, ok := st.accounts[id]
	if !ok {
		return nil
	}
	acc.Balance = balance
	st.accounts[id] = acc
	return nil
}
