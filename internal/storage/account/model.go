package account

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
)

// ErrDuplicateCode is returned when an account code is already in the chart.
var ErrDuplicateCode = errors.New("account code already exists")

// Account represents an account record.
type Account struct {
	ID          int64
	Code        string
	Name        string
	AccountType ledger.AccountType
	Balance     decimal.Decimal
	CreatedAt   time.Time
}

// AccountFilter specifies filters for listing accounts.
type AccountFilter struct {
	Limit  int
	Offset int
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// AccountListResult contains a page of accounts and an optional next cursor.
type AccountListResult struct {
	Accounts   []*Account
	NextCursor *AccountCursor
}

// AccountCreate is the input for creating a new account. Balance always starts
// at zero; only the ledger calculator writes it afterwards.
type AccountCreate struct {
	Code        string
	Name        string
	AccountType ledger.AccountType
}

// IAccountReader defines read access to the chart of accounts.
type IAccountReader interface {
	FindByID(ctx context.Context, id int64) (*Account, error)
	List(ctx context.Context, filter *AccountFilter) (*AccountListResult, error)
	All(ctx context.Context) ([]*Account, error)
	AccountType(ctx context.Context, id int64) (ledger.AccountType, error)
}

// IAccountWriter defines account operations available inside a write transaction.
// It satisfies ledger.AccountStore.
type IAccountWriter interface {
	IAccountReader
	Insert(ctx context.Context, create *AccountCreate) (int64, error)
	// LockForUpdate locks the rows of ids in ascending order and returns the ids that exist.
	LockForUpdate(ctx context.Context, ids []int64) ([]int64, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

const defaultListLimit = 20

// Page applies filter defaults and splits rows fetched with limit+1 into a page
// and the cursor of the next page.
func Page(rows []*Account, limit, offset int) *AccountListResult {
	if len(rows) == 0 {
		return &AccountListResult{}
	}

	var nextCursor *AccountCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}
	return &AccountListResult{Accounts: rows, NextCursor: nextCursor}
}

// Bounds returns the effective limit and offset of filter.
func Bounds(filter *AccountFilter) (limit, offset int) {
	limit = defaultListLimit
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
	}
	return limit, offset
}
