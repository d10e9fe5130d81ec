package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// AccountStore is the account side of the calculator boundary.
type AccountStore interface {
	// AccountType returns ErrAccountNotFound when id does not exist.
	AccountType(ctx context.Context, id int64) (AccountType, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

// LineStore is the transaction line side of the calculator boundary.
type LineStore interface {
	// CompletedTotals sums the lines of accountID whose transaction is completed.
	// No matching rows yields zero totals.
	CompletedTotals(ctx context.Context, accountID int64) (Totals, error)
}

// Result is the outcome of recomputing a single account.
type Result struct {
	AccountID int64
	Balance   decimal.Decimal
	Found     bool
}

// Calculator recomputes stored account balances from completed transaction lines.
// It does not own a transaction: callers hand it stores bound to their unit of work.
type Calculator struct {
	accounts AccountStore
	lines    LineStore
	strict   bool
	log      logrus.FieldLogger
}

type Option func(*Calculator)

// WithStrictAccounts makes a missing account an ErrAccountNotFound error instead
// of a silent zero balance.
func WithStrictAccounts(strict bool) Option {
	return func(c *Calculator) {
		c.strict = strict
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Calculator) {
		c.log = log
	}
}

func NewCalculator(accounts AccountStore, lines LineStore, opts ...Option) *Calculator {
	c := &Calculator{
		accounts: accounts,
		lines:    lines,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RecomputeBalance recomputes and persists the balance of one account and returns it.
// A missing account returns zero without writing unless strict mode is enabled.
func (c *Calculator) RecomputeBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	res, err := c.recompute(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return res.Balance, nil
}

// RecomputeMultiple recomputes every distinct account in accountIDs once.
func (c *Calculator) RecomputeMultiple(ctx context.Context, accountIDs []int64) error {
	_, err := c.Recompute(ctx, accountIDs)
	return err
}

// Recompute is RecomputeMultiple returning the per-account results in ascending
// account order. It stops at the first error; the caller rolls back.
func (c *Calculator) Recompute(ctx context.Context, accountIDs []int64) ([]Result, error) {
	ids := SortedUnique(accountIDs)
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		res, err := c.recompute(ctx, id)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *Calculator) recompute(ctx context.Context, accountID int64) (Result, error) {
	log := c.log.WithField("accountID", accountID)

	accountType, err := c.accounts.AccountType(ctx, accountID)
	if errors.Is(err, ErrAccountNotFound) {
		if c.strict {
			return Result{}, err
		}
		log.Warn("LedgerBalanceCalculator.recompute.accountMissing")
		return Result{AccountID: accountID, Balance: decimal.Zero}, nil
	}
	if err != nil {
		return Result{}, &PersistenceError{Op: "lookup account type", AccountID: accountID, Err: err}
	}

	totals, err := c.lines.CompletedTotals(ctx, accountID)
	if err != nil {
		return Result{}, &PersistenceError{Op: "sum completed lines", AccountID: accountID, Err: err}
	}

	balance := totals.Balance(accountType)
	if err := c.accounts.UpdateBalance(ctx, accountID, balance); err != nil {
		return Result{}, &PersistenceError{Op: "update balance", AccountID: accountID, Err: err}
	}

	log.WithFields(logrus.Fields{
		"accountType": accountType,
		"debit":       totals.Debit.String(),
		"credit":      totals.Credit.String(),
		"balance":     balance.String(),
	}).Debug("LedgerBalanceCalculator.recompute.complete")

	return Result{AccountID: accountID, Balance: balance, Found: true}, nil
}
