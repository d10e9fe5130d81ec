package ledger

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// AccountType is the chart-of-accounts classification of an account.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every valid account type in chart order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeIncome,
	AccountTypeExpense,
}

// ParseAccountType converts a stored or user supplied value into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}

func (t AccountType) Valid() bool {
	return slices.Contains(AccountTypes, t)
}

// DebitNormal reports whether the account type carries a positive balance
// when debits exceed credits (asset and expense accounts).
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// TransactionStatus is the lifecycle state of a posted transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
)

// ParseTransactionStatus converts a stored or user supplied value into a TransactionStatus.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch st := TransactionStatus(s); st {
	case StatusPending, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

// CanTransitionTo reports whether a transaction in status s may move to next.
// Cancelled is terminal; completed may only be voided.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted:
		return next == StatusCancelled
	}
	return false
}

// Totals holds the summed debit and credit sides of an account's completed lines.
type Totals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Balance applies the normal-balance sign convention of accountType to the totals.
func (t Totals) Balance(accountType AccountType) decimal.Decimal {
	if accountType.DebitNormal() {
		return t.Debit.Sub(t.Credit)
	}
	return t.Credit.Sub(t.Debit)
}

// SortedUnique returns ids without duplicates in ascending order. Row locks are
// always taken in this order.
func SortedUnique(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
