package ledger

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places a stored amount keeps. The
// debit, credit and balance columns are NUMERIC(18, AmountScale).
const AmountScale = 2

// Side selects which column of a transaction line carries the amount.
type Side int8

const (
	SideDebit Side = iota
	SideCredit
)

func (s Side) String() string {
	if s == SideCredit {
		return "credit"
	}
	return "debit"
}

// Entry is a single posting against an account. Unlike a stored line it can only
// ever carry one side, so a line with both debit and credit set cannot be built.
type Entry struct {
	AccountID int64
	Side      Side
	Amount    decimal.Decimal
	Memo      string
}

// Debit builds an entry debiting accountID.
func Debit(accountID int64, amount decimal.Decimal) Entry {
	return Entry{AccountID: accountID, Side: SideDebit, Amount: amount}
}

// Credit builds an entry crediting accountID.
func Credit(accountID int64, amount decimal.Decimal) Entry {
	return Entry{AccountID: accountID, Side: SideCredit, Amount: amount}
}

// Columns splits the entry into the debit and credit column values of a stored line.
func (e Entry) Columns() (debit, credit decimal.Decimal) {
	if e.Side == SideCredit {
		return decimal.Zero, e.Amount
	}
	return e.Amount, decimal.Zero
}

// CheckAmount rejects an amount that is not positive or that would be rounded
// when stored. line is reported in the error.
func CheckAmount(line int, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Line: line, Reason: "amount must be positive"}
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return &ValidationError{Line: line, Reason: "amount has more than " + strconv.Itoa(AmountScale) + " decimal places"}
	}
	return nil
}

// ValidateEntries checks that entries form a postable double-entry transaction:
// at least two lines, positive amounts at storage scale, and equal debit and credit totals.
func ValidateEntries(entries []Entry) error {
	if len(entries) < 2 {
		return &ValidationError{Reason: "at least two lines are required"}
	}

	var totals Totals
	for i, e := range entries {
		if e.AccountID <= 0 {
			return &ValidationError{Line: i + 1, Reason: "account id is required"}
		}
		if err := CheckAmount(i+1, e.Amount); err != nil {
			return err
		}
		debit, credit := e.Columns()
		totals.Debit = totals.Debit.Add(debit)
		totals.Credit = totals.Credit.Add(credit)
	}

	if !totals.Debit.Equal(totals.Credit) {
		return &ValidationError{
			Reason: "debits (" + totals.Debit.StringFixed(AmountScale) + ") != credits (" + totals.Credit.StringFixed(AmountScale) + ")",
		}
	}
	return nil
}

// AccountIDs returns the distinct accounts touched by entries in lock order.
func AccountIDs(entries []Entry) []int64 {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.AccountID
	}
	return SortedUnique(ids)
}
