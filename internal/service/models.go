package service

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage/account"
	"github.com/carson-networks/movicar-ledger/internal/storage/transaction"
)

// Account represents an account in the service layer.
type Account struct {
	ID          int64
	Code        string
	Name        string
	AccountType ledger.AccountType
	Balance     decimal.Decimal
	CreatedAt   time.Time
}

// NewAccount is the input for opening an account.
type NewAccount struct {
	Code        string
	Name        string
	AccountType ledger.AccountType
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// Transaction represents a transaction with its lines in the service layer.
type Transaction struct {
	ID              int64
	Description     string
	Reference       string
	Status          ledger.TransactionStatus
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Lines           []Line
}

type Line struct {
	ID        int64
	AccountID int64
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// NewTransaction is the input for posting a transaction.
type NewTransaction struct {
	Description     string
	Reference       string
	Status          ledger.TransactionStatus
	TransactionDate time.Time
	Entries         []ledger.Entry
}

// PostedTransaction is the outcome of posting. Balances is empty for pending transactions.
type PostedTransaction struct {
	ID       int64
	Balances []ledger.Result
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionQuery filters a transaction listing. A nil Cursor starts at the first page.
type TransactionQuery struct {
	Status    omit.Val[ledger.TransactionStatus]
	AccountID omit.Val[int64]
	Cursor    *TransactionCursor
}

// TrialBalance lists every account with its stored balance. In a consistent
// ledger the debit-normal and credit-normal totals are equal.
type TrialBalance struct {
	Accounts          []Account
	DebitNormalTotal  decimal.Decimal
	CreditNormalTotal decimal.Decimal
}

func (t *TrialBalance) Balanced() bool {
	return t.DebitNormalTotal.Equal(t.CreditNormalTotal)
}

func accountFromStorage(row *account.Account) Account {
	return Account{
		ID:          row.ID,
		Code:        row.Code,
		Name:        row.Name,
		AccountType: row.AccountType,
		Balance:     row.Balance,
		CreatedAt:   row.CreatedAt,
	}
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	tx := Transaction{
		ID:              row.ID,
		Description:     row.Description,
		Reference:       row.Reference,
		Status:          row.Status,
		TransactionDate: row.TransactionDate,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if len(row.Lines) > 0 {
		tx.Lines = make([]Line, len(row.Lines))
		for i, l := range row.Lines {
			tx.Lines[i] = Line{
				ID:        l.ID,
				AccountID: l.AccountID,
				Debit:     l.Debit,
				Credit:    l.Credit,
				Memo:      l.Memo,
			}
		}
	}
	return tx
}
