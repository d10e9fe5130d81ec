package transaction

import (
	"time"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              int64  `json:"id" doc:"Transaction ID"`
	Description     string `json:"description" doc:"Free-text description"`
	Reference       string `json:"reference" doc:"External reference, e.g. a rental or invoice number"`
	Status          string `json:"status" enum:"pending,completed,cancelled" doc:"Only completed transactions count towards balances"`
	TransactionDate string `json:"transactionDate" doc:"RFC3339 transaction date"`
	CreatedAt       string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt       string `json:"updatedAt" doc:"RFC3339 time of the last status change"`
	Lines           []Line `json:"lines,omitempty" doc:"Debit and credit lines, only present on single transaction reads"`
}

// Line is the API response model for a transaction line.
type Line struct {
	ID        int64  `json:"id" doc:"Line ID"`
	AccountID int64  `json:"accountID" doc:"Account ID"`
	Debit     string `json:"debit" doc:"Decimal debit amount"`
	Credit    string `json:"credit" doc:"Decimal credit amount"`
	Memo      string `json:"memo,omitempty" doc:"Line memo"`
}

// Balance is a recomputed account balance.
type Balance struct {
	AccountID int64  `json:"accountID" doc:"Account ID"`
	Balance   string `json:"balance" doc:"Decimal balance after recomputation"`
	Found     bool   `json:"found" doc:"False when the account does not exist and nothing was written"`
}

func fromService(tx service.Transaction) Transaction {
	out := Transaction{
		ID:              tx.ID,
		Description:     tx.Description,
		Reference:       tx.Reference,
		Status:          string(tx.Status),
		TransactionDate: tx.TransactionDate.Format(time.RFC3339),
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       tx.UpdatedAt.Format(time.RFC3339),
	}
	for _, l := range tx.Lines {
		out.Lines = append(out.Lines, Line{
			ID:        l.ID,
			AccountID: l.AccountID,
			Debit:     l.Debit.StringFixed(2),
			Credit:    l.Credit.StringFixed(2),
			Memo:      l.Memo,
		})
	}
	return out
}

// FromResults converts recomputation results to their API model.
func FromResults(results []ledger.Result) []Balance {
	balances := make([]Balance, len(results))
	for i, r := range results {
		balances[i] = Balance{
			AccountID: r.AccountID,
			Balance:   r.Balance.StringFixed(2),
			Found:     r.Found,
		}
	}
	return balances
}
