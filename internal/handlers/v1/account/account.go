package account

import (
	"time"

	"github.com/carson-networks/movicar-ledger/internal/service"
)

// Account is the API response model for an account.
type Account struct {
	ID          int64  `json:"id" doc:"Account ID"`
	Code        string `json:"code" doc:"Chart of accounts code"`
	Name        string `json:"name" doc:"Account name"`
	AccountType string `json:"accountType" enum:"asset,liability,equity,income,expense" doc:"Account type, fixes the normal balance side"`
	Balance     string `json:"balance" doc:"Decimal balance, positive on the account's normal side"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromService(acc service.Account) Account {
	return Account{
		ID:          acc.ID,
		Code:        acc.Code,
		Name:        acc.Name,
		AccountType: string(acc.AccountType),
		Balance:     acc.Balance.StringFixed(2),
		CreatedAt:   acc.CreatedAt.Format(time.RFC3339),
	}
}
