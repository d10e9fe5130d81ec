package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/operator"
	"github.com/carson-networks/movicar-ledger/internal/operator/actions"
	"github.com/carson-networks/movicar-ledger/internal/storage/account"
)

// BalanceService exposes the balance maintenance entry points and reports.
type BalanceService struct {
	accounts account.IAccountReader
	operator operator.IOperator
}

func NewBalanceService(accounts account.IAccountReader, op operator.IOperator) *BalanceService {
	return &BalanceService{accounts: accounts, operator: op}
}

// Recompute rebuilds the stored balances of accountIDs, or of every account
// when accountIDs is empty.
func (s *BalanceService) Recompute(ctx context.Context, accountIDs []int64) ([]ledger.Result, error) {
	action := &actions.RecomputeBalances{AccountIDs: accountIDs}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Results, nil
}

// TrialBalance reports every account with its stored balance.
func (s *BalanceService) TrialBalance(ctx context.Context) (*TrialBalance, error) {
	rows, err := s.accounts.All(ctx)
	if err != nil {
		return nil, err
	}

	report := &TrialBalance{
		Accounts:          make([]Account, len(rows)),
		DebitNormalTotal:  decimal.Zero,
		CreditNormalTotal: decimal.Zero,
	}
	for i, row := range rows {
		report.Accounts[i] = accountFromStorage(row)
		if row.AccountType.DebitNormal() {
			report.DebitNormalTotal = report.DebitNormalTotal.Add(row.Balance)
		} else {
			report.CreditNormalTotal = report.CreditNormalTotal.Add(row.Balance)
		}
	}
	return report, nil
}
