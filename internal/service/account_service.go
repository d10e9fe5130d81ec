package service

import (
	"context"

	"github.com/carson-networks/movicar-ledger/internal/operator"
	"github.com/carson-networks/movicar-ledger/internal/operator/actions"
	"github.com/carson-networks/movicar-ledger/internal/storage/account"
)

const defaultAccountLimit = 20

// AccountService handles account business logic.
type AccountService struct {
	accounts account.IAccountReader
	operator operator.IOperator
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts account.IAccountReader, op operator.IOperator) *AccountService {
	return &AccountService{accounts: accounts, operator: op}
}

// CreateAccount opens an account with a zero balance and returns its ID.
func (s *AccountService) CreateAccount(ctx context.Context, acc NewAccount) (int64, error) {
	action := &actions.CreateAccount{
		Code:        acc.Code,
		Name:        acc.Name,
		AccountType: acc.AccountType,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return 0, err
	}
	return action.ID, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*Account, error) {
	row, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	acc := accountFromStorage(row)
	return &acc, nil
}

// ListAccounts returns a page of accounts ordered by code using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, cursor *AccountCursor) ([]Account, *AccountCursor, error) {
	filter := &account.AccountFilter{Limit: defaultAccountLimit}
	if cursor != nil {
		filter.Limit = cursor.Limit
		filter.Offset = cursor.Position
	}

	result, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	if len(result.Accounts) == 0 {
		return nil, nil, nil
	}

	accounts := make([]Account, len(result.Accounts))
	for i, row := range result.Accounts {
		accounts[i] = accountFromStorage(row)
	}

	var nextCursor *AccountCursor
	if result.NextCursor != nil {
		nextCursor = &AccountCursor{
			Position: result.NextCursor.Position,
			Limit:    result.NextCursor.Limit,
		}
	}
	return accounts, nextCursor, nil
}
