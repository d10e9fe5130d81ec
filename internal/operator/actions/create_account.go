package actions

import (
	"context"
	"strings"

	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/storage"
	"github.com/carson-networks/movicar-ledger/internal/storage/account"
)

type CreateAccount struct {
	Code        string
	Name        string
	AccountType ledger.AccountType

	// ID is set once the account is inserted.
	ID int64
}

func (c *CreateAccount) ActionName() string { return "CreateAccount" }

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	code := strings.TrimSpace(c.Code)
	if code == "" {
		return &ledger.ValidationError{Reason: "account code is required"}
	}
	if !c.AccountType.Valid() {
		return &ledger.ValidationError{Reason: "unknown account type " + string(c.AccountType)}
	}

	id, err := writer.Accounts.Insert(ctx, &account.AccountCreate{
		Code:        code,
		Name:        strings.TrimSpace(c.Name),
		AccountType: c.AccountType,
	})
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}
