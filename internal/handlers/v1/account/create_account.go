package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/movicar-ledger/internal/handlers/httperr"
	"github.com/carson-networks/movicar-ledger/internal/ledger"
	"github.com/carson-networks/movicar-ledger/internal/logging"
	"github.com/carson-networks/movicar-ledger/internal/service"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Code        string `json:"code" minLength:"1" maxLength:"32" doc:"Unique chart of accounts code"`
	Name        string `json:"name" minLength:"1" doc:"Account name"`
	AccountType string `json:"accountType" enum:"asset,liability,equity,income,expense" doc:"Account type"`
}

// CreateAccountResponse is the response body for creating an account.
type CreateAccountResponse struct {
	ID int64 `json:"id" doc:"Created account ID"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   CreateAccountResponse
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, account service.NewAccount) (int64, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/v1/account",
		Summary:     "Create an account",
		Description: "Adds an account to the chart of accounts. Its balance starts at zero and only changes through posted transactions.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func parseCreateAccountInput(input *CreateAccountInput) (service.NewAccount, error) {
	accountType, err := ledger.ParseAccountType(input.Body.AccountType)
	if err != nil {
		return service.NewAccount{}, huma.NewError(http.StatusBadRequest, "invalid accountType", err)
	}

	return service.NewAccount{
		Code:        input.Body.Code,
		Name:        input.Body.Name,
		AccountType: accountType,
	}, nil
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	acc, err := parseCreateAccountInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createAccountMs")
	}
	id, err := h.AccountService.CreateAccount(ctx, acc)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.From(err, "failed to create account")
	}

	if logData != nil {
		logData.AddData("accountID", id)
	}

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   CreateAccountResponse{ID: id},
	}, nil
}
