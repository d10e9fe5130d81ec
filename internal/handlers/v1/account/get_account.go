package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/movicar-ledger/internal/handlers/httperr"
	"github.com/carson-networks/movicar-ledger/internal/logging"
	"github.com/carson-networks/movicar-ledger/internal/service"
)

type GetAccountInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Account ID"`
}

type GetAccountOutput struct {
	Body Account
}

type accountGetter interface {
	GetAccount(ctx context.Context, id int64) (*service.Account, error)
}

// GetAccountHandler handles GET /v1/account/{id}.
type GetAccountHandler struct {
	AccountService accountGetter
}

func NewGetAccountHandler(svc accountGetter) *GetAccountHandler {
	return &GetAccountHandler{AccountService: svc}
}

func (h *GetAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/v1/account/{id}",
		Summary:     "Get an account",
		Description: "Returns an account with its stored balance.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *GetAccountHandler) handle(ctx context.Context, input *GetAccountInput) (*GetAccountOutput, error) {
	logging.AddData(ctx, "accountID", input.ID)

	stopTimer := logging.Time(ctx, "getAccountMs")
	acc, err := h.AccountService.GetAccount(ctx, input.ID)
	stopTimer()
	if err != nil {
		return nil, httperr.From(err, "failed to get account")
	}

	return &GetAccountOutput{Body: fromService(*acc)}, nil
}
